package tail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartOffset(t *testing.T) {
	tests := []struct {
		name          string
		highWaterMark int64
		lookBack      uint64
		expected      int64
	}{
		{name: "zero look-back starts at the live head", highWaterMark: 100, lookBack: 0, expected: 100},
		{name: "look-back within history", highWaterMark: 100, lookBack: 40, expected: 60},
		{name: "look-back beyond history clamps to zero", highWaterMark: 100, lookBack: 150, expected: 0},
		{name: "look-back equal to watermark clamps to zero", highWaterMark: 100, lookBack: 100, expected: 0},
		{name: "empty partition", highWaterMark: 0, lookBack: 5, expected: 0},
		{name: "empty partition without look-back", highWaterMark: 0, lookBack: 0, expected: 0},
		{name: "single message replay", highWaterMark: 1, lookBack: 1, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StartOffset(tt.highWaterMark, tt.lookBack))
		})
	}
}
