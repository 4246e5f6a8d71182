package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeLags(t *testing.T) {
	tests := []struct {
		name     string
		pairs    []PartitionOffsets
		expected []PartitionLag
	}{
		{
			name:     "empty input yields empty output",
			pairs:    nil,
			expected: nil,
		},
		{
			name: "plain difference",
			pairs: []PartitionOffsets{
				{Topic: "orders", Partition: 0, CommittedOffset: 40, HighWaterMark: 100},
			},
			expected: []PartitionLag{
				{Topic: "orders", Partition: 0, CommittedOffset: 40, HighWaterMark: 100, Lag: 60},
			},
		},
		{
			name: "committed ahead of watermark is clamped to zero",
			pairs: []PartitionOffsets{
				{Topic: "orders", Partition: 0, CommittedOffset: 120, HighWaterMark: 100},
			},
			expected: []PartitionLag{
				{Topic: "orders", Partition: 0, CommittedOffset: 120, HighWaterMark: 100, Lag: 0},
			},
		},
		{
			name: "absent commit counts as zero",
			pairs: []PartitionOffsets{
				{Topic: "orders", Partition: 2, CommittedOffset: -1, HighWaterMark: 55},
			},
			expected: []PartitionLag{
				{Topic: "orders", Partition: 2, CommittedOffset: 0, HighWaterMark: 55, Lag: 55},
			},
		},
		{
			name: "input order is preserved",
			pairs: []PartitionOffsets{
				{Topic: "payments", Partition: 1, CommittedOffset: 5, HighWaterMark: 5},
				{Topic: "orders", Partition: 0, CommittedOffset: 0, HighWaterMark: 3},
				{Topic: "orders", Partition: 1, CommittedOffset: 1, HighWaterMark: 3},
			},
			expected: []PartitionLag{
				{Topic: "payments", Partition: 1, CommittedOffset: 5, HighWaterMark: 5, Lag: 0},
				{Topic: "orders", Partition: 0, CommittedOffset: 0, HighWaterMark: 3, Lag: 3},
				{Topic: "orders", Partition: 1, CommittedOffset: 1, HighWaterMark: 3, Lag: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeLags(tt.pairs))
		})
	}
}

func TestComputeLagsIdempotent(t *testing.T) {
	pairs := []PartitionOffsets{
		{Topic: "orders", Partition: 0, CommittedOffset: 10, HighWaterMark: 25},
		{Topic: "orders", Partition: 1, CommittedOffset: -1, HighWaterMark: 9},
	}

	first := ComputeLags(pairs)
	second := ComputeLags(pairs)
	assert.Equal(t, first, second)
}
