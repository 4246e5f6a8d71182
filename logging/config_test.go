package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "default level", level: "warn"},
		{name: "debug level", level: "debug"},
		{name: "invalid level", level: "loud", wantErr: true},
		{name: "empty level", level: "", wantErr: false}, // zap treats "" as info
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Level: tt.level}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
