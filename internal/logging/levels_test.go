package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestTraceLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    zapcore.Level
		expected int8
	}{
		{"trace below debug", TraceLevel, -2},
		{"debug level", zapcore.DebugLevel, -1},
		{"trace enabled at trace", TraceLevel, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, int8(tt.level))
		})
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected zapcore.Level
		wantErr  bool
	}{
		{"trace", "trace", TraceLevel, false},
		{"TRACE uppercase", "TRACE", TraceLevel, false},
		{"debug", "debug", zapcore.DebugLevel, false},
		{"info", "info", zapcore.InfoLevel, false},
		{"warn", "warn", zapcore.WarnLevel, false},
		{"error", "error", zapcore.ErrorLevel, false},
		{"fatal", "fatal", zapcore.FatalLevel, false},
		{"invalid", "verbose", zapcore.InfoLevel, true},
		{"empty", "", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := LevelFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, level)
			}
		})
	}
}
