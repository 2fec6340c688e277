package log

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		env      string
		expected zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, test := range tests {
		t.Run(test.env, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", test.env)
			if level := LevelFromEnv(); level != test.expected {
				t.Errorf("unexpected level for %q: %s", test.env, level)
			}
		})
	}
}
