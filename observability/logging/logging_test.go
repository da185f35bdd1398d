package logging

import (
	"log/slog"
	"testing"
)

func TestLevelFromEnv(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for value, want := range cases {
		t.Setenv(LevelEnv, value)
		if got := levelFromEnv(); got != want {
			t.Fatalf("level for %q: expected %v, got %v", value, want, got)
		}
	}
}
