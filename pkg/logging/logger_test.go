package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("default level = %s, want info", cfg.Level)
	}
	if cfg.Pretty {
		t.Error("default pretty should be false")
	}
}

func TestSetup(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := Setup(Config{Level: LevelInfo, Output: buf})

	logger.Info().Str("endpoint", "producao").Msg("serving request")

	output := buf.String()
	if !strings.Contains(output, "serving request") {
		t.Errorf("output missing message: %q", output)
	}
	if !strings.Contains(output, `"endpoint":"producao"`) {
		t.Errorf("output missing structured field: %q", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected zerolog.Level
	}{
		{LevelDebug, zerolog.DebugLevel},
		{LevelInfo, zerolog.InfoLevel},
		{LevelWarn, zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{LevelError, zerolog.ErrorLevel},
		{"invalid", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Output: buf})

	logger := NewLogger("fallback")
	logger.Info().Msg("inventory validated")

	output := buf.String()
	if !strings.Contains(output, `"component":"fallback"`) {
		t.Errorf("output missing component field: %q", output)
	}
}

func TestLogLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelWarn, Output: buf})

	logger := NewLogger("scraper")
	logger.Debug().Msg("cache key computed")
	logger.Info().Msg("fresh data fetched")
	logger.Warn().Msg("live fetch failed")
	logger.Error().Msg("all sources exhausted")

	output := buf.String()
	for _, filtered := range []string{"cache key computed", "fresh data fetched"} {
		if strings.Contains(output, filtered) {
			t.Errorf("message %q should be filtered at warn level", filtered)
		}
	}
	for _, kept := range []string{"live fetch failed", "all sources exhausted"} {
		if !strings.Contains(output, kept) {
			t.Errorf("message %q should pass at warn level", kept)
		}
	}
}
