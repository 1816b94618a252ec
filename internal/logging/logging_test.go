package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	if NewLogger("test", false).Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled by default")
	}
	if !NewLogger("test", true).Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be enabled with debug=true")
	}
}

func TestNewLoggerConfig(t *testing.T) {
	cfg := NewLoggerConfig()
	if cfg.Encoding != "console" {
		t.Errorf("expected console encoding, got %s", cfg.Encoding)
	}
	if cfg.Level.Level() != zapcore.InfoLevel {
		t.Errorf("expected info level, got %v", cfg.Level.Level())
	}
}

func TestNewTestLogger(t *testing.T) {
	logger := NewTestLogger(t)
	logger.Infow("hello", "k", 1)
	NewNopLogger().Info("discarded")
}
