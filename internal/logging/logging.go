// Package logging builds the zap loggers used by the CLI and scene layer.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger is the logger type passed around the module.
type Logger = *zap.SugaredLogger

// NewLoggerConfig returns a console config with ISO8601 timestamps, colored
// levels and stacktraces disabled.
func NewLoggerConfig() zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// NewLogger returns a named logger at info level, or debug level when debug
// is set.
func NewLogger(name string, debug bool) Logger {
	cfg := NewLoggerConfig()
	if debug {
		cfg.Level.SetLevel(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar().Named(name)
}

// NewTestLogger returns a logger that writes through tb.
func NewTestLogger(tb zaptest.TestingT) Logger {
	return zaptest.NewLogger(tb).Sugar()
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger {
	return zap.NewNop().Sugar()
}
