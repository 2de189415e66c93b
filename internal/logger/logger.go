package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L is the global application logger. It defaults to a no-op logger so
// packages can log before Init runs (and in tests that never call it).
var L = zap.NewNop()

// Init replaces the global logger. `level` is one of debug, info, warn,
// error, fatal, panic. Production mode logs JSON; development mode logs
// a colored console format.
func Init(level string, isProduction bool) error {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
		fmt.Fprintf(os.Stderr, "Warning: Invalid log level '%s', using default 'info'. Error: %v\n", level, err)
	}

	var err error
	if isProduction {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
		L, err = config.Build()
	} else {
		config := zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.Level = zap.NewAtomicLevelAt(zapLevel)
		L, err = config.Build()
	}

	if err != nil {
		return fmt.Errorf("failed to initialize zap logger: %w", err)
	}

	return nil
}

// Sync flushes any buffered log entries. Call before the process exits.
func Sync() {
	if L != nil {
		_ = L.Sync()
	}
}
