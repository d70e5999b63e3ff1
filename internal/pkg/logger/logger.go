package logger

import (
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
    "strings"
)

// Global logger instance. No-op until InitLogger runs, so library code
// can log unconditionally.
var Log = zap.NewNop()

// Sets up a global Zap logger with the given log level. The console flag
// switches to a human-readable encoding for interactive CLI runs.
func InitLogger(logLevel string, console bool) error {
    var level zapcore.Level

    // Convert string level to zapcore.Level
    switch strings.ToLower(logLevel) {
    case "debug":
        level = zapcore.DebugLevel
    case "info":
        level = zapcore.InfoLevel
    case "warn":
        level = zapcore.WarnLevel
    case "error":
        level = zapcore.ErrorLevel
    default:
        level = zapcore.InfoLevel // fallback
    }

    encoding := "json" // structured JSON logs
    encodeLevel := zapcore.LowercaseLevelEncoder
    if console {
        encoding = "console"
        encodeLevel = zapcore.CapitalLevelEncoder
    }

    // Configure encoder
    config := zap.Config{
        Level:            zap.NewAtomicLevelAt(level),
        Development:      false,
        Encoding:         encoding,
        OutputPaths:      []string{"stdout"},
        ErrorOutputPaths: []string{"stderr"},
        EncoderConfig: zapcore.EncoderConfig{
            MessageKey:    "message",
            LevelKey:      "level",
            TimeKey:       "time",
            NameKey:       "logger",
            CallerKey:     "caller",
            StacktraceKey: "stacktrace",
            LineEnding:    zapcore.DefaultLineEnding,
            EncodeLevel:   encodeLevel,
            EncodeTime:    zapcore.ISO8601TimeEncoder,
            EncodeCaller:  zapcore.ShortCallerEncoder,
        },
    }

    log, err := config.Build()
    if err != nil {
        return err
    }

    Log = log
    return nil
}
