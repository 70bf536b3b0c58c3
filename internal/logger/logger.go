// Package logger builds the process-wide zap logger.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Anwar-Qureshi/SkillBridge/internal/config"
)

// New builds a logger writing to stderr, keeping stdout free for command
// output.
func New(cfg config.LoggerConfig) *zap.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter builds a logger writing to w. Production uses the JSON
// encoder; anything else uses the console encoder.
func NewWithWriter(cfg config.LoggerConfig, w io.Writer) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	level := zapcore.InfoLevel
	if cfg.Level == "debug" {
		level = zapcore.DebugLevel
	}

	encoder := zapcore.NewConsoleEncoder(encoderConfig)
	if cfg.Env == "production" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}
