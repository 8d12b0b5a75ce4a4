// Package logger exposes a process-wide structured logger.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

func init() {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "@timestamp"

	level := zap.InfoLevel
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	sugar = zap.New(core, zap.AddCallerSkip(1)).Sugar()
}

// Debugw logs a message with key-value context at DebugLevel.
func Debugw(message string, keysAndValues ...interface{}) {
	sugar.Debugw(message, keysAndValues...)
}

// Infow logs a message with key-value context at InfoLevel.
func Infow(message string, keysAndValues ...interface{}) {
	sugar.Infow(message, keysAndValues...)
}

// Errorw logs a message with key-value context at ErrorLevel.
func Errorw(message string, keysAndValues ...interface{}) {
	sugar.Errorw(message, keysAndValues...)
}

// Fatalw logs a message with key-value context, then calls os.Exit.
func Fatalw(message string, keysAndValues ...interface{}) {
	sugar.Fatalw(message, keysAndValues...)
}
