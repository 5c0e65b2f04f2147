package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewApplicationLogger constructs the zap logger used for analyzer progress
// and warnings. Output is bare console text so scan messages read like the
// plain prints a human expects from a local tool.
func NewApplicationLogger(verbose bool) (*zap.Logger, error) {
	loggerConfiguration := zap.NewProductionConfig()
	loggerConfiguration.Encoding = "console"
	loggerConfiguration.DisableCaller = true
	loggerConfiguration.DisableStacktrace = true
	loggerConfiguration.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	loggerConfiguration.EncoderConfig.TimeKey = ""
	loggerConfiguration.EncoderConfig.LevelKey = ""
	loggerConfiguration.EncoderConfig.NameKey = ""
	loggerConfiguration.EncoderConfig.CallerKey = ""
	loggerConfiguration.EncoderConfig.MessageKey = "message"
	loggerConfiguration.EncoderConfig.StacktraceKey = ""
	if verbose {
		loggerConfiguration.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return loggerConfiguration.Build()
}
