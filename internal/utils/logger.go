package utils

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LogLevelInfo enables every diagnostic.
	LogLevelInfo = "info"
	// LogLevelWarning enables warnings and errors.
	LogLevelWarning = "warning"
	// LogLevelError enables errors only.
	LogLevelError = "error"

	logLevelWarnAlias = "warn"
	standardErrorPath = "stderr"
)

// NewApplicationLogger constructs a zap logger configured for human-readable console output on
// standard error. The level is read from atomicLevel so it can be changed after flags are parsed.
func NewApplicationLogger(atomicLevel zap.AtomicLevel) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = atomicLevel
	config.Encoding = "console"
	config.Sampling = nil
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.OutputPaths = []string{standardErrorPath}
	config.ErrorOutputPaths = []string{standardErrorPath}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	return config.Build()
}

// ParseLogLevel maps a --log-level value to a zap level. Unknown values map to
// the error level and report false.
func ParseLogLevel(value string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case LogLevelInfo:
		return zapcore.InfoLevel, true
	case LogLevelWarning, logLevelWarnAlias:
		return zapcore.WarnLevel, true
	case LogLevelError:
		return zapcore.ErrorLevel, true
	default:
		return zapcore.ErrorLevel, false
	}
}
