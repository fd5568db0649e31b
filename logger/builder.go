// logger/builder.go
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BuildLogger creates and returns a new logger instance with the given level and
// encoding. Use "console" for a human-readable output format and "json" (or "JSON")
// for structured output. consoleSeparator is only honoured by the console encoder;
// pass "" to use a tab.
func BuildLogger(logLevel LogLevel, encoding string, consoleSeparator string) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	if consoleSeparator == "" {
		consoleSeparator = "\t"
	}
	encoderCfg.ConsoleSeparator = consoleSeparator

	var encoder zapcore.Encoder
	switch encoding {
	case "json", "JSON":
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	default:
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), toZapLevel(logLevel))

	return &defaultLogger{
		logger:   zap.New(core),
		logLevel: logLevel,
	}
}

// BuildNopLogger returns a logger that discards everything. Useful as the fallback
// when a caller does not care about the client's internal logging.
func BuildNopLogger() Logger {
	return &defaultLogger{
		logger:   zap.NewNop(),
		logLevel: LogLevelNone,
	}
}

// toZapLevel maps the package's LogLevel onto zap's levelling scheme.
func toZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	default:
		// LogLevelNone: nothing at or below FatalLevel+1 is ever written,
		// the defaultLogger level check short-circuits first anyway.
		return zapcore.FatalLevel
	}
}
