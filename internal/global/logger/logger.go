package logger

import "gitlab.com/gradepro.net/internal/adapter/logging"

var Logger = logging.NewZapLogger()

// Init replaces the process logger once configuration is known
func Init(l *logging.ZapLogger) {
	Logger = l
}

func Info(msg string, args ...interface{}) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...interface{}) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...interface{}) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	Logger.Warn(msg, args...)
}
