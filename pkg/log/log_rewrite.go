package log

/**
 * @file: log_rewrite.go
 * @description: package-level shortcuts over the global sugared logger
 */

func Info(args ...any) {
	GetLogger().Info(args...)
}

func Infof(format string, args ...any) {
	GetLogger().Infof(format, args...)
}

func Infow(msg string, keysAndValues ...any) {
	GetLogger().Infow(msg, keysAndValues...)
}

func Debug(args ...any) {
	GetLogger().Debug(args...)
}

func Debugf(format string, args ...any) {
	GetLogger().Debugf(format, args...)
}

func Debugw(msg string, keysAndValues ...any) {
	GetLogger().Debugw(msg, keysAndValues...)
}

func Warn(args ...any) {
	GetLogger().Warn(args...)
}

func Warnf(format string, args ...any) {
	GetLogger().Warnf(format, args...)
}

func Warnw(msg string, keysAndValues ...any) {
	GetLogger().Warnw(msg, keysAndValues...)
}

func Error(args ...any) {
	GetLogger().Error(args...)
}

func Errorf(format string, args ...any) {
	GetLogger().Errorf(format, args...)
}

func Errorw(msg string, keysAndValues ...any) {
	GetLogger().Errorw(msg, keysAndValues...)
}
