package log

import (
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

/**
 * @file: log_file.go
 * @description: rotating file writer
 */

const defaultFilename = "console.log"

// getFileLogWriter returns the WriteSyncer for logging to a rotating file.
func getFileLogWriter(conf *Conf) zapcore.WriteSyncer {
	name := conf.Filename
	if name == "" {
		name = defaultFilename
	}
	lumberJackLogger := &lumberjack.Logger{
		Filename:   filepath.Join(conf.Path, name),
		MaxSize:    conf.RotateSize,
		MaxBackups: conf.RotateNum,
		MaxAge:     conf.KeepHours,
		Compress:   true,
	}
	return zapcore.AddSync(lumberJackLogger)
}
