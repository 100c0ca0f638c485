// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
	sugar  = logger.Sugar()
)

// ProviderSet is the Wire provider set for the log package.
var ProviderSet = wire.NewSet(ProvideLogger)

// ProvideLogger builds the process logger and installs it as the package global.
func ProvideLogger(conf *Conf) (*zap.Logger, func(), error) {
	l, err := NewLog(conf)
	if err != nil {
		return nil, nil, err
	}
	return l, func() { _ = l.Sync() }, nil
}

// Conf holds logger configuration options.
type Conf struct {
	Output     string
	Format     string // console | json，采集到日志平台时用 json
	Path       string
	Filename   string // 日志文件名，为空时使用默认值
	Level      string
	KeepHours  int // 日志保留天数
	RotateSize int // 单个日志文件最大大小（MB）
	RotateNum  int // 保留的日志文件数量
}

// SetDefaults 返回默认配置
func SetDefaults() *Conf {
	return &Conf{
		Output:     "stdout",
		Format:     "console",
		Path:       "./logs",
		Filename:   "console.log",
		Level:      "INFO",
		KeepHours:  7,
		RotateSize: 100,
		RotateNum:  10,
	}
}

// Validate 验证配置
func (c *Conf) Validate() error {
	if c.Output == "file" {
		if c.Path == "" {
			return fmt.Errorf("log path is required when output is 'file'")
		}
		if c.RotateSize <= 0 {
			c.RotateSize = 100
		}
		if c.RotateNum <= 0 {
			c.RotateNum = 10
		}
		if c.KeepHours <= 0 {
			c.KeepHours = 7
		}
	}
	return nil
}

// NewLog initializes the global logger and returns the underlying zap.Logger.
func NewLog(conf *Conf) (*zap.Logger, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log config: %w", err)
	}

	var writeSyncer zapcore.WriteSyncer
	switch conf.Output {
	case "file":
		writeSyncer = getFileLogWriter(conf)
	default:
		writeSyncer = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(getEncoder(conf.Format), writeSyncer, parseLogLevel(conf.Level))
	newLogger := zap.New(core, zap.AddCaller())

	// 包级函数多一层调用栈
	mu.Lock()
	logger = newLogger.WithOptions(zap.AddCallerSkip(1))
	sugar = logger.Sugar()
	mu.Unlock()

	newLogger.Debug("log initialized",
		zap.String("output", conf.Output),
		zap.String("format", conf.Format),
		zap.String("level", conf.Level),
	)

	return newLogger, nil
}

// GetLogger returns the global sugared logger.
func GetLogger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func getEncoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewDevelopmentEncoderConfig()

	encoderConfig.TimeKey = "time"
	encoderConfig.LevelKey = "level"
	encoderConfig.CallerKey = "caller"
	encoderConfig.MessageKey = "msg"
	encoderConfig.StacktraceKey = "stacktrace"
	encoderConfig.LineEnding = zapcore.DefaultLineEnding
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = customTimeEncoder
	encoderConfig.EncodeDuration = zapcore.SecondsDurationEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	if strings.EqualFold(format, "json") {
		encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05"))
}

// parseLogLevel converts a string level to a zapcore.Level, case-insensitively.
func parseLogLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
