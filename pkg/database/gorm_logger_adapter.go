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

package database

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-arcade/console/pkg/log"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// GormLoggerAdapter routes gorm logs through the global zap logger.
type GormLoggerAdapter struct {
	Config logger.Config
	Level  logger.LogLevel

	once  sync.Once
	sugar *zap.SugaredLogger
}

func NewGormLoggerAdapter(config logger.Config, logLevel logger.LogLevel) *GormLoggerAdapter {
	return &GormLoggerAdapter{
		Config: config,
		Level:  logLevel,
	}
}

func (l *GormLoggerAdapter) logger() *zap.SugaredLogger {
	l.once.Do(func() {
		l.sugar = log.GetLogger().Desugar().WithOptions(zap.AddCallerSkip(2)).Sugar().Named("gorm")
	})
	return l.sugar
}

func (l *GormLoggerAdapter) LogMode(level logger.LogLevel) logger.Interface {
	return &GormLoggerAdapter{Config: l.Config, Level: level}
}

func (l *GormLoggerAdapter) Info(_ context.Context, msg string, data ...any) {
	if l.Level >= logger.Info {
		l.logger().Infow(msg, "data", data)
	}
}

func (l *GormLoggerAdapter) Warn(_ context.Context, msg string, data ...any) {
	if l.Level >= logger.Warn {
		l.logger().Warnw(msg, "data", data)
	}
}

func (l *GormLoggerAdapter) Error(_ context.Context, msg string, data ...any) {
	if l.Level >= logger.Error {
		l.logger().Errorw(msg, "data", data)
	}
}

func (l *GormLoggerAdapter) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && l.Level >= logger.Error && (!errors.Is(err, logger.ErrRecordNotFound) || !l.Config.IgnoreRecordNotFoundError):
		l.logger().Errorw("SQL query failed", "sql", sql, "rows", rows, "elapsed", elapsed, "error", err)
	case l.Config.SlowThreshold != 0 && elapsed > l.Config.SlowThreshold && l.Level >= logger.Warn:
		l.logger().Warnw("Slow SQL query", "sql", sql, "rows", rows, "elapsed", elapsed)
	case l.Level >= logger.Info:
		l.logger().Debugw("SQL query", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
