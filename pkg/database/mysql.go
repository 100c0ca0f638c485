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
	"fmt"
	"time"

	"github.com/go-arcade/console/pkg/log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// NewMySQL opens the MySQL connection, registers read replicas when
// configured and pings it.
func NewMySQL(cfg Database) (*gorm.DB, error) {
	mysqlCfg := cfg.MySQL

	db, err := gorm.Open(mysql.Open(mysqlCfg.DSN()), gormConfig(cfg.OutPut))
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	if len(mysqlCfg.Replicas) > 0 {
		replicas, err := buildDialectors(mysqlCfg.Replicas)
		if err != nil {
			return nil, fmt.Errorf("failed to build replicas dialectors: %w", err)
		}
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas:          replicas,
			TraceResolverMode: cfg.OutPut,
		}).
			SetConnMaxIdleTime(cfg.connMaxIdleTime()).
			SetConnMaxLifetime(cfg.connMaxLifetime()).
			SetMaxIdleConns(cfg.MaxIdleConns).
			SetMaxOpenConns(cfg.MaxOpenConns))
		if err != nil {
			return nil, fmt.Errorf("failed to register DBResolver plugin: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.connMaxLifetime())
	sqlDB.SetConnMaxIdleTime(cfg.connMaxIdleTime())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	log.Infow("MySQL database connected successfully", "host", mysqlCfg.Host, "db", mysqlCfg.DBName, "replicas", len(mysqlCfg.Replicas))
	return db, nil
}

func gormConfig(output bool) *gorm.Config {
	logConfig := gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Warn,
		Colorful:                  false,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	}

	var gormLogger gormlogger.Interface
	if output {
		gormLogger = NewGormLoggerAdapter(logConfig, gormlogger.Info)
	} else {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	return &gorm.Config{
		Logger: gormLogger,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dataTablePrefix,
			SingularTable: true,
		},
	}
}

// Close closes the pool behind db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
