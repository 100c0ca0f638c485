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
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const (
	dataTablePrefix = "t_"

	defaultPort        = "3306"
	defaultMaxLifetime = 300 * time.Second
	defaultMaxIdleTime = 60 * time.Second
)

// Source 一个 MySQL 实例
type Source struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// DSN 使用 utf8mb4 并解析时间字段
func (s Source) DSN() string {
	port := s.Port
	if port == "" {
		port = defaultPort
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		s.User, s.Password, s.Host, port, s.DBName)
}

func (s Source) validate() error {
	if s.Host == "" || s.User == "" || s.DBName == "" {
		return fmt.Errorf("incomplete database source %q: host, user and dbname are required", s.Host)
	}
	return nil
}

// MySQLConfig 主库，Replicas 只承担菜单的只读查询
type MySQLConfig struct {
	Source   `mapstructure:",squash"`
	Replicas []Source `mapstructure:"replicas"`
}

// Database is only needed when menus are read from the database.
type Database struct {
	OutPut       bool        `mapstructure:"output"`
	MaxOpenConns int         `mapstructure:"maxOpenConns"`
	MaxIdleConns int         `mapstructure:"maxIdleConns"`
	MaxLifetime  int         `mapstructure:"maxLifeTime"`
	MaxIdleTime  int         `mapstructure:"maxIdleTime"`
	MySQL        MySQLConfig `mapstructure:"mysql"`
}

// Enabled reports whether a MySQL source is configured.
func (d Database) Enabled() bool {
	return d.MySQL.Host != "" && d.MySQL.DBName != ""
}

func (d Database) connMaxLifetime() time.Duration {
	return secondsOr(d.MaxLifetime, defaultMaxLifetime)
}

func (d Database) connMaxIdleTime() time.Duration {
	return secondsOr(d.MaxIdleTime, defaultMaxIdleTime)
}

func secondsOr(n int, def time.Duration) time.Duration {
	if n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

func buildDialectors(sources []Source) ([]gorm.Dialector, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	dialectors := make([]gorm.Dialector, 0, len(sources))
	for _, s := range sources {
		if err := s.validate(); err != nil {
			return nil, err
		}
		dialectors = append(dialectors, mysql.Open(s.DSN()))
	}
	return dialectors, nil
}
