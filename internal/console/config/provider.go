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
package config

import (
	"github.com/go-arcade/console/internal/console/remote"
	"github.com/go-arcade/console/pkg/database"
	"github.com/go-arcade/console/pkg/http"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/go-arcade/console/pkg/pprof"
	"github.com/go-arcade/console/pkg/storage"
	"github.com/google/wire"
)

// ProviderSet 提供配置层相关的依赖
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideHttpConfig,
	ProvideLogConfig,
	ProvideMetricsConfig,
	ProvidePprofConfig,
	ProvideStorageConfig,
	ProvideDatabaseConfig,
	ProvideMenuConfig,
	ProvideViewsConfig,
	ProvideConsoleConfig,
)

// ProvideConf 提供应用配置
func ProvideConf(configPath string) *AppConfig {
	c := NewConf(configPath)
	return &c
}

// ProvideHttpConfig 提供 HTTP 配置
func ProvideHttpConfig(appConf *AppConfig) *http.Http {
	httpConfig := &appConf.Http
	httpConfig.SetDefaults()
	return httpConfig
}

// ProvideLogConfig 提供日志配置
func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	return &appConf.Log
}

// ProvideMetricsConfig 提供 Metrics 配置
func ProvideMetricsConfig(appConf *AppConfig) metrics.MetricsConfig {
	return appConf.Metrics
}

// ProvidePprofConfig 提供 pprof 配置
func ProvidePprofConfig(appConf *AppConfig) pprof.PprofConfig {
	return appConf.Pprof
}

// ProvideStorageConfig 提供存储配置
func ProvideStorageConfig(appConf *AppConfig) storage.Conf {
	return appConf.Storage
}

// ProvideDatabaseConfig 提供数据库配置
func ProvideDatabaseConfig(appConf *AppConfig) database.Database {
	return appConf.Database
}

// ProvideMenuConfig 提供菜单来源配置
func ProvideMenuConfig(appConf *AppConfig) remote.Conf {
	return appConf.Menu
}

// ProvideViewsConfig 提供视图配置
func ProvideViewsConfig(appConf *AppConfig) ViewsConfig {
	return appConf.Views
}

// ProvideConsoleConfig 提供控制台会话配置
func ProvideConsoleConfig(appConf *AppConfig) ConsoleConfig {
	return appConf.Console
}
