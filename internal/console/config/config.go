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
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/console/internal/console/remote"
	"github.com/go-arcade/console/pkg/database"
	"github.com/go-arcade/console/pkg/http"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/go-arcade/console/pkg/pprof"
	"github.com/go-arcade/console/pkg/storage"
	"github.com/spf13/viper"
)

const envPrefix = "CONSOLE"

// ViewsConfig 页面视图相关配置
type ViewsConfig struct {
	Prefix string `mapstructure:"prefix"`
	Ext    string `mapstructure:"ext"`
	// Dir 构建产物中的视图目录，为空时不扫描，组件 loader 保持为空
	Dir string `mapstructure:"dir"`
	// LocalRoutes 本地路由表 JSON 文件，为空时使用内置路由表
	LocalRoutes string `mapstructure:"localRoutes"`
}

// ConsoleConfig 控制台会话相关配置
type ConsoleConfig struct {
	ProjectName string   `mapstructure:"projectName"`
	Whitelist   []string `mapstructure:"whitelist"`
	// SessionTTL 会话空闲超时（秒），0 表示不过期
	SessionTTL int `mapstructure:"sessionTTL"`
	// MaxSessions 最大会话数，0 表示不限制
	MaxSessions int `mapstructure:"maxSessions"`
}

type AppConfig struct {
	Log      log.Conf              `mapstructure:"log"`
	Http     http.Http             `mapstructure:"http"`
	Metrics  metrics.MetricsConfig `mapstructure:"metrics"`
	Pprof    pprof.PprofConfig     `mapstructure:"pprof"`
	Storage  storage.Conf          `mapstructure:"storage"`
	Database database.Database     `mapstructure:"database"`
	Menu     remote.Conf           `mapstructure:"menu"`
	Views    ViewsConfig           `mapstructure:"views"`
	Console  ConsoleConfig         `mapstructure:"console"`
}

var (
	cfg  AppConfig
	once sync.Once

	watchMu  sync.RWMutex
	watchers []func(AppConfig)
)

func NewConf(confDir string) AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	return cfg
}

// LoadConfigFile load config file and watch it for changes
func LoadConfigFile(confDir string) (AppConfig, error) {
	config, err := newViper(confDir)
	if err != nil {
		return AppConfig{}, err
	}

	var loaded AppConfig
	if err := config.Unmarshal(&loaded); err != nil {
		return AppConfig{}, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}

	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("The configuration changes, re-analyze the configuration file", "file", e.Name)
		var next AppConfig
		if err := config.Unmarshal(&next); err != nil {
			log.Errorw("failed to unmarshal configuration file", "file", e.Name, "error", err)
			return
		}
		notify(next)
	})

	log.Infow("config file loaded",
		"path", confDir,
		"menu.source", loaded.Menu.Source,
		"storage.driver", loaded.Storage.Driver,
	)
	return loaded, nil
}

func newViper(confDir string) (*viper.Viper, error) {
	config := viper.New()
	config.SetConfigFile(confDir) //文件名
	config.SetConfigType("toml")
	config.SetEnvPrefix(envPrefix)
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()
	setDefaults(config)

	if err := config.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("storage.driver", storage.DriverRedis)
	v.SetDefault("storage.namespace", "console")
	v.SetDefault("menu.source", remote.KindStatic)
	v.SetDefault("menu.timeout", 10)
	v.SetDefault("views.prefix", "/src/views")
	v.SetDefault("views.ext", ".vue")
	v.SetDefault("console.projectName", "Arcade Console")
	v.SetDefault("console.sessionTTL", 1800)
}

// Watch registers fn to receive every successfully reloaded configuration.
// The returned func unregisters it.
func Watch(fn func(AppConfig)) func() {
	watchMu.Lock()
	defer watchMu.Unlock()
	watchers = append(watchers, fn)
	idx := len(watchers) - 1
	return func() {
		watchMu.Lock()
		defer watchMu.Unlock()
		if idx < len(watchers) {
			watchers[idx] = nil
		}
	}
}

func notify(next AppConfig) {
	watchMu.RLock()
	fns := make([]func(AppConfig), 0, len(watchers))
	for _, fn := range watchers {
		if fn != nil {
			fns = append(fns, fn)
		}
	}
	watchMu.RUnlock()
	for _, fn := range fns {
		fn(next)
	}
}
