//go:build wireinject
// +build wireinject

package main

import (
	"github.com/go-arcade/console/internal/console/bootstrap"
	"github.com/go-arcade/console/internal/console/config"
	"github.com/go-arcade/console/internal/console/remote"
	"github.com/go-arcade/console/internal/console/repo"
	"github.com/go-arcade/console/internal/console/server"
	"github.com/go-arcade/console/pkg/database"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/go-arcade/console/pkg/pprof"
	"github.com/go-arcade/console/pkg/storage"
	"github.com/google/wire"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// 配置层
		config.ProviderSet,
		// 日志层（依赖 config）
		log.ProviderSet,
		// 存储层（依赖 config）
		storage.ProviderSet,
		// 数据库层，仅菜单来源为 db 时使用
		database.ProviderSet,
		repo.ProviderSet,
		// 指标层（依赖 config）
		metrics.ProviderSet,
		// pprof层（依赖 config）
		pprof.ProviderSet,
		// 菜单来源（依赖 config, repo, metrics）
		remote.ProviderSet,
		// 路由与会话
		server.ProviderSet,
		// 应用层
		bootstrap.NewApp,
	))
}
