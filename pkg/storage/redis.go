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

package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/go-arcade/console/pkg/log"
	"github.com/redis/go-redis/v9"
)

const (
	RedisModeSingle   = "single"
	RedisModeSentinel = "sentinel"
	RedisModeCluster  = "cluster"
)

// Redis holds the connection settings for the local backend.
// Address is a comma separated list in sentinel and cluster mode.
type Redis struct {
	Mode             string
	Address          string
	Password         string
	DB               int
	PoolSize         int
	UseTLS           bool
	MasterName       string
	SentinelUsername string
	SentinelPassword string
	// 超时均为秒
	DialTimeout  int
	ReadTimeout  int
	WriteTimeout int
}

func (r Redis) options() *redis.UniversalOptions {
	opts := &redis.UniversalOptions{
		Addrs:            strings.Split(r.Address, ","),
		DB:               r.DB,
		Password:         r.Password,
		PoolSize:         r.PoolSize,
		MasterName:       r.MasterName,
		SentinelUsername: r.SentinelUsername,
		SentinelPassword: r.SentinelPassword,
		DialTimeout:      seconds(r.DialTimeout),
		ReadTimeout:      seconds(r.ReadTimeout),
		WriteTimeout:     seconds(r.WriteTimeout),
	}
	if r.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// NewRedis connects in the configured mode and pings the server.
func NewRedis(cfg Redis) (redis.UniversalClient, error) {
	opts := cfg.options()

	var client redis.UniversalClient
	switch cfg.Mode {
	case RedisModeSingle, "":
		client = redis.NewClient(opts.Simple())
	case RedisModeSentinel:
		if cfg.MasterName == "" {
			return nil, fmt.Errorf("redis sentinel mode requires masterName")
		}
		client = redis.NewFailoverClient(opts.Failover())
	case RedisModeCluster:
		// cluster 忽略 db
		client = redis.NewClusterClient(opts.Cluster())
	default:
		return nil, fmt.Errorf("unsupported redis mode: %s", cfg.Mode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		log.Errorw("failed to connect redis", "mode", cfg.Mode, "address", cfg.Address, "error", err)
		return nil, err
	}

	log.Infow("redis connected", "mode", cfg.Mode, "address", cfg.Address)
	return client, nil
}

// seconds 0 表示使用 go-redis 默认值
func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
