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
	"fmt"
	"time"

	"github.com/go-arcade/console/pkg/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Conf 存储配置
type Conf struct {
	// Driver 选择 local 存储实现：redis 或 memory
	Driver    string
	Namespace string
	// TTL 秒，0 表示永不过期（仅 redis）
	TTL             int
	Redis           Redis
	SessionMaxBytes int
}

// ProviderSet 提供存储相关依赖
var ProviderSet = wire.NewSet(ProvideBackends)

// ProvideBackends builds the local and session backends from conf.
// The cleanup closes the Redis client when one was opened.
func ProvideBackends(conf Conf) (Backends, func(), error) {
	session := NewFastCacheStorage(FastCacheConfig{MaxBytes: conf.SessionMaxBytes})

	switch conf.Driver {
	case DriverMemory:
		log.Warnw("local storage uses memory driver, state will not survive restart")
		local := NewFastCacheStorage(FastCacheConfig{MaxBytes: conf.SessionMaxBytes})
		return Backends{Local: local, Session: session}, func() {}, nil
	case DriverRedis, "":
		client, err := NewRedis(conf.Redis)
		if err != nil {
			return Backends{}, nil, err
		}
		local := NewRedisStorage(client, conf.Namespace, time.Duration(conf.TTL)*time.Second)
		cleanup := func() {
			if err := client.Close(); err != nil {
				log.Warnw("failed to close redis", "error", err)
			}
		}
		return Backends{Local: local, Session: session}, cleanup, nil
	default:
		return Backends{}, nil, fmt.Errorf("unsupported storage driver: %s", conf.Driver)
	}
}

// NewBackends wires a Redis client that is already open, used by tests and tooling.
func NewBackends(client redis.Cmdable, namespace string) Backends {
	return Backends{
		Local:   NewRedisStorage(client, namespace, 0),
		Session: NewFastCacheStorage(FastCacheConfig{}),
	}
}
