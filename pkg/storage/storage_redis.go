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
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

// RedisStorage keeps items as plain Redis strings under a namespace.
type RedisStorage struct {
	client    redis.Cmdable
	namespace string
	ttl       time.Duration
}

// NewRedisStorage creates a Redis backed Storage. A zero ttl keeps items forever.
func NewRedisStorage(client redis.Cmdable, namespace string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, namespace: namespace, ttl: ttl}
}

func (r *RedisStorage) key(k string) string {
	return r.namespace + k
}

func (r *RedisStorage) GetItem(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

func (r *RedisStorage) SetItem(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.key(key), value, r.ttl).Err()
}

func (r *RedisStorage) RemoveItem(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Keys walks the namespace with SCAN rather than KEYS.
func (r *RedisStorage) Keys(ctx context.Context) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := r.client.Scan(ctx, cursor, r.namespace+"*", scanBatch).Result()
		if err != nil {
			return nil, err
		}
		for _, k := range batch {
			keys = append(keys, strings.TrimPrefix(k, r.namespace))
		}
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

func (r *RedisStorage) Clear(ctx context.Context) error {
	keys, err := r.Keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	return r.client.Del(ctx, full...).Err()
}
