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
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStorage(t *testing.T, namespace string) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStorage(client, namespace, 0), mr
}

// exercise runs the same contract against every backend.
func exercise(t *testing.T, s Storage) {
	ctx := context.Background()

	_, err := s.GetItem(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetItem(ctx, "a", `{"x":1}`))
	require.NoError(t, s.SetItem(ctx, "b", ""))

	v, err := s.GetItem(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, v)

	v, err = s.GetItem(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	// last writer wins
	require.NoError(t, s.SetItem(ctx, "a", "2"))
	v, err = s.GetItem(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)

	require.NoError(t, s.RemoveItem(ctx, "a"))
	_, err = s.GetItem(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Clear(ctx))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFastCacheStorage(t *testing.T) {
	exercise(t, NewFastCacheStorage(FastCacheConfig{MaxBytes: 1024 * 1024}))
}

func TestRedisStorage(t *testing.T) {
	s, _ := newRedisStorage(t, "console:")
	exercise(t, s)
}

func TestRedisStorage_Namespace(t *testing.T) {
	s, mr := newRedisStorage(t, "console:")
	ctx := context.Background()

	require.NoError(t, mr.Set("other", "keep"))
	require.NoError(t, s.SetItem(ctx, "visited-routes", "[]"))

	assert.True(t, mr.Exists("console:visited-routes"))

	require.NoError(t, s.Clear(ctx))
	assert.False(t, mr.Exists("console:visited-routes"))
	assert.True(t, mr.Exists("other"))
}

func TestRedisStorage_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewRedisStorage(client, "", time.Minute)
	require.NoError(t, s.SetItem(context.Background(), "k", "v"))

	mr.FastForward(2 * time.Minute)
	_, err := s.GetItem(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithPrefix(t *testing.T) {
	ctx := context.Background()
	inner := NewFastCacheStorage(FastCacheConfig{})
	a := WithPrefix(inner, "s1:")
	b := WithPrefix(inner, "s2:")

	require.NoError(t, a.SetItem(ctx, "user-info", "alice"))
	require.NoError(t, b.SetItem(ctx, "user-info", "bob"))

	va, err := a.GetItem(ctx, "user-info")
	require.NoError(t, err)
	assert.Equal(t, "alice", va)

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-info"}, keys)

	require.NoError(t, a.Clear(ctx))
	_, err = a.GetItem(ctx, "user-info")
	assert.ErrorIs(t, err, ErrNotFound)

	vb, err := b.GetItem(ctx, "user-info")
	require.NoError(t, err)
	assert.Equal(t, "bob", vb)
}

func TestBackends_Get(t *testing.T) {
	b := Backends{Local: NewFastCacheStorage(FastCacheConfig{})}

	s, err := b.Get("")
	require.NoError(t, err)
	assert.Same(t, b.Local, s)

	_, err = b.Get(Session)
	assert.Error(t, err)

	_, err = b.Get("cookie")
	assert.Error(t, err)
}

func TestProvideBackends_Memory(t *testing.T) {
	b, cleanup, err := ProvideBackends(Conf{Driver: DriverMemory})
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, b.Local)
	assert.NotNil(t, b.Session)

	_, _, err = ProvideBackends(Conf{Driver: "etcd"})
	assert.Error(t, err)
}

func TestProvideBackends_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	b, cleanup, err := ProvideBackends(Conf{Driver: DriverRedis, Namespace: "c:", Redis: Redis{Mode: "single", Address: mr.Addr()}})
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, b.Local.SetItem(context.Background(), "k", "v"))
	assert.True(t, mr.Exists("c:k"))
}

func TestNewRedis_InvalidMode(t *testing.T) {
	_, err := NewRedis(Redis{Mode: "ring", Address: "127.0.0.1:6379"})
	assert.ErrorContains(t, err, "unsupported redis mode")

	_, err = NewRedis(Redis{Mode: RedisModeSentinel, Address: "127.0.0.1:26379"})
	assert.ErrorContains(t, err, "masterName")
}

func TestRedis_Options(t *testing.T) {
	opts := Redis{Address: "a:6379,b:6379", DB: 2, DialTimeout: 5, UseTLS: true}.options()
	assert.Equal(t, []string{"a:6379", "b:6379"}, opts.Addrs)
	assert.Equal(t, 5*time.Second, opts.DialTimeout)
	assert.Zero(t, opts.ReadTimeout)
	assert.NotNil(t, opts.TLSConfig)
	assert.Equal(t, "a:6379", opts.Simple().Addr)
}
