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
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-arcade/console/internal/console/guard"
	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/internal/console/router"
	"github.com/go-arcade/console/internal/console/store"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/loop"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/go-arcade/console/pkg/safe"
	"github.com/go-arcade/console/pkg/storage"
	"github.com/google/uuid"
)

const (
	keyPrefix  = "session:"
	// createdKey 标记会话存在，使没有任何状态的会话也能被恢复
	createdKey = "created-at"
)

var (
	ErrNotFound = errors.New("session: not found")
	ErrLimit    = errors.New("session: too many sessions")
)

// Config 会话配置，可在运行时替换
type Config struct {
	ProjectName string
	Whitelist   []string
	// TTL 空闲超时，0 表示不过期
	TTL         time.Duration
	MaxSessions int
	ViewPrefix  string
	ViewExt     string
}

// Deps are shared by every session.
type Deps struct {
	Source    store.MenuSource
	Generator *route.Generator
	Backends  storage.Backends
	Recorder  *metrics.ConsoleMetricsRecorder
}

// Manager creates, finds and expires sessions. Session state lives in the
// backends under "session:<id>:", so a session dropped from memory by
// expiry or restart is rebuilt from local storage on its next use.
type Manager struct {
	deps Deps
	conf atomic.Pointer[Config]

	mu       sync.Mutex
	sessions map[string]*Session

	now func() time.Time
}

func NewManager(deps Deps, conf Config) *Manager {
	if deps.Generator == nil {
		deps.Generator = route.NewGenerator(nil)
	}
	m := &Manager{
		deps:     deps,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
	m.UpdateConfig(conf)
	return m
}

// UpdateConfig applies conf to sessions created from now on.
func (m *Manager) UpdateConfig(conf Config) {
	if conf.ViewPrefix == "" {
		conf.ViewPrefix = route.DefaultViewPrefix
	}
	if conf.ViewExt == "" {
		conf.ViewExt = route.DefaultViewExt
	}
	m.conf.Store(&conf)
}

func (m *Manager) config() Config {
	return *m.conf.Load()
}

// Create starts a session with a new id.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit := m.config().MaxSessions; limit > 0 && len(m.sessions) >= limit {
		return nil, ErrLimit
	}
	s, err := m.build(ctx, uuid.NewString())
	if err != nil {
		return nil, err
	}
	if err := m.mark(ctx, s.ID); err != nil {
		s.close()
		return nil, err
	}
	m.add(s)
	log.Infow("session created", "session", s.ID)
	return s, nil
}

// Get returns the live session for id, rebuilding it from local storage
// when it is not in memory.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		s.touch(m.now())
		return s, nil
	}

	local := storage.WithPrefix(m.deps.Backends.Local, sessionPrefix(id))
	if _, err := local.GetItem(ctx, createdKey); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("lookup session %s: %w", id, err)
	}
	s, err := m.build(ctx, id)
	if err != nil {
		return nil, err
	}
	m.add(s)
	log.Infow("session restored", "session", id)
	return s, nil
}

// Logout clears the user, unregisters the permission routes and drops every
// stored key of the session, then replaces it with a fresh session under
// the same id.
func (m *Manager) Logout(ctx context.Context, id string) (*Session, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	logoutErr := errors.Join(s.User.Logout(ctx), s.Permission.Reset(ctx))
	s.Cached.Reset()
	s.close()
	delete(m.sessions, id)

	fresh, err := m.build(ctx, id)
	if err == nil {
		err = m.mark(ctx, id)
	}
	if err != nil {
		m.report()
		return nil, errors.Join(logoutErr, err)
	}
	m.add(fresh)
	log.Infow("session logged out", "session", id)
	return fresh, logoutErr
}

// Remove drops the session from memory. Its stored state is kept.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.close()
	delete(m.sessions, id)
	m.report()
	return true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops every session idle for longer than the TTL and returns how
// many were dropped.
func (m *Manager) Sweep() int {
	ttl := m.config().TTL
	if ttl <= 0 {
		return 0
	}
	deadline := m.now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(deadline) {
			s.close()
			delete(m.sessions, id)
			n++
		}
	}
	if n > 0 {
		m.report()
		log.Infow("idle sessions expired", "count", n, "active", len(m.sessions))
	}
	return n
}

// Run sweeps idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	safe.Go(func() {
		l := loop.New(loop.WithContext(ctx), loop.WithInterval(interval))
		_ = l.Do(func() (bool, error) {
			m.Sweep()
			return false, nil
		})
	})
}

// Close drops every session from memory.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.close()
		delete(m.sessions, id)
	}
	m.report()
}

func (m *Manager) add(s *Session) {
	s.touch(m.now())
	m.sessions[s.ID] = s
	m.report()
}

func (m *Manager) report() {
	m.deps.Recorder.SetActiveSessions(len(m.sessions))
}

func (m *Manager) mark(ctx context.Context, id string) error {
	local := storage.WithPrefix(m.deps.Backends.Local, sessionPrefix(id))
	if err := local.SetItem(ctx, createdKey, m.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("mark session %s: %w", id, err)
	}
	return nil
}

func sessionPrefix(id string) string {
	return keyPrefix + id + ":"
}

// build wires the router, stores and guards of session id. Stores restore
// whatever the backends hold under the session prefix.
func (m *Manager) build(ctx context.Context, id string) (*Session, error) {
	conf := m.config()
	backends := m.deps.Backends.WithPrefix(sessionPrefix(id))

	constant := route.ConstantRoutes(conf.ViewPrefix, conf.ViewExt)
	r := router.New(constant)

	user, err := store.NewUserStore(ctx, backends)
	if err != nil {
		return nil, fmt.Errorf("restore user of session %s: %w", id, err)
	}
	cached := store.NewCachedRoutes()
	visited, err := store.NewVisitedRoutes(ctx, cached, backends.Local)
	if err != nil {
		user.Close()
		return nil, fmt.Errorf("restore tabs of session %s: %w", id, err)
	}
	permission := store.NewPermission(m.deps.Source, m.deps.Generator, r,
		store.WithConstantRoutes(constant),
		store.WithPermissionMetrics(m.deps.Recorder),
	)

	g, remove := guard.Install(r, guard.Deps{
		User:        user,
		Permission:  permission,
		Cached:      cached,
		Visited:     visited,
		Recorder:    m.deps.Recorder,
		ProjectName: conf.ProjectName,
		Whitelist:   conf.Whitelist,
	})

	return &Session{
		ID:           id,
		Router:       r,
		Guards:       g,
		User:         user,
		Permission:   permission,
		Cached:       cached,
		Visited:      visited,
		recorder:     m.deps.Recorder,
		removeGuards: remove,
	}, nil
}
