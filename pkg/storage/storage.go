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

// Package storage provides the key/value backends that console state is
// persisted into. Two kinds exist: Local survives the process (Redis) and
// Session lives as long as the process does (in-memory fastcache).
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind names a storage backend.
type Kind string

const (
	Local   Kind = "local"
	Session Kind = "session"
)

// ErrNotFound is returned by GetItem when the key is absent.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a string key/value store. Writes are last-writer-wins.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	// Keys lists every key currently held.
	Keys(ctx context.Context) ([]string, error)
	// Clear removes every key.
	Clear(ctx context.Context) error
}

// Backends bundles one Storage per Kind.
type Backends struct {
	Local   Storage
	Session Storage
}

// Get returns the backend for kind. An empty kind means Local.
func (b Backends) Get(kind Kind) (Storage, error) {
	switch kind {
	case Local, "":
		if b.Local == nil {
			return nil, fmt.Errorf("storage: %s backend not configured", Local)
		}
		return b.Local, nil
	case Session:
		if b.Session == nil {
			return nil, fmt.Errorf("storage: %s backend not configured", Session)
		}
		return b.Session, nil
	default:
		return nil, fmt.Errorf("storage: unknown kind %q", kind)
	}
}

// WithPrefix scopes every backend under prefix.
func (b Backends) WithPrefix(prefix string) Backends {
	out := Backends{}
	if b.Local != nil {
		out.Local = WithPrefix(b.Local, prefix)
	}
	if b.Session != nil {
		out.Session = WithPrefix(b.Session, prefix)
	}
	return out
}

type prefixed struct {
	inner  Storage
	prefix string
}

// WithPrefix returns a view of s where every key is stored as prefix+key.
// Keys and Clear only see keys under the prefix.
func WithPrefix(s Storage, prefix string) Storage {
	return &prefixed{inner: s, prefix: prefix}
}

func (p *prefixed) GetItem(ctx context.Context, key string) (string, error) {
	return p.inner.GetItem(ctx, p.prefix+key)
}

func (p *prefixed) SetItem(ctx context.Context, key, value string) error {
	return p.inner.SetItem(ctx, p.prefix+key, value)
}

func (p *prefixed) RemoveItem(ctx context.Context, key string) error {
	return p.inner.RemoveItem(ctx, p.prefix+key)
}

func (p *prefixed) Keys(ctx context.Context) ([]string, error) {
	all, err := p.inner.Keys(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for _, k := range all {
		if rest, ok := strings.CutPrefix(k, p.prefix); ok {
			keys = append(keys, rest)
		}
	}
	return keys, nil
}

func (p *prefixed) Clear(ctx context.Context) error {
	keys, err := p.Keys(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, k := range keys {
		if err := p.RemoveItem(ctx, k); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
