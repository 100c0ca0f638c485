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

// Package remote provides the menu sources the permission store loads
// from: a static tree, an HTTP menu API or the menu tables.
package remote

import (
	"context"
	"time"

	"github.com/go-arcade/console/internal/console/repo"
	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/internal/console/store"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/pkg/errors"
)

const (
	KindStatic = "static"
	KindHTTP   = "http"
	KindDB     = "db"
)

// Conf selects and configures the menu source.
type Conf struct {
	Source   string `mapstructure:"source"`
	Endpoint string `mapstructure:"endpoint"`
	// Timeout in seconds for the HTTP source.
	Timeout int `mapstructure:"timeout"`
	// MenuFile overrides the embedded default tree of the static source.
	MenuFile string `mapstructure:"menuFile"`
}

// New builds the configured source wrapped with fetch metrics.
func New(conf Conf, repos *repo.Repositories, recorder *metrics.ConsoleMetricsRecorder) (store.MenuSource, error) {
	var (
		src store.MenuSource
		err error
	)
	kind := conf.Source
	switch kind {
	case "", KindStatic:
		kind = KindStatic
		if conf.MenuFile != "" {
			src, err = NewStaticSourceFromFile(conf.MenuFile)
		} else {
			src, err = NewStaticSource()
		}
	case KindHTTP:
		if conf.Endpoint == "" {
			return nil, errors.Errorf("menu source %q requires an endpoint", kind)
		}
		src = NewHTTPSource(conf.Endpoint, time.Duration(conf.Timeout)*time.Second)
	case KindDB:
		if repos == nil {
			return nil, errors.Errorf("menu source %q requires a database", kind)
		}
		src = NewDBSource(repos)
	default:
		return nil, errors.Errorf("unknown menu source %q", conf.Source)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(kind, src, recorder), nil
}

// Instrument records the duration and outcome of every fetch from src.
func Instrument(kind string, src store.MenuSource, recorder *metrics.ConsoleMetricsRecorder) store.MenuSource {
	return &instrumented{kind: kind, src: src, recorder: recorder}
}

type instrumented struct {
	kind     string
	src      store.MenuSource
	recorder *metrics.ConsoleMetricsRecorder
}

func (i *instrumented) Menus(ctx context.Context, q store.MenuQuery) ([]route.MenuNode, error) {
	start := time.Now()
	menus, err := i.src.Menus(ctx, q)
	i.recorder.RecordMenuFetch(i.kind, time.Since(start), err)
	return menus, err
}
