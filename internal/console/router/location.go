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

package router

import (
	"net/url"

	"github.com/go-arcade/console/internal/console/route"
)

// Location is a navigation request: a path plus optional query.
type Location struct {
	Path  string     `json:"path"`
	Query url.Values `json:"query,omitempty"`
}

// FullPath renders path?query with keys sorted.
func (l Location) FullPath() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// ParseLocation splits a raw full path such as /login?redirect=%2Fa.
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, err
	}
	loc := Location{Path: u.Path}
	if loc.Path == "" {
		loc.Path = "/"
	}
	if q := u.Query(); len(q) > 0 {
		loc.Query = q
	}
	return loc, nil
}

// Target is a resolved navigation destination.
type Target struct {
	Path     string            `json:"path"`
	FullPath string            `json:"fullPath"`
	Query    url.Values        `json:"query,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
	Name     string            `json:"name,omitempty"`
	Meta     route.Meta        `json:"meta"`
	// Matched is nil when no registered record matches the path.
	Matched *route.Record `json:"-"`
	// RedirectedFrom is the first location asked for when redirects happened.
	RedirectedFrom string `json:"redirectedFrom,omitempty"`
	Replace        bool   `json:"replace,omitempty"`
}

func (t *Target) GetName() string     { return t.Name }
func (t *Target) GetMeta() route.Meta { return t.Meta }
func (t *Target) Location() Location  { return Location{Path: t.Path, Query: t.Query} }
func (t *Target) IsMatched() bool     { return t.Matched != nil }
