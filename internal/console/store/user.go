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

package store

import (
	"context"
	"errors"
	"time"

	"github.com/go-arcade/console/pkg/storage"
	"github.com/golang-jwt/jwt/v5"
)

const (
	UserID        = "user-info"
	DefaultAvatar = "/assets/img_avatar.gif"
)

// UserState 用户信息
type UserState struct {
	UserID   int64  `json:"userId"`
	RoleID   int64  `json:"roleId"`
	Token    string `json:"token"`
	UserName string `json:"userName"`
	NickName string `json:"nickName"`
	Avatar   string `json:"avatar"`
}

func defaultUserState() UserState {
	return UserState{Avatar: DefaultAvatar}
}

// UserStore keeps the logged in user, persisted to local storage with the
// user name left out.
type UserStore struct {
	*Store[UserState]
	backends  storage.Backends
	unpersist func()
	now       func() time.Time
}

// NewUserStore creates the store and restores it from local storage.
func NewUserStore(ctx context.Context, backends storage.Backends) (*UserStore, error) {
	st := New(UserID, defaultUserState)
	unpersist, err := Persist(ctx, st, PersistConfig[UserState]{
		Enabled: true,
		Restore: true,
		Exclude: []string{"userName"},
	}, backends)
	if err != nil {
		return nil, err
	}
	return &UserStore{
		Store:     st,
		backends:  backends,
		unpersist: unpersist,
		now:       time.Now,
	}, nil
}

// SaveUser 保存用户信息
func (u *UserStore) SaveUser(ctx context.Context, info UserState) error {
	return u.Mutate(ctx, func(s *UserState) {
		*s = info
		if s.Avatar == "" {
			s.Avatar = DefaultAvatar
		}
	})
}

// ChangeNickName 修改昵称
func (u *UserStore) ChangeNickName(ctx context.Context, nickName string) error {
	return u.Mutate(ctx, func(s *UserState) {
		s.NickName = nickName
	})
}

// IsTokenExpired reports whether the session has no usable token. An empty
// token is expired. A JWT whose exp claim has passed is expired; the
// signature is not checked here. Opaque tokens are trusted as-is.
func (u *UserStore) IsTokenExpired() bool {
	token := u.State().Token
	if token == "" {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !u.now().Before(exp.Time)
}

// Query returns the ids used to fetch the user's menus.
func (u *UserStore) Query() MenuQuery {
	s := u.State()
	return MenuQuery{UserID: s.UserID, RoleID: s.RoleID, Token: s.Token}
}

// Logout resets the user and clears both local and session storage.
func (u *UserStore) Logout(ctx context.Context) error {
	err := u.Reset(ctx)
	for _, kind := range []storage.Kind{storage.Local, storage.Session} {
		backend, getErr := u.backends.Get(kind)
		if getErr != nil {
			err = errors.Join(err, getErr)
			continue
		}
		err = errors.Join(err, backend.Clear(ctx))
	}
	return err
}

// Close removes the persistence subscription.
func (u *UserStore) Close() {
	if u.unpersist != nil {
		u.unpersist()
	}
}
