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

package repo

import (
	"context"

	"github.com/go-arcade/console/internal/console/model"
	"github.com/go-arcade/console/pkg/database"
	"gorm.io/gorm"
)

type IRoleMenuBindingRepository interface {
	ListAccessible(ctx context.Context, roleId int64) ([]model.RoleMenuBinding, error)
}

type RoleMenuBindingRepo struct {
	database.IDatabase
}

func NewRoleMenuBindingRepo(db database.IDatabase) IRoleMenuBindingRepository {
	return &RoleMenuBindingRepo{
		IDatabase: db,
	}
}

// ListAccessible 角色可访问的菜单绑定，走只读副本
func (r *RoleMenuBindingRepo) ListAccessible(ctx context.Context, roleId int64) ([]model.RoleMenuBinding, error) {
	var bindings []model.RoleMenuBinding
	err := accessibleBindingsQuery(database.ReadDB(r.Database().WithContext(ctx)), roleId).Find(&bindings).Error
	return bindings, err
}

func accessibleBindingsQuery(db *gorm.DB, roleId int64) *gorm.DB {
	return db.Model(&model.RoleMenuBinding{}).
		Select("menu_id", "is_visible").
		Where("role_id = ? AND is_accessible = ?", roleId, model.RoleMenuAccessible)
}
