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

var menuColumns = []string{
	"id", "menu_id", "parent_id", "name", "path", "route_name", "local_file_path", "out_link",
	"icon", "icon_prefix", "order", "is_visible", "is_enabled", "is_affix", "is_cacheable",
	"is_root_path", "is_single", "description", "meta", "created_at", "updated_at",
}

type IMenuRepository interface {
	GetMenusByMenuIds(ctx context.Context, menuIds []string) ([]model.Menu, error)
	GetAllMenus(ctx context.Context) ([]model.Menu, error)
}

type MenuRepo struct {
	database.IDatabase
}

func NewMenuRepo(db database.IDatabase) IMenuRepository {
	return &MenuRepo{
		IDatabase: db,
	}
}

// GetMenusByMenuIds 根据菜单ID列表获取启用的菜单
func (r *MenuRepo) GetMenusByMenuIds(ctx context.Context, menuIds []string) ([]model.Menu, error) {
	if len(menuIds) == 0 {
		return []model.Menu{}, nil
	}
	var menus []model.Menu
	err := menusByIdsQuery(r.read(ctx), menuIds).Find(&menus).Error
	return menus, err
}

// GetAllMenus 获取所有启用的菜单
func (r *MenuRepo) GetAllMenus(ctx context.Context) ([]model.Menu, error) {
	var menus []model.Menu
	err := allMenusQuery(r.read(ctx)).Find(&menus).Error
	return menus, err
}

func (r *MenuRepo) read(ctx context.Context) *gorm.DB {
	return database.ReadDB(r.Database().WithContext(ctx))
}

func menusByIdsQuery(db *gorm.DB, menuIds []string) *gorm.DB {
	return db.Model(&model.Menu{}).Select(menuColumns).
		Where("menu_id IN ? AND is_enabled = ?", menuIds, model.MenuEnabled).
		Order("`order` ASC")
}

func allMenusQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&model.Menu{}).Select(menuColumns).
		Where("is_enabled = ?", model.MenuEnabled).
		Order("`order` ASC")
}
