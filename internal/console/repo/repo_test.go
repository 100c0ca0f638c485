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
	"testing"

	"github.com/go-arcade/console/internal/console/model"
	"github.com/go-arcade/console/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// dryRunDB builds statements without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "console:console@tcp(127.0.0.1:3306)/console",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestMenuQueries(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var menus []model.Menu
		return menusByIdsQuery(tx, []string{"m1", "m2"}).Find(&menus)
	})
	assert.Contains(t, sql, "FROM `t_menu`")
	assert.Contains(t, sql, "menu_id IN ('m1','m2')")
	assert.Contains(t, sql, "is_enabled = 1")
	assert.Contains(t, sql, "ORDER BY `order` ASC")

	sql = db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var menus []model.Menu
		return allMenusQuery(tx).Find(&menus)
	})
	assert.NotContains(t, sql, "menu_id IN")
	assert.Contains(t, sql, "`route_name`")
}

func TestRoleBindingQuery(t *testing.T) {
	sql := dryRunDB(t).ToSQL(func(tx *gorm.DB) *gorm.DB {
		var bindings []model.RoleMenuBinding
		return accessibleBindingsQuery(tx, 3).Find(&bindings)
	})
	assert.Contains(t, sql, "FROM `t_role_menu_binding`")
	assert.Contains(t, sql, "role_id = 3 AND is_accessible = 1")
	assert.Contains(t, sql, "SELECT `menu_id`,`is_visible`")
}

func TestMenuRepo_EmptyIds(t *testing.T) {
	repos := NewRepositories(database.NewGormDB(dryRunDB(t)))
	menus, err := repos.Menu.GetMenusByMenuIds(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, menus)
}

func TestNewRepositories_WithoutDatabase(t *testing.T) {
	assert.Nil(t, NewRepositories(database.NewGormDB(nil)))
	assert.Nil(t, NewRepositories(nil))
}
