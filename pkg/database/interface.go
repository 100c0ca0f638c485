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

package database

import (
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// IDatabase 菜单仓储使用的连接
type IDatabase interface {
	// Database returns nil when no database is configured.
	Database() *gorm.DB
}

type GormDB struct {
	db *gorm.DB
}

func NewGormDB(db *gorm.DB) IDatabase {
	return &GormDB{db: db}
}

func (g *GormDB) Database() *gorm.DB {
	return g.db
}

// ReadDB 将查询路由到只读副本，未注册副本时仍走主库
func ReadDB(db *gorm.DB) *gorm.DB {
	return db.Clauses(dbresolver.Read)
}
