/*
 * Copyright 2026 stratumkit.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// SchemaBootstrap creates missing tables for the entities listed in the
// registration manifest. It is bootstrap only, not a migration engine: it
// never alters or drops existing tables.
type SchemaBootstrap struct {
	db     *bun.DB
	logger Logger
}

// NewSchemaBootstrap constructs a SchemaBootstrap over the given Bun handle.
func NewSchemaBootstrap(db *bun.DB, logger Logger) *SchemaBootstrap {
	return &SchemaBootstrap{db: db, logger: logger}
}

// CreateTables issues CREATE TABLE IF NOT EXISTS for every registered entity
// in priority order.
func (sb *SchemaBootstrap) CreateTables(ctx context.Context) error {
	if sb.db == nil {
		return fmt.Errorf("database not initialized")
	}
	for _, reg := range RegisteredEntities() {
		model := reg.Instance()
		if _, err := sb.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
		if sb.logger != nil {
			sb.logger.Debug("Ensured table exists", "model", fmt.Sprintf("%T", model))
		}
	}
	return nil
}

// DropTables drops the tables of every registered entity in reverse
// priority order. Intended for tests and throwaway environments.
func (sb *SchemaBootstrap) DropTables(ctx context.Context) error {
	if sb.db == nil {
		return fmt.Errorf("database not initialized")
	}
	entries := RegisteredEntities()
	for i := len(entries) - 1; i >= 0; i-- {
		model := entries[i].Instance()
		if _, err := sb.db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", model, err)
		}
	}
	return nil
}
