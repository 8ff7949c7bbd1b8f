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

package repository

import (
	"context"

	"github.com/stratumkit/stratum/types"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// CrudRepository defines identity-based CRUD for any entity satisfying the
// audit contract. All reads are snapshot reads: the returned values are not
// tracked anywhere, so in-place mutations are lost unless the caller routes
// them back through Update.
//
// Every mutation commits immediately; the *Tx variants on TxRepository are
// the deferred-commit path for callers owning their own unit of work.
type CrudRepository[T types.Entity[K, U], K comparable, U comparable] interface {
	// Create inserts the entity and returns the backend-assigned identity.
	// A nil entity or a pre-assigned identity yields ErrInvalidArgument
	// before any I/O.
	Create(ctx context.Context, entity *T) (K, error)

	// Get returns the single entity with the given identity. Zero matches
	// yield ErrEntityNotFound; more than one yields ErrDuplicateEntity.
	Get(ctx context.Context, id K) (*T, error)

	// GetAll returns every entity whose soft-state flag equals active, in
	// backend-default order.
	GetAll(ctx context.Context, active bool) ([]*T, error)

	// Update persists the entity by primary key, excluding the write-once
	// user_creator_id and created_date columns. It reports whether any row
	// changed. A nil entity yields ErrInvalidArgument.
	Update(ctx context.Context, entity *T) (bool, error)

	// Delete hard-deletes by identity and reports whether a row was
	// removed. A zero identity yields ErrInvalidArgument.
	Delete(ctx context.Context, id K) (bool, error)
}

// QueryRepository defines filtered, raw, paged, and existence queries.
type QueryRepository[T types.Entity[K, U], K comparable, U comparable] interface {
	List(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	Query(ctx context.Context, query string, args ...interface{}) ([]*T, error)

	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)

	Count(ctx context.Context, active bool) (int, error)

	Exists(ctx context.Context, id K) (bool, error)
}

// TxRepository defines the mutation operations executed within a
// caller-owned transaction.
type TxRepository[T types.Entity[K, U], K comparable, U comparable] interface {
	CreateTx(ctx context.Context, tx *bun.Tx, entity *T) (K, error)
	UpdateTx(ctx context.Context, tx *bun.Tx, entity *T) (bool, error)
	DeleteTx(ctx context.Context, tx *bun.Tx, id K) (bool, error)
}

// Repository combines CRUD, query, and transactional operations and exposes
// Bun query builders for advanced use cases.
type Repository[T types.Entity[K, U], K comparable, U comparable] interface {
	CrudRepository[T, K, U]
	QueryRepository[T, K, U]
	TxRepository[T, K, U]
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
