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
	"database/sql"
	"fmt"

	"github.com/stratumkit/stratum/types"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

type baseRepository[T types.Entity[K, U], K comparable, U comparable] struct {
	db *bun.DB
}

// New returns a generic repository backed by the provided Bun DB. The
// session is held for the repository's lifetime; a nil session yields
// ErrInvalidArgument.
func New[T types.Entity[K, U], K comparable, U comparable](db *bun.DB) (Repository[T, K, U], error) {
	if db == nil {
		return nil, fmt.Errorf("%w: database session is nil", ErrInvalidArgument)
	}
	return &baseRepository[T, K, U]{db: db}, nil
}

func (r *baseRepository[T, K, U]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepository[T, K, U]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepository[T, K, U]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepository[T, K, U]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepository[T, K, U]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepository[T, K, U]) Create(ctx context.Context, entity *T) (K, error) {
	return r.create(ctx, r.db, entity)
}

func (r *baseRepository[T, K, U]) CreateTx(ctx context.Context, tx *bun.Tx, entity *T) (K, error) {
	return r.create(ctx, tx, entity)
}

func (r *baseRepository[T, K, U]) create(ctx context.Context, idb bun.IDB, entity *T) (K, error) {
	var zero K
	if entity == nil {
		return zero, fmt.Errorf("%w: entity is nil", ErrInvalidArgument)
	}
	if (*entity).GetID() != zero {
		return zero, fmt.Errorf("%w: identity %v must be assigned by the backend", ErrInvalidArgument, (*entity).GetID())
	}
	if _, err := idb.NewInsert().Model(entity).Exec(ctx); err != nil {
		return zero, err
	}
	return (*entity).GetID(), nil
}

func (r *baseRepository[T, K, U]) Get(ctx context.Context, id K) (*T, error) {
	// Limit 2 so a broken uniqueness invariant is detected without reading
	// the whole table.
	var entities []*T
	err := r.db.NewSelect().
		Model(&entities).
		Where("? = ?", bun.Ident(types.ColumnID), id).
		Limit(2).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	switch len(entities) {
	case 0:
		return nil, fmt.Errorf("%w: id=%v", ErrEntityNotFound, id)
	case 1:
		return entities[0], nil
	default:
		return nil, fmt.Errorf("%w: id=%v", ErrDuplicateEntity, id)
	}
}

func (r *baseRepository[T, K, U]) GetAll(ctx context.Context, active bool) ([]*T, error) {
	var entities []*T
	err := r.db.NewSelect().
		Model(&entities).
		Where("? = ?", bun.Ident(types.ColumnState), active).
		Scan(ctx)
	return entities, err
}

func (r *baseRepository[T, K, U]) Update(ctx context.Context, entity *T) (bool, error) {
	return r.update(ctx, r.db, entity)
}

func (r *baseRepository[T, K, U]) UpdateTx(ctx context.Context, tx *bun.Tx, entity *T) (bool, error) {
	return r.update(ctx, tx, entity)
}

func (r *baseRepository[T, K, U]) update(ctx context.Context, idb bun.IDB, entity *T) (bool, error) {
	if entity == nil {
		return false, fmt.Errorf("%w: entity is nil", ErrInvalidArgument)
	}
	// user_creator_id and created_date are write-once: leave them out of the
	// statement no matter what the in-memory entity holds.
	res, err := idb.NewUpdate().
		Model(entity).
		WherePK().
		ExcludeColumn(types.ColumnUserCreatorID, types.ColumnCreatedDate).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

func (r *baseRepository[T, K, U]) Delete(ctx context.Context, id K) (bool, error) {
	return r.delete(ctx, r.db, id)
}

func (r *baseRepository[T, K, U]) DeleteTx(ctx context.Context, tx *bun.Tx, id K) (bool, error) {
	return r.delete(ctx, tx, id)
}

func (r *baseRepository[T, K, U]) delete(ctx context.Context, idb bun.IDB, id K) (bool, error) {
	var zero K
	if id == zero {
		return false, fmt.Errorf("%w: id is zero", ErrInvalidArgument)
	}
	var entity T
	res, err := idb.NewDelete().
		Model(&entity).
		Where("? = ?", bun.Ident(types.ColumnID), id).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

func (r *baseRepository[T, K, U]) List(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	var entities []*T
	query := r.db.NewSelect().Model(&entities)
	if filter != nil {
		query = query.Where(filter.Clause, filter.Args...)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepository[T, K, U]) Query(ctx context.Context, query string, args ...interface{}) ([]*T, error) {
	var entities []*T
	err := r.db.NewSelect().Model(&entities).Where(query, args...).Scan(ctx)
	return entities, err
}

func (r *baseRepository[T, K, U]) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	if page == nil {
		return nil, fmt.Errorf("%w: page request is nil", ErrInvalidArgument)
	}
	var entities []*T
	query := r.db.NewSelect().Model(&entities)
	if page.GetFilter() != nil {
		query = query.Where(page.GetFilter().Clause, page.GetFilter().Args...)
	}
	pagination := types.NewEmptyPagination[T](page.GetPage(), page.GetPageSize())
	total, err := query.Count(ctx)
	if err != nil || total == 0 {
		return pagination, err
	}
	err = query.
		Offset(page.GetOffset()).
		Limit(page.GetPageSize()).
		Order(page.GetOrders()...).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = entities
	return pagination, nil
}

func (r *baseRepository[T, K, U]) Count(ctx context.Context, active bool) (int, error) {
	return r.db.NewSelect().
		Model((*T)(nil)).
		Where("? = ?", bun.Ident(types.ColumnState), active).
		Count(ctx)
}

func (r *baseRepository[T, K, U]) Exists(ctx context.Context, id K) (bool, error) {
	return r.db.NewSelect().
		Model((*T)(nil)).
		Where("? = ?", bun.Ident(types.ColumnID), id).
		Exists(ctx)
}

func rowsAffected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
