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

// Package stratum is a generic, audit-aware data-access layer over Bun.
// It pairs an entity capability contract (identity, creator reference,
// soft-state flag, creation timestamp) with a generic repository whose
// update path can never overwrite the write-once audit columns.
//
// Reads are snapshot reads: values returned by Get/All/List are not tracked
// anywhere, so mutating them in place persists nothing until the caller
// routes the value back through Update.
package stratum

import (
	"context"
	"sync"

	"github.com/stratumkit/stratum/database"
	"github.com/stratumkit/stratum/repository"
	"github.com/stratumkit/stratum/types"

	"github.com/uptrace/bun"
)

// Service is the high-level facade over the generic repository bound to the
// globally initialized database session.
type Service[T types.Entity[K, U], K comparable, U comparable] interface {
	// Get returns a single entity by its identifier.
	Get(ctx context.Context, id K) (*T, error)

	// All returns all entities whose soft-state flag equals active.
	All(ctx context.Context, active bool) ([]*T, error)

	// List returns entities that match the provided filter.
	List(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	// Query executes a raw WHERE clause and maps the results to entities.
	Query(ctx context.Context, query string, args ...interface{}) ([]*T, error)

	// Page returns a paginated list of entities.
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)

	// Count returns the number of entities with the given soft-state flag.
	Count(ctx context.Context, active bool) (int, error)

	// Exists reports whether an entity with the given identifier exists.
	Exists(ctx context.Context, id K) (bool, error)

	// Save inserts a new entity and returns the backend-assigned identity.
	Save(ctx context.Context, model *T) (K, error)

	// Update modifies an existing entity, excluding the write-once audit
	// columns, and reports whether any row changed.
	Update(ctx context.Context, model *T) (bool, error)

	// Delete hard-removes an entity by its identifier and reports whether a
	// row was removed.
	Delete(ctx context.Context, id K) (bool, error)

	// SaveTx inserts an entity within an existing transaction.
	SaveTx(ctx context.Context, tx *bun.Tx, model *T) (K, error)

	// UpdateTx updates an entity within a transaction.
	UpdateTx(ctx context.Context, tx *bun.Tx, model *T) (bool, error)

	// DeleteTx removes an entity within a transaction.
	DeleteTx(ctx context.Context, tx *bun.Tx, id K) (bool, error)

	// SelectBuilder returns a raw Bun select builder on the underlying
	// session. The caller binds the model.
	SelectBuilder() *bun.SelectQuery

	// InsertBuilder returns a raw Bun insert builder on the underlying
	// session.
	InsertBuilder() *bun.InsertQuery

	// UpdateBuilder returns a raw Bun update builder on the underlying
	// session.
	UpdateBuilder() *bun.UpdateQuery

	// DeleteBuilder returns a raw Bun delete builder on the underlying
	// session.
	DeleteBuilder() *bun.DeleteQuery
}

type baseService[T types.Entity[K, U], K comparable, U comparable] struct {
	repo    repository.Repository[T, K, U]
	repoErr error
	once    sync.Once
}

// NewService returns a Service implementation using the generic repository
// backed by the global database session. The session is resolved lazily on
// first use, so NewService may be called before database.Init.
func NewService[T types.Entity[K, U], K comparable, U comparable]() Service[T, K, U] {
	return &baseService[T, K, U]{}
}

func (s *baseService[T, K, U]) baseRepo() (repository.Repository[T, K, U], error) {
	s.once.Do(func() {
		s.repo, s.repoErr = repository.New[T, K, U](database.GetDB())
	})
	return s.repo, s.repoErr
}

func (s *baseService[T, K, U]) Get(ctx context.Context, id K) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

func (s *baseService[T, K, U]) All(ctx context.Context, active bool) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.GetAll(ctx, active)
}

func (s *baseService[T, K, U]) List(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx, filter)
}

func (s *baseService[T, K, U]) Query(ctx context.Context, query string, args ...interface{}) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Query(ctx, query, args...)
}

func (s *baseService[T, K, U]) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Page(ctx, page)
}

func (s *baseService[T, K, U]) Count(ctx context.Context, active bool) (int, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return 0, err
	}
	return repo.Count(ctx, active)
}

func (s *baseService[T, K, U]) Exists(ctx context.Context, id K) (bool, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return false, err
	}
	return repo.Exists(ctx, id)
}

func (s *baseService[T, K, U]) Save(ctx context.Context, model *T) (K, error) {
	repo, err := s.baseRepo()
	if err != nil {
		var zero K
		return zero, err
	}
	return repo.Create(ctx, model)
}

func (s *baseService[T, K, U]) Update(ctx context.Context, model *T) (bool, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return false, err
	}
	return repo.Update(ctx, model)
}

func (s *baseService[T, K, U]) Delete(ctx context.Context, id K) (bool, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return false, err
	}
	return repo.Delete(ctx, id)
}

func (s *baseService[T, K, U]) SaveTx(ctx context.Context, tx *bun.Tx, model *T) (K, error) {
	repo, err := s.baseRepo()
	if err != nil {
		var zero K
		return zero, err
	}
	return repo.CreateTx(ctx, tx, model)
}

func (s *baseService[T, K, U]) UpdateTx(ctx context.Context, tx *bun.Tx, model *T) (bool, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return false, err
	}
	return repo.UpdateTx(ctx, tx, model)
}

func (s *baseService[T, K, U]) DeleteTx(ctx context.Context, tx *bun.Tx, id K) (bool, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return false, err
	}
	return repo.DeleteTx(ctx, tx, id)
}

func (s *baseService[T, K, U]) SelectBuilder() *bun.SelectQuery {
	repo, err := s.baseRepo()
	if err != nil {
		return nil
	}
	return repo.NewSelect()
}

func (s *baseService[T, K, U]) InsertBuilder() *bun.InsertQuery {
	repo, err := s.baseRepo()
	if err != nil {
		return nil
	}
	return repo.NewInsert()
}

func (s *baseService[T, K, U]) UpdateBuilder() *bun.UpdateQuery {
	repo, err := s.baseRepo()
	if err != nil {
		return nil
	}
	return repo.NewUpdate()
}

func (s *baseService[T, K, U]) DeleteBuilder() *bun.DeleteQuery {
	repo, err := s.baseRepo()
	if err != nil {
		return nil
	}
	return repo.NewDelete()
}
