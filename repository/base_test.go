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

package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stratumkit/stratum/database"
	"github.com/stratumkit/stratum/repository"
	"github.com/stratumkit/stratum/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`
	types.AuditModel

	Title string `bun:"title,notnull"`
}

func newTestSession(t *testing.T) *bun.DB {
	t.Helper()

	cfg := database.DefaultConnectionConfig()
	cfg.Type = "sqlite"
	// Unique shared-cache name per test so parallel tests never see each
	// other's data.
	cfg.DBName = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1
	cfg.HealthCheckInterval = 0

	mgr := database.NewSessionManager(cfg)
	require.NoError(t, mgr.Connect(context.Background()))
	t.Cleanup(func() { _ = mgr.Disconnect() })
	return mgr.GetDB()
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db := newTestSession(t)
	_, err := db.NewCreateTable().Model((*Book)(nil)).Exec(context.Background())
	require.NoError(t, err)
	return db
}

func newBookRepo(t *testing.T) repository.Repository[Book, int64, string] {
	t.Helper()
	repo, err := repository.New[Book, int64, string](newTestDB(t))
	require.NoError(t, err)
	return repo
}

func TestNewNilSession(t *testing.T) {
	_, err := repository.New[Book, int64, string](nil)
	assert.ErrorIs(t, err, repository.ErrInvalidArgument)
}

func TestCreateAssignsIdentity(t *testing.T) {
	repo := newBookRepo(t)
	ctx := context.Background()

	book := &Book{Title: "The Go Programming Language"}
	book.UserCreatorID = "u1"
	book.State = true

	id, err := repo.Create(ctx, book)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, id, book.ID)
	assert.False(t, book.CreatedDate.IsZero())

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, book.Title, got.Title)
	assert.Equal(t, "u1", got.UserCreatorID)
	assert.True(t, got.State)
}

func TestCreateInvalidArguments(t *testing.T) {
	repo := newBookRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, nil)
	assert.ErrorIs(t, err, repository.ErrInvalidArgument)

	preAssigned := &Book{Title: "x"}
	preAssigned.ID = 42
	preAssigned.UserCreatorID = "u1"
	_, err = repo.Create(ctx, preAssigned)
	assert.ErrorIs(t, err, repository.ErrInvalidArgument)
}

func TestGetDuplicateIdentity(t *testing.T) {
	db := newTestSession(t)
	ctx := context.Background()

	// No primary key constraint, so the identity column can collide.
	_, err := db.ExecContext(ctx,
		`CREATE TABLE books (id INTEGER, user_creator_id TEXT, state BOOLEAN, created_date TIMESTAMP, title TEXT)`)
	require.NoError(t, err)
	for _, title := range []string{"first copy", "second copy"} {
		_, err = db.ExecContext(ctx,
			`INSERT INTO books (id, user_creator_id, state, created_date, title) VALUES (7, 'u1', 1, CURRENT_TIMESTAMP, ?)`,
			title)
		require.NoError(t, err)
	}

	repo, err := repository.New[Book, int64, string](db)
	require.NoError(t, err)

	_, err = repo.Get(ctx, 7)
	assert.ErrorIs(t, err, repository.ErrDuplicateEntity)
}

func TestGetNotFound(t *testing.T) {
	repo := newBookRepo(t)

	_, err := repo.Get(context.Background(), 12345)
	assert.ErrorIs(t, err, repository.ErrEntityNotFound)
}

func TestGetAllPartitionsByState(t *testing.T) {
	repo := newBookRepo(t)
	ctx := context.Background()

	for i, active := range []bool{true, true, false} {
		book := &Book{Title: fmt.Sprintf("book-%d", i)}
		book.UserCreatorID = "u1"
		book.State = active
		_, err := repo.Create(ctx, book)
		require.NoError(t, err)
	}

	active, err := repo.GetAll(ctx, true)
	require.NoError(t, err)
	inactive, err := repo.GetAll(ctx, false)
	require.NoError(t, err)

	assert.Len(t, active, 2)
	assert.Len(t, inactive, 1)
	for _, b := range active {
		assert.True(t, b.State)
	}
	for _, b := range inactive {
		assert.False(t, b.State)
	}
}

func TestUpdateProtectsAuditColumns(t *testing.T) {
	repo := newBookRepo(t)
	ctx := context.Background()

	book := &Book{Title: "first edition"}
	book.UserCreatorID = "u1"
	book.State = true
	id, err := repo.Create(ctx, book)
	require.NoError(t, err)

	stored, err := repo.Get(ctx, id)
	require.NoError(t, err)

	// Mutate the write-once columns alongside a legitimate change.
	stored.Title = "second edition"
	stored.UserCreatorID = "intruder"
	stored.CreatedDate = stored.CreatedDate.AddDate(1, 0, 0)

	changed, err := repo.Update(ctx, stored)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "second edition", got.Title)
	assert.Equal(t, "u1", got.UserCreatorID)
	assert.Equal(t, book.CreatedDate.Unix(), got.CreatedDate.Unix())
}

func TestUpdateInvalidAndMissing(t *testing.T) {
	repo := newBookRepo(t)
	ctx := context.Background()

	_, err := repo.Update(ctx, nil)
	assert.ErrorIs(t, err, repository.ErrInvalidArgument)

	ghost := &Book{Title: "ghost"}
	ghost.ID = 999
	ghost.UserCreatorID = "u1"
	changed, err := repo.Update(ctx, ghost)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestDelete(t *testing.T) {
	repo := newBookRepo(t)
	ctx := context.Background()

	_, err := repo.Delete(ctx, 0)
	assert.ErrorIs(t, err, repository.ErrInvalidArgument)

	removed, err := repo.Delete(ctx, 999)
	require.NoError(t, err)
	assert.False(t, removed)

	book := &Book{Title: "to be removed"}
	book.UserCreatorID = "u1"
	id, err := repo.Create(ctx, book)
	require.NoError(t, err)

	removed, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, repository.ErrEntityNotFound)
}

func TestSoftStateLifecycle(t *testing.T) {
	repo := newBookRepo(t)
	ctx := context.Background()

	book := &Book{Title: "lifecycle"}
	book.UserCreatorID = "u1"
	book.State = true
	id, err := repo.Create(ctx, book)
	require.NoError(t, err)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.State)

	got.State = false
	changed, err := repo.Update(ctx, got)
	require.NoError(t, err)
	assert.True(t, changed)

	inactive, err := repo.GetAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, id, inactive[0].ID)

	active, err := repo.GetAll(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	removed, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, repository.ErrEntityNotFound)
}

func TestCountAndExists(t *testing.T) {
	repo := newBookRepo(t)
	ctx := context.Background()

	book := &Book{Title: "counted"}
	book.UserCreatorID = "u1"
	book.State = true
	id, err := repo.Create(ctx, book)
	require.NoError(t, err)

	n, err := repo.Count(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.Count(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	ok, err := repo.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, id+1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListAndQuery(t *testing.T) {
	repo := newBookRepo(t)
	ctx := context.Background()

	titles := []string{"alpha", "beta", "gamma"}
	for _, title := range titles {
		book := &Book{Title: title}
		book.UserCreatorID = "u1"
		book.State = true
		_, err := repo.Create(ctx, book)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := repo.List(ctx, types.NewQueryFilter("title = ?", "beta"))
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "beta", filtered[0].Title)

	queried, err := repo.Query(ctx, "title IN (?, ?)", "alpha", "gamma")
	require.NoError(t, err)
	assert.Len(t, queried, 2)
}

func TestPage(t *testing.T) {
	repo := newBookRepo(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		book := &Book{Title: fmt.Sprintf("book-%02d", i)}
		book.UserCreatorID = "u1"
		book.State = true
		_, err := repo.Create(ctx, book)
		require.NoError(t, err)
	}

	page, err := repo.Page(ctx, types.NewPageRequestWithOrders(2, 10, []string{"id ASC"}))
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	require.Len(t, page.Items, 10)
	assert.Equal(t, "book-10", page.Items[0].Title)

	empty, err := repo.Page(ctx, types.NewPageRequestWithFilter(1, 10, types.NewQueryFilter("title = ?", "nope")))
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Empty(t, empty.Items)
}

func TestTxVariants(t *testing.T) {
	db := newTestDB(t)
	repo, err := repository.New[Book, int64, string](db)
	require.NoError(t, err)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	book := &Book{Title: "tx book"}
	book.UserCreatorID = "u1"
	book.State = true
	id, err := repo.CreateTx(ctx, &tx, book)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "tx book", got.Title)

	// A rolled back delete leaves the row in place.
	tx, err = db.BeginTx(ctx, nil)
	require.NoError(t, err)
	removed, err := repo.DeleteTx(ctx, &tx, id)
	require.NoError(t, err)
	assert.True(t, removed)
	require.NoError(t, tx.Rollback())

	_, err = repo.Get(ctx, id)
	require.NoError(t, err)
}
