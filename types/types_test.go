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

package types

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestPageRequestDefaults(t *testing.T) {
	page := NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, page.GetPage())
	assert.Equal(t, 10, page.GetPageSize())
	assert.Equal(t, 0, page.GetOffset())

	page = NewDefaultPageRequest(3, 20)
	assert.Equal(t, 40, page.GetOffset())
}

func TestStateFilter(t *testing.T) {
	filter := NewStateFilter(true)
	assert.Equal(t, "state = ?", filter.Clause)
	require.Len(t, filter.Args, 1)
	assert.Equal(t, true, filter.Args[0])
}

func TestEntityState(t *testing.T) {
	assert.Equal(t, "active", StateActive.Name())
	assert.Equal(t, "inactive", StateInactive.Name())
	assert.Equal(t, IllegalName, EntityState(7).Name())
	assert.True(t, StateActive.Bool())
	assert.False(t, StateInactive.Bool())
	assert.Equal(t, StateActive, StateOf(true))
	assert.Equal(t, StateInactive, StateOf(false))
	assert.False(t, EntityState(7).IsValid())
}

func TestAuditModelInsertHook(t *testing.T) {
	m := &AuditModel{}
	require.NoError(t, m.BeforeAppendModel(context.Background(), &bun.InsertQuery{}))
	assert.False(t, m.CreatedDate.IsZero())

	stamp := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	m = &AuditModel{CreatedDate: stamp}
	require.NoError(t, m.BeforeAppendModel(context.Background(), &bun.InsertQuery{}))
	assert.Equal(t, stamp, m.CreatedDate)

	// Update queries never touch the timestamp.
	m = &AuditModel{}
	require.NoError(t, m.BeforeAppendModel(context.Background(), &bun.UpdateQuery{}))
	assert.True(t, m.CreatedDate.IsZero())
}

func TestUUIDAuditModelInsertHook(t *testing.T) {
	m := &UUIDAuditModel{}
	require.NoError(t, m.BeforeAppendModel(context.Background(), &bun.InsertQuery{}))
	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.False(t, m.CreatedDate.IsZero())

	fixed := uuid.New()
	m = &UUIDAuditModel{ID: fixed}
	require.NoError(t, m.BeforeAppendModel(context.Background(), &bun.InsertQuery{}))
	assert.Equal(t, fixed, m.ID)
}
