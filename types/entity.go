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
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Canonical column names shared by every audited entity. The repository
// relies on these names to filter by state and to shield the write-once
// audit columns from updates.
const (
	ColumnID            = "id"
	ColumnUserCreatorID = "user_creator_id"
	ColumnState         = "state"
	ColumnCreatedDate   = "created_date"
)

// Entity is the capability contract every persisted record must satisfy:
// a unique identity, a reference to the creating actor, a soft-state flag
// (true = active/visible) and a creation timestamp.
//
// UserCreatorID and CreatedDate are write-once: Repository.Update never
// persists changes to them, whatever the in-memory value holds.
type Entity[K comparable, U comparable] interface {
	GetID() K
	GetUserCreatorID() U
	GetState() bool
	GetCreatedDate() time.Time
}

// AuditModel is an embeddable base for entities keyed by an autoincrement
// int64 identity. The identity is assigned by the database on insert and
// must not be set by the caller.
type AuditModel struct {
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	UserCreatorID string    `bun:"user_creator_id,notnull" json:"user_creator_id"`
	State         bool      `bun:"state,notnull,default:true" json:"state"`
	CreatedDate   time.Time `bun:"created_date,nullzero,notnull,default:current_timestamp" json:"created_date"`
}

func (m AuditModel) GetID() int64 { return m.ID }
func (m AuditModel) GetUserCreatorID() string { return m.UserCreatorID }
func (m AuditModel) GetState() bool { return m.State }
func (m AuditModel) GetCreatedDate() time.Time { return m.CreatedDate }

var _ Entity[int64, string] = AuditModel{}

// BeforeAppendModel stamps the creation time on insert when the caller left
// it zero, so the value is stable even on backends without a usable
// current_timestamp default.
func (m *AuditModel) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && m.CreatedDate.IsZero() {
		m.CreatedDate = time.Now()
	}
	return nil
}

// UUIDAuditModel is an embeddable base for entities keyed by a UUID. The
// identity is generated in the insert hook rather than by the database, the
// usual arrangement for UUID keys across dialects.
type UUIDAuditModel struct {
	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	UserCreatorID uuid.UUID `bun:"user_creator_id,type:uuid,notnull" json:"user_creator_id"`
	State         bool      `bun:"state,notnull,default:true" json:"state"`
	CreatedDate   time.Time `bun:"created_date,nullzero,notnull,default:current_timestamp" json:"created_date"`
}

func (m UUIDAuditModel) GetID() uuid.UUID { return m.ID }
func (m UUIDAuditModel) GetUserCreatorID() uuid.UUID { return m.UserCreatorID }
func (m UUIDAuditModel) GetState() bool { return m.State }
func (m UUIDAuditModel) GetCreatedDate() time.Time { return m.CreatedDate }

var _ Entity[uuid.UUID, uuid.UUID] = UUIDAuditModel{}

func (m *UUIDAuditModel) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		if m.CreatedDate.IsZero() {
			m.CreatedDate = time.Now()
		}
	}
	return nil
}
