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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFromConfigTypeAliases(t *testing.T) {
	// Every alias the session manager dials must pass factory validation.
	for _, dbType := range []string{"mysql", "postgres", "postgresql", "sqlite", "sqlite3"} {
		cfg := DefaultConnectionConfig()
		cfg.Type = dbType

		mgr, err := NewSessionFactory().CreateFromConfig(cfg)
		require.NoError(t, err, dbType)
		assert.NotNil(t, mgr, dbType)
	}
}

func TestCreateFromConfigRejectsUnknownType(t *testing.T) {
	cfg := DefaultConnectionConfig()
	cfg.Type = "oracle"

	_, err := NewSessionFactory().CreateFromConfig(cfg)
	assert.Error(t, err)
}

func TestCreateFromConfigNil(t *testing.T) {
	_, err := NewSessionFactory().CreateFromConfig(nil)
	assert.Error(t, err)
}
