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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configYAML = `
connection:
  type: postgres
  host: db.internal
  port: 5432
  username: app
  password: secret
  dbname: app
  max_open_conns: 20
  max_idle_conns: 5
bootstrap:
  create_tables_on_startup: true
  apply_entity_configs: true
`

func writeConfigFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o644))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	cfg, err := LoadConfigFile(writeConfigFile(t))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Connection.Type)
	assert.Equal(t, "db.internal", cfg.Connection.Host)
	assert.Equal(t, 5432, cfg.Connection.Port)
	assert.Equal(t, 20, cfg.Connection.MaxOpenConns)
	assert.True(t, cfg.Bootstrap.CreateTablesOnStartup)
	assert.True(t, cfg.Bootstrap.ApplyEntityConfigs)
}

func TestLoadConfigFileEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_PASSWORD", "vault")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")

	cfg, err := LoadConfigFile(writeConfigFile(t))
	require.NoError(t, err)

	assert.Equal(t, "override.internal", cfg.Connection.Host)
	assert.Equal(t, 6543, cfg.Connection.Port)
	assert.Equal(t, "vault", cfg.Connection.Password)
	assert.Equal(t, 50, cfg.Connection.MaxOpenConns)
	// Untouched values survive the override pass.
	assert.Equal(t, "app", cfg.Connection.Username)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaultConnectionConfig(t *testing.T) {
	cfg := DefaultConnectionConfig()
	assert.Equal(t, 100, cfg.MaxOpenConns)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, time.Hour, cfg.ConnMaxLifetime)
	assert.True(t, cfg.EnableReconnect)
}
