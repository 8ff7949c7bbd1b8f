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
	"time"

	"github.com/uptrace/bun"
)

// SessionFactory creates and manages a configured session manager and runs
// the registration manifest at initialization.
type SessionFactory struct {
	manager SessionManager
	logger  Logger
}

// NewSessionFactory returns a new session factory using the global logger.
func NewSessionFactory() *SessionFactory {
	return &SessionFactory{
		logger: GetLogger(),
	}
}

// CreateFromConfig constructs a session manager from the given connection
// configuration, applying environment overrides and setting the factory
// logger.
func (f *SessionFactory) CreateFromConfig(cfg *ConnectionConfig) (SessionManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}

	supportedTypes := []string{"mysql", "postgres", "postgresql", "sqlite", "sqlite3"}
	supported := false
	for _, t := range supportedTypes {
		if cfg.Type == t {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("unsupported database type: %s, supported types: %v", cfg.Type, supportedTypes)
	}

	overrideFromEnv(cfg)

	manager := NewSessionManager(cfg)
	manager.SetLogger(f.logger)

	f.manager = manager
	return manager, nil
}

// Initialize connects the session, binds the registered entity models to
// Bun, and runs the configured bootstrap steps (entity configuration
// callbacks, table creation).
func (f *SessionFactory) Initialize(ctx context.Context, bootstrap *BootstrapConfig) error {
	if f.manager == nil {
		return fmt.Errorf("session manager not created")
	}

	if err := f.manager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	db := f.manager.GetDB()
	db.RegisterModel(RegisteredInstances()...)

	if bootstrap != nil && bootstrap.CreateTablesOnStartup {
		if err := NewSchemaBootstrap(db, f.logger).CreateTables(ctx); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	// Config callbacks run after table creation so they may seed rows.
	if bootstrap != nil && bootstrap.ApplyEntityConfigs {
		if err := ApplyEntityConfigs(ctx, db); err != nil {
			return fmt.Errorf("failed to apply entity configurations: %w", err)
		}
	}

	f.logger.Info("Database initialization completed!")
	return nil
}

// GetManager returns the underlying session manager.
func (f *SessionFactory) GetManager() SessionManager {
	return f.manager
}

// GetDB returns the Bun database instance, or nil if not initialized.
func (f *SessionFactory) GetDB() *bun.DB {
	if f.manager == nil {
		return nil
	}
	return f.manager.GetDB()
}

// SetLogger sets the logger on the factory and the underlying manager.
func (f *SessionFactory) SetLogger(logger Logger) {
	f.logger = logger
	if f.manager != nil {
		f.manager.SetLogger(logger)
	}
}

// Close closes the session managed by the factory.
func (f *SessionFactory) Close() error {
	if f.manager == nil {
		return nil
	}
	return f.manager.Disconnect()
}

// GetHealthStatus returns the current database health status.
func (f *SessionFactory) GetHealthStatus(ctx context.Context) *HealthStatus {
	if f.manager == nil {
		return &HealthStatus{
			Healthy:       false,
			Connected:     false,
			LastError:     "Session manager not initialized",
			LastCheckTime: time.Now(),
		}
	}
	return f.manager.HealthCheck(ctx)
}

// GetStats returns connection pool statistics from the manager.
func (f *SessionFactory) GetStats() *DBStats {
	if f.manager == nil {
		return &DBStats{}
	}
	return f.manager.GetStats()
}
