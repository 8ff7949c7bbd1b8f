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

	"github.com/uptrace/bun"
)

var (
	globalFactory *SessionFactory
	globalConfig  *Config
	DB            *bun.DB
)

// GetDB returns the global Bun database instance.
func GetDB() *bun.DB {
	if globalFactory != nil {
		return globalFactory.GetDB()
	}
	return DB
}

// GetSessionManager returns the global session manager.
func GetSessionManager() SessionManager {
	if globalFactory != nil {
		return globalFactory.GetManager()
	}
	return nil
}

// GetSessionFactory returns the global session factory.
func GetSessionFactory() *SessionFactory {
	return globalFactory
}

// Init initializes the global session using the provided configuration:
// connect, bind the registration manifest, and run the configured bootstrap
// steps.
func Init(cfg *Config) (*bun.DB, error) {
	if cfg == nil {
		return nil, errNotConfigured
	}
	globalConfig = cfg
	globalFactory = NewSessionFactory()
	manager, err := globalFactory.CreateFromConfig(&cfg.Connection)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := globalFactory.Initialize(ctx, &cfg.Bootstrap); err != nil {
		return nil, err
	}

	DB = manager.GetDB()
	return DB, nil
}

// InitFromFile loads a YAML configuration file and initializes the global
// session with it.
func InitFromFile(path string) (*bun.DB, error) {
	cfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	return Init(cfg)
}

// Close closes the global session.
func Close() error {
	if globalFactory != nil {
		return globalFactory.Close()
	}
	return nil
}

// GetHealthStatus returns the current database health status.
func GetHealthStatus(ctx context.Context) *HealthStatus {
	if globalFactory != nil {
		return globalFactory.GetHealthStatus(ctx)
	}
	return &HealthStatus{
		Healthy:   false,
		Connected: false,
		LastError: "Database not initialized",
	}
}

// GetStats returns global connection pool statistics.
func GetStats() *DBStats {
	if globalFactory != nil {
		return globalFactory.GetStats()
	}
	return &DBStats{}
}
