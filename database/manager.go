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
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type sessionManager struct {
	config          *ConnectionConfig
	db              *bun.DB
	sqlDB           *sql.DB
	logger          Logger
	mu              sync.RWMutex
	connected       bool
	lastError       error
	reconnectTries  int
	stopHealthCheck chan struct{}
	healthCheckOn   bool
}

// NewSessionManager returns a SessionManager backed by Bun. If config is
// nil, a default configuration is used.
func NewSessionManager(config *ConnectionConfig) SessionManager {
	if config == nil {
		config = DefaultConnectionConfig()
	}
	return &sessionManager{
		config: config,
	}
}

func (sm *sessionManager) Connect(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.connected && sm.db != nil {
		return nil
	}

	var err error
	sm.sqlDB, sm.db, err = sm.createConnection()
	if err != nil {
		sm.lastError = err
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	sm.configureConnectionPool()

	ctxTimeout, cancel := context.WithTimeout(ctx, sm.config.ConnectTimeout)
	defer cancel()

	if err := sm.db.PingContext(ctxTimeout); err != nil {
		sm.lastError = err
		return fmt.Errorf("database connection test failed: %w", err)
	}

	sm.connected = true
	sm.lastError = nil
	sm.reconnectTries = 0

	if sm.config.HealthCheckInterval > 0 {
		sm.startHealthCheck()
	}

	if sm.logger != nil {
		sm.logger.Info("Database connected successfully:", "type", sm.config.Type, "host", sm.config.Host)
	}
	return nil
}

func (sm *sessionManager) createConnection() (*sql.DB, *bun.DB, error) {
	var sqlDB *sql.DB
	var db *bun.DB
	var err error

	if sm.config.ConnectTimeout.Seconds() <= 0 {
		sm.config.ConnectTimeout = 30 * time.Second
	}

	switch sm.config.Type {
	case "mysql":
		sqlDB, db, err = sm.openMySQL()
	case "postgres", "postgresql":
		sqlDB, db, err = sm.openPostgreSQL()
	case "sqlite", "sqlite3":
		sqlDB, db, err = sm.openSQLite()
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", sm.config.Type)
	}

	if err != nil {
		return nil, nil, err
	}

	if sm.config.EnableQueryLog {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}

	if sm.config.SlowQueryTime > 0 {
		db.AddQueryHook(&slowQueryHook{
			slowTime: sm.config.SlowQueryTime,
			logger:   sm.logger,
		})
	}

	return sqlDB, db, nil
}

func (sm *sessionManager) openMySQL() (*sql.DB, *bun.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%s&readTimeout=%s&writeTimeout=%s",
		sm.config.Username,
		sm.config.Password,
		sm.config.Host,
		sm.config.Port,
		sm.config.DBName,
		sm.config.ConnectTimeout,
		sm.config.ReadTimeout,
		sm.config.WriteTimeout,
	)

	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, nil, err
	}

	db := bun.NewDB(sqlDB, mysqldialect.New())
	return sqlDB, db, nil
}

func (sm *sessionManager) openPostgreSQL() (*sql.DB, *bun.DB, error) {
	sslMode := sm.config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=%d",
		sm.config.Username,
		sm.config.Password,
		sm.config.Host,
		sm.config.Port,
		sm.config.DBName,
		sslMode,
		int(sm.config.ConnectTimeout.Seconds()),
	)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, err
	}

	db := bun.NewDB(sqlDB, pgdialect.New())
	return sqlDB, db, nil
}

func (sm *sessionManager) openSQLite() (*sql.DB, *bun.DB, error) {
	// ":memory:" and "file:" DSNs pass through unchanged; anything else is
	// treated as a database name on disk.
	dsn := sm.config.DBName
	switch {
	case dsn == "" || dsn == ":memory:":
		dsn = "file::memory:?cache=shared"
	case strings.HasPrefix(dsn, "file:"):
	default:
		dsn = fmt.Sprintf("%s.db", dsn)
	}

	sqlDB, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, nil, err
	}

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	return sqlDB, db, nil
}

func (sm *sessionManager) configureConnectionPool() {
	if sm.sqlDB == nil {
		return
	}

	sm.sqlDB.SetMaxIdleConns(sm.config.MaxIdleConns)
	sm.sqlDB.SetMaxOpenConns(sm.config.MaxOpenConns)
	sm.sqlDB.SetConnMaxLifetime(sm.config.ConnMaxLifetime)
	sm.sqlDB.SetConnMaxIdleTime(sm.config.ConnMaxIdleTime)
}

func (sm *sessionManager) Disconnect() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.healthCheckOn {
		close(sm.stopHealthCheck)
		sm.healthCheckOn = false
	}

	if sm.db != nil {
		err := sm.db.Close()
		sm.db = nil
		sm.sqlDB = nil
		sm.connected = false

		if sm.logger != nil {
			if err != nil {
				sm.logger.Error("Failed to close database connection", "error", err)
			} else {
				sm.logger.Info("Database connection closed")
			}
		}

		return err
	}

	return nil
}

func (sm *sessionManager) Reconnect(ctx context.Context) error {
	if sm.logger != nil {
		sm.logger.Info("Attempting to reconnect to the database")
	}

	if err := sm.Disconnect(); err != nil {
		if sm.logger != nil {
			sm.logger.Warn("Error disconnecting existing connection", "error", err)
		}
	}

	return sm.Connect(ctx)
}

func (sm *sessionManager) Ping(ctx context.Context) error {
	sm.mu.RLock()
	db := sm.db
	sm.mu.RUnlock()

	if db == nil {
		return fmt.Errorf("database not connected")
	}

	return db.PingContext(ctx)
}

func (sm *sessionManager) GetDB() *bun.DB {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.db
}

func (sm *sessionManager) GetSQLDB() *sql.DB {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sqlDB
}

func (sm *sessionManager) HealthCheck(ctx context.Context) *HealthStatus {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	start := time.Now()
	status := &HealthStatus{
		LastCheckTime: start,
		Connected:     sm.connected,
	}

	if sm.db == nil {
		status.Healthy = false
		status.LastError = "Database not initialized"
		return status
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	err := sm.db.PingContext(ctxTimeout)
	status.ResponseTime = time.Since(start)

	if err != nil {
		status.Healthy = false
		status.Connected = false
		status.LastError = err.Error()
		sm.lastError = err
	} else {
		status.Healthy = true
		status.Connected = true
		sm.lastError = nil
	}

	if sm.sqlDB != nil {
		stats := sm.sqlDB.Stats()
		status.ActiveConns = stats.InUse
		status.IdleConns = stats.Idle
		status.MaxOpenConns = stats.MaxOpenConnections
	}

	return status
}

// startHealthCheck launches the periodic health check loop. Callers must
// hold sm.mu. Disconnect closes the stop channel, so each Connect gets a
// fresh channel and its own goroutine.
func (sm *sessionManager) startHealthCheck() {
	if sm.healthCheckOn {
		return
	}
	sm.healthCheckOn = true
	stop := make(chan struct{})
	sm.stopHealthCheck = stop

	go func() {
		ticker := time.NewTicker(sm.config.HealthCheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
				status := sm.HealthCheck(ctx)
				cancel()
				if !status.Healthy && sm.config.EnableReconnect {
					sm.handleReconnect()
				}

			case <-stop:
				return
			}
		}
	}()
}

func (sm *sessionManager) handleReconnect() {
	if sm.reconnectTries >= sm.config.MaxReconnectTries {
		if sm.logger != nil {
			sm.logger.Error("Max reconnect attempts reached, stopping", "tries", sm.reconnectTries)
		}
		return
	}

	sm.reconnectTries++
	if sm.logger != nil {
		sm.logger.Info("Starting database reconnect", "try", sm.reconnectTries)
	}

	time.Sleep(sm.config.ReconnectInterval)

	ctx, cancel := context.WithTimeout(context.Background(), sm.config.ConnectTimeout)
	defer cancel()

	if err := sm.Reconnect(ctx); err != nil {
		if sm.logger != nil {
			sm.logger.Error("Reconnect failed", "error", err, "try", sm.reconnectTries)
		}
	} else {
		sm.reconnectTries = 0
		if sm.logger != nil {
			sm.logger.Info("Reconnect succeeded")
		}
	}
}

func (sm *sessionManager) GetStats() *DBStats {
	sm.mu.RLock()
	sqlDB := sm.sqlDB
	sm.mu.RUnlock()

	if sqlDB == nil {
		return &DBStats{}
	}

	stats := sqlDB.Stats()
	return &DBStats{
		MaxOpenConns:      stats.MaxOpenConnections,
		OpenConns:         stats.OpenConnections,
		InUse:             stats.InUse,
		Idle:              stats.Idle,
		WaitCount:         stats.WaitCount,
		WaitDuration:      stats.WaitDuration,
		MaxIdleClosed:     stats.MaxIdleClosed,
		MaxIdleTimeClosed: stats.MaxIdleTimeClosed,
		MaxLifetimeClosed: stats.MaxLifetimeClosed,
	}
}

func (sm *sessionManager) SetLogger(logger Logger) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.logger = logger
}

type slowQueryHook struct {
	slowTime time.Duration
	logger   Logger
}

func (h *slowQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *slowQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if event.Err != nil {
		return
	}

	duration := time.Since(event.StartTime)
	if duration > h.slowTime && h.logger != nil {
		h.logger.Warn("Database slow query detected:",
			"duration", duration,
			"slow_threshold", h.slowTime,
			"query", event.Query,
		)
	}
}
