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
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckRearmsAfterReconnect(t *testing.T) {
	cfg := DefaultConnectionConfig()
	cfg.Type = "sqlite"
	cfg.DBName = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1
	// Long enough that the loop never ticks during the test.
	cfg.HealthCheckInterval = time.Hour
	cfg.EnableReconnect = false

	mgr := NewSessionManager(cfg).(*sessionManager)
	ctx := context.Background()

	require.NoError(t, mgr.Connect(ctx))
	mgr.mu.RLock()
	on := mgr.healthCheckOn
	mgr.mu.RUnlock()
	assert.True(t, on)

	require.NoError(t, mgr.Disconnect())
	mgr.mu.RLock()
	on = mgr.healthCheckOn
	mgr.mu.RUnlock()
	assert.False(t, on)

	// A fresh connect after disconnect gets its own health check loop.
	require.NoError(t, mgr.Connect(ctx))
	mgr.mu.RLock()
	on = mgr.healthCheckOn
	stop := mgr.stopHealthCheck
	mgr.mu.RUnlock()
	assert.True(t, on)
	select {
	case <-stop:
		t.Fatal("stop channel of the new loop is already closed")
	default:
	}

	require.NoError(t, mgr.Disconnect())
}
