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
	"sort"
	"sync"

	"github.com/uptrace/bun"
)

var defaultRegistry = newRegistry()

// EntityConfig applies per-entity mapping or bootstrapping against the Bun
// handle at initialization time, e.g. registering join models or creating
// indexes. It replaces discovery by type scanning: every configuration is
// listed explicitly in the registration manifest.
type EntityConfig interface {
	Configure(ctx context.Context, db *bun.DB) error
}

// EntityConfigFunc adapts a plain function into an EntityConfig.
type EntityConfigFunc func(ctx context.Context, db *bun.DB) error

func (f EntityConfigFunc) Configure(ctx context.Context, db *bun.DB) error { return f(ctx, db) }

// Registration pairs an entity model with its table-creation priority
// (lower values first) and an optional configuration callback. Instance
// should return a struct pointer compatible with Bun.
type Registration interface {
	Instance() interface{}
	Priority() int
	Config() EntityConfig
}

// Registry is the explicit manifest of registered entities, exposed in a
// deterministic order.
type Registry interface {
	Register(reg Registration)
	Registrations() []Registration
}

type entityRegistry struct {
	entries []Registration
	mutex   sync.RWMutex
}

func newRegistry() Registry {
	return &entityRegistry{
		entries: make([]Registration, 0),
	}
}

func (r *entityRegistry) Register(reg Registration) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.entries = append(r.entries, reg)
}

func (r *entityRegistry) Registrations() []Registration {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]Registration, len(r.entries))
	copy(result, r.entries)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority() < result[j].Priority()
	})
	return result
}

type entityRegistration struct {
	instance interface{}
	priority int
	config   EntityConfig
}

// NewRegistration wraps a model instance and priority into a Registration
// without a configuration callback.
func NewRegistration(instance interface{}, priority int) Registration {
	return &entityRegistration{instance: instance, priority: priority}
}

// NewRegistrationWithConfig wraps a model instance, priority, and
// configuration callback into a Registration.
func NewRegistrationWithConfig(instance interface{}, priority int, config EntityConfig) Registration {
	return &entityRegistration{instance: instance, priority: priority, config: config}
}

func (r *entityRegistration) Instance() interface{} { return r.instance }

func (r *entityRegistration) Priority() int { return r.priority }

func (r *entityRegistration) Config() EntityConfig { return r.config }

// RegisterEntity adds an entity to the default manifest. Call it from a
// single bootstrap point (typically package init of the model package).
func RegisterEntity(reg Registration) {
	defaultRegistry.Register(reg)
}

// RegisteredEntities returns the default manifest sorted by ascending
// priority.
func RegisteredEntities() []Registration {
	return defaultRegistry.Registrations()
}

// RegisteredInstances returns the model instances of the default manifest in
// priority order.
func RegisteredInstances() []interface{} {
	entries := RegisteredEntities()
	instances := make([]interface{}, len(entries))
	for i, reg := range entries {
		instances[i] = reg.Instance()
	}
	return instances
}

// ApplyEntityConfigs runs every registered configuration callback in
// priority order, stopping at the first failure.
func ApplyEntityConfigs(ctx context.Context, db *bun.DB) error {
	for _, reg := range RegisteredEntities() {
		cfg := reg.Config()
		if cfg == nil {
			continue
		}
		if err := cfg.Configure(ctx, db); err != nil {
			return fmt.Errorf("entity config failed for %T: %w", reg.Instance(), err)
		}
	}
	return nil
}
