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

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	Name() string
}

// EntityState is the soft-state flag expressed as an enum for callers that
// prefer names over booleans.
type EntityState int

const (
	StateInactive EntityState = iota
	StateActive
)

func (s EntityState) IsValid() bool { return s == StateInactive || s == StateActive }

func (s EntityState) Number() int { return int(s) }

func (s EntityState) Name() string {
	switch s {
	case StateActive:
		return "active"
	case StateInactive:
		return "inactive"
	default:
		return IllegalName
	}
}

// Bool converts the enum into the persisted soft-state flag.
func (s EntityState) Bool() bool { return s == StateActive }

// StateOf converts a persisted soft-state flag into the enum.
func StateOf(active bool) EntityState {
	if active {
		return StateActive
	}
	return StateInactive
}
