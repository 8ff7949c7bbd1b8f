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

package repository

import "errors"

var (
	// ErrInvalidArgument reports a nil or zero-valued required input. It is
	// returned before any backend call is made.
	ErrInvalidArgument = errors.New("repository: invalid argument")

	// ErrEntityNotFound reports that no row matched the requested identity.
	ErrEntityNotFound = errors.New("repository: entity not found")

	// ErrDuplicateEntity reports that more than one row matched an identity
	// that is expected to be unique. It is surfaced rather than swallowed so
	// that a broken uniqueness invariant never goes unnoticed.
	ErrDuplicateEntity = errors.New("repository: duplicate entity")
)
