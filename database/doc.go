// Package database manages the Bun-backed storage session the generic
// repository rides on: connection lifecycle for MySQL, PostgreSQL and
// SQLite, YAML configuration with environment overrides, an explicit entity
// registration manifest with per-entity configuration callbacks, bootstrap
// table creation, query logging hooks, and SQL fault classification.
package database
