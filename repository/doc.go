// Package repository provides a generic, audit-aware repository abstraction
// built on Bun: identity-based CRUD with soft-state filtering, write-once
// audit columns, filtered and paged queries, and transactional variants.
package repository
