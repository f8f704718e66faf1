// CLAUDE:SUMMARY UUIDv7-based ID generation for log entries; Prefixed composition helper.
// Package idgen provides pluggable ID generation.
//
// Record tables (urls, summaries) use SQLite AUTOINCREMENT integers;
// idgen covers the append-only log tables where a sortable opaque
// string ID is preferable.
package idgen

import (
	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator that produces RFC 9562 UUID v7 strings.
// Time-sortable and globally unique.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed wraps a Generator and prepends a fixed prefix to every ID.
// Useful for type-scoped identifiers (e.g. "fetch_").
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Default is the package default: UUIDv7.
var Default Generator = UUIDv7()

// New produces an ID using the Default generator.
func New() string {
	return Default()
}
