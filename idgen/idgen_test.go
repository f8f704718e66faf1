package idgen

import (
	"strings"
	"testing"
)

func TestNewUnique(t *testing.T) {
	// WHAT: Successive IDs differ.
	// WHY: Duplicate log IDs would violate the fetch_log primary key.
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate ID: %s", id)
		}
		seen[id] = true
	}
}

func TestUUIDv7Sortable(t *testing.T) {
	// WHAT: v7 IDs generated in sequence sort in generation order.
	// WHY: Log tables rely on lexicographic order matching time order.
	gen := UUIDv7()
	prev := gen()
	for i := 0; i < 100; i++ {
		next := gen()
		if next < prev {
			t.Fatalf("IDs out of order: %s before %s", prev, next)
		}
		prev = next
	}
}

func TestPrefixed(t *testing.T) {
	// WHAT: Prefixed prepends the given prefix.
	// WHY: Type-scoped IDs make log rows self-describing.
	gen := Prefixed("fetch_", Default)
	id := gen()
	if !strings.HasPrefix(id, "fetch_") {
		t.Errorf("id %q missing prefix", id)
	}
}
