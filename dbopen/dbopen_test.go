package dbopen

import (
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestOpenMemory(t *testing.T) {
	// WHAT: OpenMemory returns a usable database with pragmas applied.
	// WHY: Every store test in the repo builds on this helper.
	db := OpenMemory(t)

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestOpenWithSchema(t *testing.T) {
	// WHAT: WithSchema executes queued SQL during Open.
	// WHY: Callers rely on schema being in place before first use.
	db := OpenMemory(t, WithSchema(`CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)`))

	if _, err := db.Exec(`INSERT INTO t (v) VALUES ('x')`); err != nil {
		t.Fatalf("insert into schema table: %v", err)
	}
}

func TestOpenWithSchemaError(t *testing.T) {
	// WHAT: Broken schema SQL fails Open and closes the handle.
	// WHY: A half-initialized database must never be returned.
	_, err := Open(":memory:", WithSchema("CREATE GIBBERISH"))
	if err == nil {
		t.Fatal("expected error for invalid schema SQL")
	}
}

func TestOpenMkdirAll(t *testing.T) {
	// WHAT: WithMkdirAll creates missing parent directories.
	// WHY: First boot on a fresh host has no data directory yet.
	path := filepath.Join(t.TempDir(), "nested", "dir", "app.db")
	db, err := Open(path, WithMkdirAll())
	if err != nil {
		t.Fatalf("open with mkdir: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Errorf("ping: %v", err)
	}
}
