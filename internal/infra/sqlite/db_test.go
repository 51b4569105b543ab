package sqlite

import (
	"path/filepath"
	"testing"
)

func TestNewDB_InMemory(t *testing.T) {
	t.Parallel()

	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer db.Close()

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys pragma: %v", err)
	}
	if fk != 1 {
		t.Fatalf("foreign_keys=%d want=1", fk)
	}
}

func TestNewDB_OnDisk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "agentgate.db")
	db, err := NewDB(path)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE smoke (id INTEGER)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
}

func TestNewDB_MissingParentDir(t *testing.T) {
	t.Parallel()

	if _, err := NewDB(filepath.Join(t.TempDir(), "missing", "agentgate.db")); err == nil {
		t.Fatal("expected error for missing parent directory, got nil")
	}
}
