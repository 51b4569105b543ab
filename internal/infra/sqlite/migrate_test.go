package sqlite

import (
	"testing"
)

func TestMigrateUp_AppliesAndIsIdempotent(t *testing.T) {
	t.Parallel()

	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}

	v, err := MigrationVersion(db)
	if err != nil {
		t.Fatalf("MigrationVersion: %v", err)
	}
	if v < 1 {
		t.Fatalf("version=%d want >= 1", v)
	}

	// Second run must be a no-op.
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp (second run): %v", err)
	}
	v2, err := MigrationVersion(db)
	if err != nil {
		t.Fatalf("MigrationVersion: %v", err)
	}
	if v2 != v {
		t.Fatalf("version changed on rerun: %d -> %d", v, v2)
	}

	// The run-history table is queryable after migration.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM agent_run").Scan(&count); err != nil {
		t.Fatalf("query agent_run: %v", err)
	}
	if count != 0 {
		t.Fatalf("agent_run count=%d want=0", count)
	}
}

func TestVersionFromFilename(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"001_agent_run.up.sql": 1,
		"042_whatever.up.sql":  42,
		"nonsense.up.sql":      0,
	}
	for name, want := range cases {
		if got := versionFromFilename(name); got != want {
			t.Fatalf("versionFromFilename(%q)=%d want=%d", name, got, want)
		}
	}
}
