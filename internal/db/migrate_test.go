package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyMigrationFileIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	sqdb, err := Open("sqlite", filepath.Join(dir, "state.db"), "", 2, 1, time.Minute)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sqdb.Close()

	migration := filepath.Join(dir, "001_init.sql")
	schema := "CREATE TABLE settings (name VARCHAR(191) PRIMARY KEY, value TEXT NOT NULL, updated_at TIMESTAMP NOT NULL);"
	if err := os.WriteFile(migration, []byte(schema), 0o600); err != nil {
		t.Fatalf("write migration: %v", err)
	}

	if err := ApplyMigrationFile(sqdb, migration); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := ApplyMigrationFile(sqdb, migration); err != nil {
		t.Fatalf("second apply must be a no-op: %v", err)
	}

	if _, err := sqdb.Exec(`INSERT INTO settings(name,value,updated_at) VALUES('k','v',?)`, time.Now().UTC()); err != nil {
		t.Fatalf("insert into migrated table: %v", err)
	}
}

// MySQL treats key as a reserved word and refuses TEXT primary keys, so the
// shipped schema and every statement against it must avoid both.
func TestShippedMigrationAvoidsMySQLReservedSchema(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("..", "..", "migrations", "001_init.sql"))
	if err != nil {
		t.Fatalf("read shipped migration: %v", err)
	}
	ddl := strings.ToLower(string(b))
	if strings.Contains(ddl, "key text") || strings.Contains(ddl, "(key ") {
		t.Fatalf("migration uses the reserved column name: %s", ddl)
	}
	if strings.Contains(ddl, "text primary key") {
		t.Fatalf("migration declares a TEXT primary key: %s", ddl)
	}

	sqdb, err := Open("sqlite", filepath.Join(t.TempDir(), "state.db"), "", 2, 1, time.Minute)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sqdb.Close()
	if err := ApplyMigrationFile(sqdb, filepath.Join("..", "..", "migrations", "001_init.sql")); err != nil {
		t.Fatalf("apply shipped migration: %v", err)
	}
}

func TestApplyMigrationFileMissingFile(t *testing.T) {
	sqdb, err := Open("sqlite", filepath.Join(t.TempDir(), "state.db"), "", 2, 1, time.Minute)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sqdb.Close()

	if err := ApplyMigrationFile(sqdb, filepath.Join(t.TempDir(), "missing.sql")); err == nil {
		t.Fatal("expected error for missing migration file")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "", "", 2, 1, time.Minute); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
