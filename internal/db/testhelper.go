package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTest opens a write/read pool pair on a fresh SQLite file in
// t.TempDir(), runs all migrations, and registers cleanup. Tests that do
// not need the split can use writeDB for everything.
func OpenTest(t *testing.T) (writeDB, readDB *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "metastore.sqlite")
	writeDB, readDB, err := OpenPair(path, 4)
	if err != nil {
		t.Fatalf("open test sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	})

	if err := RunMigrations(writeDB); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return writeDB, readDB
}
