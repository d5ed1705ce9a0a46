package sqlight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeMigrations writes a standard pair of migrations for testing and
// returns the directory.
func writeMigrations(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"001_create_users.up.sql":   "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);",
		"001_create_users.down.sql": "DROP TABLE users;",
		"002_add_email.up.sql":      "ALTER TABLE users ADD COLUMN email TEXT;",
		"002_add_email.down.sql":    "ALTER TABLE users DROP COLUMN email;",
	}
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0600); err != nil {
			t.Fatalf("failed to write migration %s: %v", name, err)
		}
	}
	return dir
}

// TestMigrate verifies migration application.
func TestMigrate(t *testing.T) {
	t.Run("applies pending migrations in order", func(t *testing.T) {
		db := openTestDB(t)
		defer db.Close() //nolint:errcheck // Test cleanup

		dir := writeMigrations(t)
		ctx := context.Background()

		if err := db.Migrate(ctx, os.DirFS(dir), "."); err != nil {
			t.Fatalf("Migrate() error = %v", err)
		}

		// Both migrations applied: email column exists
		if err := db.Commit(ctx, Raw("INSERT INTO users (id, name, email) VALUES (1, 'Alice', 'a@example.com');")); err != nil {
			t.Errorf("schema incomplete after Migrate(): %v", err)
		}

		applied, pending, err := db.MigrationStatus(ctx, os.DirFS(dir), ".")
		if err != nil {
			t.Fatalf("MigrationStatus() error = %v", err)
		}
		if len(applied) != 2 || len(pending) != 0 {
			t.Errorf("status = %d applied, %d pending, want 2, 0", len(applied), len(pending))
		}
		if applied[0].Version != "001" || applied[1].Version != "002" {
			t.Errorf("applied order = [%s %s], want [001 002]", applied[0].Version, applied[1].Version)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		db := openTestDB(t)
		defer db.Close() //nolint:errcheck // Test cleanup

		dir := writeMigrations(t)
		ctx := context.Background()

		if err := db.Migrate(ctx, os.DirFS(dir), "."); err != nil {
			t.Fatalf("first Migrate() error = %v", err)
		}
		if err := db.Migrate(ctx, os.DirFS(dir), "."); err != nil {
			t.Fatalf("second Migrate() error = %v", err)
		}
	})

	t.Run("rejects pending statement transaction", func(t *testing.T) {
		db := openTestDB(t)
		defer db.Close() //nolint:errcheck // Test cleanup

		ctx := context.Background()
		if _, err := db.Execute(ctx, Raw("CREATE TABLE scratch (id INTEGER);")); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		err := db.Migrate(ctx, os.DirFS(writeMigrations(t)), ".")
		if !errors.Is(err, ErrQuery) {
			t.Errorf("Migrate() with pending transaction error = %v, want ErrQuery", err)
		}
	})

	t.Run("failing migration rolls back and stops", func(t *testing.T) {
		db := openTestDB(t)
		defer db.Close() //nolint:errcheck // Test cleanup

		dir := t.TempDir()
		files := map[string]string{
			"001_ok.up.sql":    "CREATE TABLE a (id INTEGER);",
			"002_bad.up.sql":   "NOT VALID SQL;",
			"003_never.up.sql": "CREATE TABLE c (id INTEGER);",
		}
		for name, contents := range files {
			if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0600); err != nil {
				t.Fatalf("failed to write migration: %v", err)
			}
		}

		ctx := context.Background()
		err := db.Migrate(ctx, os.DirFS(dir), ".")
		if !errors.Is(err, ErrQuery) {
			t.Fatalf("Migrate() error = %v, want ErrQuery", err)
		}

		applied, pending, err := db.MigrationStatus(ctx, os.DirFS(dir), ".")
		if err != nil {
			t.Fatalf("MigrationStatus() error = %v", err)
		}
		if len(applied) != 1 || applied[0].Version != "001" {
			t.Errorf("applied = %v, want only 001", applied)
		}
		if len(pending) != 2 {
			t.Errorf("pending = %d, want 2", len(pending))
		}
	})
}

// TestMigrateDown verifies rollback of the latest migration.
func TestMigrateDown(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	dir := writeMigrations(t)
	ctx := context.Background()

	if err := db.Migrate(ctx, os.DirFS(dir), "."); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.MigrateDown(ctx, os.DirFS(dir), "."); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}

	applied, pending, err := db.MigrationStatus(ctx, os.DirFS(dir), ".")
	if err != nil {
		t.Fatalf("MigrationStatus() error = %v", err)
	}
	if len(applied) != 1 || applied[0].Version != "001" {
		t.Errorf("applied = %v, want only 001 after rollback", applied)
	}
	if len(pending) != 1 || pending[0].Version != "002" {
		t.Errorf("pending = %v, want 002", pending)
	}

	// Rolled-back column is gone
	if _, err := db.Execute(ctx, Raw("INSERT INTO users (id, name, email) VALUES (1, 'Alice', 'a@example.com');")); !errors.Is(err, ErrQuery) {
		t.Errorf("email column still present after rollback, error = %v", err)
	}
}

// TestParseMigrationFilename verifies filename parsing.
func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantUp      bool
		wantOK      bool
	}{
		{
			name:        "up migration",
			filename:    "001_create_users.up.sql",
			wantVersion: "001",
			wantUp:      true,
			wantOK:      true,
		},
		{
			name:        "down migration",
			filename:    "002_add_email.down.sql",
			wantVersion: "002",
			wantUp:      false,
			wantOK:      true,
		},
		{
			name:     "no direction suffix",
			filename: "001_create_users.sql",
			wantOK:   false,
		},
		{
			name:     "not a sql file",
			filename: "README.md",
			wantOK:   false,
		},
		{
			name:     "missing version separator",
			filename: "initial.up.sql",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, isUp, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if version != tt.wantVersion {
				t.Errorf("version = %q, want %q", version, tt.wantVersion)
			}
			if isUp != tt.wantUp {
				t.Errorf("isUp = %v, want %v", isUp, tt.wantUp)
			}
		})
	}
}

// TestExtractMigrationName verifies name extraction.
func TestExtractMigrationName(t *testing.T) {
	if got := extractMigrationName("001_create_users.up.sql"); got != "create_users" {
		t.Errorf("extractMigrationName() = %q, want create_users", got)
	}
}
