package testutil

import (
	"testing"

	"mediagrabber/internal/database"
	"mediagrabber/internal/mg"
)

// NewTestDatabase creates a new in-memory index with schema applied.
// The index is automatically closed when the test completes.
func NewTestDatabase(t *testing.T) *database.SQLiteDatabase {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if _, err := sqlDB.Exec(database.Schema); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	db := database.NewSQLiteDatabaseFromDB(sqlDB, FixedClock())

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// Compile-time check that the test database satisfies mg.Index
var _ mg.Index = (*database.SQLiteDatabase)(nil)
