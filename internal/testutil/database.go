// Package testutil provides test helpers for setting up in-memory databases,
// creating fixtures, and making assertions.
package testutil

import (
	"fmt"
	"testing"

	"finbot/internal/config"
	"finbot/internal/database"

	"gorm.io/gorm"
)

// SetupTestDB creates an isolated in-memory SQLite database with the real
// schema migrations applied.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:finbot_test_%d?mode=memory&cache=shared", nextID())

	// The gorm pool keeps a connection open, which keeps the shared
	// in-memory database alive while the migrator uses its own connection.
	db, err := database.Open(config.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.Migrate(config.DriverSQLite, dsn); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
