package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"

	"centralvendas/internal/infrastructure/mysql"
)

// SetupTestDB opens the integration database. The DSN defaults to a local
// MySQL with a 'centralvendas_test' schema and can be overridden with
// TEST_DATABASE_DSN. Tests are skipped when the database is unreachable.
func SetupTestDB(t *testing.T) *sqlx.DB {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/centralvendas_test?parseTime=true&loc=UTC&time_zone=%27%2B00%3A00%27"
	}

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables creates the schema when missing.
func SetupTestTables(t *testing.T, db *sqlx.DB) {
	if err := mysql.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to create tables: %v", err)
	}
}

// CleanupTestDB empties every table and closes the connection.
func CleanupTestDB(t *testing.T, db *sqlx.DB) {
	if db == nil {
		return
	}

	for _, table := range mysql.Tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM `%s`", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}
