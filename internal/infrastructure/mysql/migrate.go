package mysql

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schema string

// Tables lists every table in schema.sql, children before parents.
var Tables = []string{
	"IntegrationLog", "TenantConnection", "OrderItems", "Orders", "StockMovement",
	"Inventory", "Product", "Customer", "User", "Tenant", "Plan",
}

// Statements returns the schema split into individual CREATE statements.
func Statements() []string {
	var stmts []string
	for _, stmt := range strings.Split(schema, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// Migrate creates missing tables. Existing tables are left untouched.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
