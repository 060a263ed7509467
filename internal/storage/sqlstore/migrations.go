package sqlstore

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
)

// schema contains the statements that set up the database.
// They run on startup and are safe to repeat. %REAL% and %BIGINT% are replaced
// with the dialect's column types.
const schema = `
CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    amount %REAL% NOT NULL CHECK (amount > 0),
    description TEXT NOT NULL,
    category TEXT NOT NULL,
    expense_date TEXT NOT NULL,
    paid_by TEXT NOT NULL,
    split_type TEXT NOT NULL,
    splits TEXT NOT NULL,
    payment_status TEXT NOT NULL DEFAULT '{}',
    created_at %BIGINT% NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL,
    created_at %BIGINT% NOT NULL,
    updated_at %BIGINT% NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(expense_date, created_at);
`

var columnTypes = map[string]*strings.Replacer{
	DialectSQLite:   strings.NewReplacer("%REAL%", "REAL", "%BIGINT%", "INTEGER"),
	DialectPostgres: strings.NewReplacer("%REAL%", "DOUBLE PRECISION", "%BIGINT%", "BIGINT"),
}

// runMigrations executes the schema setup one statement at a time.
func runMigrations(ctx context.Context, db *sqlx.DB, dialect string) error {
	ddl := columnTypes[dialect].Replace(schema)
	for _, stmt := range strings.Split(ddl, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
