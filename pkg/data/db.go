package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"

	sqlitePrefix = "sqlite://"
)

var (
	errDBNotInitialized = errors.New("database not initialized")
	errQueryRequired    = errors.New("query is required")
)

// Driver returns the database/sql driver name and the driver specific DSN
// for dsn. PostgreSQL URLs use lib/pq, anything else is treated as a SQLite
// database file.
func Driver(dsn string) (driver, source string, err error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", "", errors.New("dsn not specified")
	}

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return driverPostgres, dsn, nil
	case strings.HasPrefix(dsn, sqlitePrefix):
		return driverSQLite, strings.TrimPrefix(dsn, sqlitePrefix), nil
	default:
		return driverSQLite, dsn, nil
	}
}

// GetDB opens the database identified by dsn.
func GetDB(dsn string) (*sql.DB, error) {
	driver, source, err := Driver(dsn)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	slog.Debug("database opened", "driver", driver)
	return conn, nil
}

// QueryValues runs query and returns the first column of every row as text.
// NULL values are skipped.
func QueryValues(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if strings.TrimSpace(query) == "" {
		return nil, errQueryRequired
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	if len(cols) == 0 {
		return nil, errors.New("query returned no columns")
	}

	// only the first column is kept, the rest are scanned and discarded
	dest := make([]any, len(cols))
	var val sql.NullString
	dest[0] = &val
	for i := 1; i < len(cols); i++ {
		dest[i] = new(sql.RawBytes)
	}

	list := make([]string, 0)
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if val.Valid {
			list = append(list, val.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	slog.Debug("query values", "column", cols[0], "count", len(list))
	return list, nil
}
