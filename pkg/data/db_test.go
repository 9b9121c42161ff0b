package data

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDDL = `CREATE TABLE ledger (
	id INTEGER PRIMARY KEY,
	amount REAL,
	memo TEXT
);
INSERT INTO ledger (amount, memo) VALUES
	(123, 'a'),
	(45.67, 'b'),
	(NULL, 'c'),
	(-9000, 'd');`

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := GetDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(testDDL)
	require.NoError(t, err)
	return db
}

func TestDriver(t *testing.T) {
	tests := []struct {
		dsn    string
		driver string
		source string
	}{
		{"data.db", driverSQLite, "data.db"},
		{"sqlite:///tmp/x.db", driverSQLite, "/tmp/x.db"},
		{"file:x.db?mode=ro", driverSQLite, "file:x.db?mode=ro"},
		{"postgres://u:p@localhost/db", driverPostgres, "postgres://u:p@localhost/db"},
		{"postgresql://localhost/db", driverPostgres, "postgresql://localhost/db"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			driver, source, err := Driver(tt.dsn)
			require.NoError(t, err)
			assert.Equal(t, tt.driver, driver)
			assert.Equal(t, tt.source, source)
		})
	}

	_, _, err := Driver(" ")
	assert.Error(t, err)
}

func TestQueryValues(t *testing.T) {
	db := setupTestDB(t)

	list, err := QueryValues(context.Background(), db, "SELECT amount, memo FROM ledger ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, []string{"123", "45.67", "-9000"}, list)
}

func TestQueryValues_Args(t *testing.T) {
	db := setupTestDB(t)

	list, err := QueryValues(context.Background(), db, "SELECT CAST(amount AS INTEGER) FROM ledger WHERE memo = ?", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"123"}, list)
}

func TestQueryValues_Errors(t *testing.T) {
	db := setupTestDB(t)

	_, err := QueryValues(context.Background(), nil, "SELECT 1")
	assert.ErrorIs(t, err, errDBNotInitialized)

	_, err = QueryValues(context.Background(), db, " ")
	assert.ErrorIs(t, err, errQueryRequired)

	_, err = QueryValues(context.Background(), db, "SELECT nope FROM missing")
	assert.Error(t, err)
}
