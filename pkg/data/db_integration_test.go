//go:build integration

package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestQueryValues_Postgres(t *testing.T) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("benford"),
		tcpostgres.WithUsername("benford"),
		tcpostgres.WithPassword("benford"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := GetDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.ExecContext(ctx, `CREATE TABLE ledger (id SERIAL PRIMARY KEY, amount NUMERIC(12,2));
		INSERT INTO ledger (amount) VALUES (123.45), (NULL), (-7.00);`)
	require.NoError(t, err)

	list, err := QueryValues(ctx, db, "SELECT amount FROM ledger ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, []string{"123.45", "-7.00"}, list)
}
