package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/squad/internal/database"
)

func TestOpenSQLite_RequiresDSN(t *testing.T) {
	_, err := database.OpenSQLite(context.Background(), "  ")
	assert.Error(t, err)
}

func TestOpenSQLite_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "squad.db"))
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"teams", "players", "player_names"} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestOpenSQLite_MigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "squad.db")

	first, err := database.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := database.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	assert.NoError(t, database.Migrate(ctx, second, database.DialectSQLite))
}

func TestOpenSQLite_MemoryDSNIsShared(t *testing.T) {
	ctx := context.Background()
	dsn := database.MemoryDSN("shared_" + t.Name())

	writer, err := database.OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	defer writer.Close()

	_, err = writer.ExecContext(ctx,
		`INSERT INTO teams (id, name, created_at, updated_at) VALUES ('t1', 'AFC Ajax', 0, 0)`)
	require.NoError(t, err)

	reader, err := database.OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	defer reader.Close()

	var count int
	require.NoError(t, reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestMemoryDSN_SeparateNamesAreIsolated(t *testing.T) {
	ctx := context.Background()

	a, err := database.OpenSQLite(ctx, database.MemoryDSN("isolated_a_"+t.Name()))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.ExecContext(ctx,
		`INSERT INTO teams (id, name, created_at, updated_at) VALUES ('t1', 'AFC Ajax', 0, 0)`)
	require.NoError(t, err)

	b, err := database.OpenSQLite(ctx, database.MemoryDSN("isolated_b_"+t.Name()))
	require.NoError(t, err)
	defer b.Close()

	var count int
	require.NoError(t, b.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestMigrate_UnsupportedDialect(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, database.MemoryDSN("dialect_"+t.Name()))
	require.NoError(t, err)
	defer db.Close()

	err = database.Migrate(ctx, db, database.Dialect("oracle"))
	assert.ErrorContains(t, err, "unsupported migration dialect")
}
