package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrateCreatesSchema(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db))

	for _, table := range []string{"transactions", "categories", "settings"} {
		var count int
		err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count, "table %s", table)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db))

	err = WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO categories (name, position) VALUES ('Doomed', 0)`); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&count))
	require.Zero(t, count)
}
