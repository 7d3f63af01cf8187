package mysql

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Collected(t *testing.T) {
	goose.SetBaseFS(migrations)
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	ms, err := goose.CollectMigrations("migrations", 0, goose.MaxVersion)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	require.Equal(t, int64(1), ms[0].Version)
	require.Equal(t, int64(2), ms[1].Version)
}

func TestMigrations_UniqueKeysAddedToExistingTable(t *testing.T) {
	raw, err := fs.ReadFile(migrations, "migrations/00002_users_unique_keys.sql")
	require.NoError(t, err)
	sql := string(raw)

	up := sql[strings.Index(sql, "-- +goose Up"):strings.Index(sql, "-- +goose Down")]
	for _, key := range []string{"uq_users_username", "uq_users_email"} {
		require.Contains(t, up, "index_name = '"+key+"'")
		require.Contains(t, up, "ADD UNIQUE KEY "+key)
	}
}
