package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func migrationFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys["sql/migrations/"+name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

func TestLoadMigrationsFromFS_SortsByVersion(t *testing.T) {
	t.Parallel()

	migrations, err := loadMigrationsFromFS(migrationFS(map[string]string{
		"0010_add_index.up.sql":     "CREATE INDEX i ON t (id);",
		"0010_add_index.down.sql":   "DROP INDEX i;",
		"0002_create_t.up.sql":      "CREATE TABLE t (id INT);",
		"0002_create_t.down.sql":    "DROP TABLE t;",
		"0001_create_base.up.sql":   "  CREATE TABLE base (id INT);\n",
		"0001_create_base.down.sql": "DROP TABLE base;",
	}))
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	require.Equal(t, []int64{1, 2, 10}, []int64{migrations[0].Version, migrations[1].Version, migrations[2].Version})
	require.Equal(t, "create_base", migrations[0].Name)
	require.Equal(t, "CREATE TABLE base (id INT);", migrations[0].UpSQL)
	require.Equal(t, "0010_add_index", migrations[2].String())
}

func TestLoadMigrationsFromFS_Rejects(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		files map[string]string
		want  string
	}{
		"missing down": {
			files: map[string]string{"0001_init.up.sql": "CREATE TABLE a (id INT);"},
			want:  "both up and down",
		},
		"bad file name": {
			files: map[string]string{"not_a_migration.sql": "SELECT 1;"},
			want:  "invalid migration file name",
		},
		"empty body": {
			files: map[string]string{"0001_init.up.sql": "  \n", "0001_init.down.sql": "DROP TABLE a;"},
			want:  "migration file is empty",
		},
		"name mismatch": {
			files: map[string]string{"0001_init.up.sql": "SELECT 1;", "0001_other.down.sql": "SELECT 1;"},
			want:  "name mismatch",
		},
		"no files": {
			files: map[string]string{},
			want:  "",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadMigrationsFromFS(migrationFS(tc.files))
			require.Error(t, err)
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestLoadMigrationsFromFS_Embedded(t *testing.T) {
	t.Parallel()

	migrations, err := loadMigrationsFromFS(migrationsFS)
	require.NoError(t, err)

	names := make([]string, 0, len(migrations))
	for i, m := range migrations {
		require.Equal(t, int64(i+1), m.Version)
		names = append(names, m.Name)
	}
	require.Equal(t, []string{"create_orders", "create_timeline_events", "create_outbox_messages", "create_idempotency_keys"}, names)
}

func TestUpPlan(t *testing.T) {
	t.Parallel()

	migrations := []migration{
		{Version: 1, Name: "a", UpSQL: "SELECT 1"},
		{Version: 2, Name: "b", UpSQL: "SELECT 2"},
		{Version: 3, Name: "c", UpSQL: "SELECT 3"},
	}

	plan, err := upPlan(migrations, map[int64]appliedMigration{1: {version: 1, checksum: migrations[0].Checksum()}}, 0)
	require.NoError(t, err)
	require.Equal(t, migrations[1:], plan)

	plan, err = upPlan(migrations, nil, 1)
	require.NoError(t, err)
	require.Equal(t, migrations[:1], plan)

	plan, err = upPlan(migrations, map[int64]appliedMigration{1: {version: 1}}, 0)
	require.NoError(t, err, "rows without checksum are trusted")
	require.Len(t, plan, 2)

	_, err = upPlan(migrations, map[int64]appliedMigration{2: {version: 2, checksum: "edited"}}, 0)
	require.ErrorIs(t, err, ErrMigrationDrift)
	require.ErrorContains(t, err, "0002_b")
}

func TestDownPlan(t *testing.T) {
	t.Parallel()

	migrations := []migration{{Version: 1, Name: "a"}, {Version: 2, Name: "b"}, {Version: 3, Name: "c"}}
	applied := map[int64]appliedMigration{1: {version: 1}, 2: {version: 2}, 3: {version: 3}}

	plan, err := downPlan(migrations, applied, 2)
	require.NoError(t, err)
	require.Equal(t, []migration{migrations[2], migrations[1]}, plan)

	plan, err = downPlan(migrations, applied, 100)
	require.NoError(t, err)
	require.Len(t, plan, 3)

	plan, err = downPlan(migrations, nil, 1)
	require.NoError(t, err)
	require.Empty(t, plan)

	_, err = downPlan(migrations, map[int64]appliedMigration{7: {version: 7}}, 1)
	require.ErrorContains(t, err, "unknown migration version 7")
}
