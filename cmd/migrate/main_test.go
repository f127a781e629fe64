package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

type fakeMigrator struct {
	upSteps   []int
	downSteps []int
	plan      []postgres.MigrationInfo
	upErr     error
	statusErr error
}

func (f *fakeMigrator) MigrateUp(_ context.Context, steps int) error {
	f.upSteps = append(f.upSteps, steps)
	return f.upErr
}

func (f *fakeMigrator) MigrateDown(_ context.Context, steps int) error {
	f.downSteps = append(f.downSteps, steps)
	return nil
}

func (f *fakeMigrator) MigrationStatus(context.Context) (int64, int, error) {
	return 3, 3, f.statusErr
}

func (f *fakeMigrator) MigrationPlan(context.Context) ([]postgres.MigrationInfo, error) {
	return f.plan, nil
}

func lookup(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-direction=DOWN", "-steps=2", "-dsn= postgres://flag "}, lookup(nil))
	require.NoError(t, err)
	require.Equal(t, options{direction: "down", steps: 2, dsn: "postgres://flag"}, opts)

	opts, err = parseFlags(nil, lookup(map[string]string{envPostgresDSN: "postgres://env"}))
	require.NoError(t, err)
	require.Equal(t, "up", opts.direction)
	require.Equal(t, "postgres://env", opts.dsn)

	_, err = parseFlags([]string{"-direction=status"}, lookup(nil))
	require.ErrorIs(t, err, errDSNRequired)

	_, err = parseFlags([]string{"-direction=sideways", "-dsn=x"}, lookup(nil))
	require.ErrorContains(t, err, "unsupported direction")

	_, err = parseFlags([]string{"-steps=many"}, lookup(nil))
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	m := &fakeMigrator{plan: []postgres.MigrationInfo{
		{Version: 1, Name: "orders", Applied: true},
		{Version: 2, Name: "idempotency_keys", Applied: false},
	}}
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), m, options{direction: "up"}, &out))
	require.NoError(t, run(context.Background(), m, options{direction: "down"}, &out))
	require.NoError(t, run(context.Background(), m, options{direction: "status"}, &out))

	require.Equal(t, []int{0}, m.upSteps)
	require.Equal(t, []int{1}, m.downSteps)

	output := out.String()
	require.Contains(t, output, "migrate up ok: version=3 applied=3")
	require.Contains(t, output, "0001 orders")
	require.Contains(t, output, "applied")
	require.Contains(t, output, "0002 idempotency_keys")
	require.Contains(t, output, "pending")
}

func TestRun_Errors(t *testing.T) {
	err := run(context.Background(), &fakeMigrator{upErr: errors.New("lock timeout")}, options{direction: "up"}, &bytes.Buffer{})
	require.ErrorContains(t, err, "migrate up failed: lock timeout")

	err = run(context.Background(), &fakeMigrator{statusErr: errors.New("no table")}, options{direction: "down"}, &bytes.Buffer{})
	require.ErrorContains(t, err, "migration status failed")
}

func TestRun_Postgres(t *testing.T) {
	dsn := strings.TrimSpace(os.Getenv("STOREFRONT_TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("STOREFRONT_TEST_POSTGRES_DSN is not set")
	}

	store, err := postgres.Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), store, options{direction: "up"}, &out))
	require.NoError(t, run(context.Background(), store, options{direction: "status"}, &out))
	require.Contains(t, out.String(), "applied")
}

func TestMainMissingDSNExits(t *testing.T) {
	if os.Getenv("MIGRATE_TEST_EXIT") == "1" {
		os.Args = []string{"migrate", "-direction=status"}
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestMainMissingDSNExits")
	cmd.Env = append(os.Environ(), "MIGRATE_TEST_EXIT=1", envPostgresDSN+"=")
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.NotZero(t, exitErr.ExitCode())
}
