package setup

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/saravanapriyaa21/take-it-right/internal/catalog"
	"github.com/saravanapriyaa21/take-it-right/internal/reference"
)

func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer, string) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	dir := t.TempDir()
	out := &bytes.Buffer{}
	cli := NewCLI(out, logger, filepath.Join(dir, "catalog.db"), filepath.Join(dir, "exports"))
	cli.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return cli, out, dir
}

func writeDefaultYAML(t *testing.T, dir string) string {
	t.Helper()
	doc, err := reference.DefaultDocument()
	require.NoError(t, err)
	data, err := yaml.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(dir, "reference.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestCLI_Help(t *testing.T) {
	cli, out, _ := newTestCLI(t)

	require.NoError(t, cli.Run(context.Background(), nil))
	assert.Contains(t, out.String(), "Commands:")

	out.Reset()
	require.NoError(t, cli.Run(context.Background(), []string{"frobnicate"}))
	assert.Contains(t, out.String(), "Unknown command: frobnicate")
}

func TestCLI_ImportStatusExport(t *testing.T) {
	cli, out, dir := newTestCLI(t)
	ctx := context.Background()
	path := writeDefaultYAML(t, dir)

	defaults, err := reference.Default()
	require.NoError(t, err)

	require.NoError(t, cli.Run(ctx, []string{"import", path}))
	assert.Contains(t, out.String(), "✓ Imported")
	assert.Contains(t, out.String(), defaults.Fingerprint())

	out.Reset()
	require.NoError(t, cli.Run(ctx, []string{"status"}))
	assert.Contains(t, out.String(), "Backend:  sqlite")
	assert.Contains(t, out.String(), "Fingerprint: "+defaults.Fingerprint())
	assert.NotContains(t, out.String(), "Issues:")

	out.Reset()
	require.NoError(t, cli.Run(ctx, []string{"export"}))
	exported := filepath.Join(dir, "exports", "catalog-20260102-030405.json")
	assert.Contains(t, out.String(), exported)

	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	var export catalog.CatalogExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, defaults.Fingerprint(), export.Fingerprint)
}

func TestCLI_StatusEmptyCatalog(t *testing.T) {
	cli, out, _ := newTestCLI(t)

	require.NoError(t, cli.Run(context.Background(), []string{"status"}))
	assert.Contains(t, out.String(), "Catalog is empty")
}

func TestCLI_SeedExplicitTarget(t *testing.T) {
	cli, out, dir := newTestCLI(t)
	ctx := context.Background()
	target := filepath.Join(dir, "other", "seeded.db")

	require.NoError(t, cli.Run(ctx, []string{"seed", "--sqlite", target}))
	assert.Contains(t, out.String(), "✓ Seeded default catalog")

	store, err := catalog.NewSQLiteStore(target)
	require.NoError(t, err)
	defer store.Close()
	tables, err := catalog.LoadTables(ctx, store)
	require.NoError(t, err)
	assert.Contains(t, tables.Ingredients(), "paracetamol")

	_, err = os.Stat(filepath.Join(dir, "catalog.db"))
	assert.True(t, os.IsNotExist(err), "default store should be untouched")
}

func TestCLI_ImportInvalidLeavesStoreEmpty(t *testing.T) {
	cli, _, dir := newTestCLI(t)
	ctx := context.Background()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: {}\n"), 0o600))

	err := cli.Run(ctx, []string{"import", path})
	assert.ErrorIs(t, err, reference.ErrInvalidTables)

	store, err := catalog.NewSQLiteStore(filepath.Join(dir, "catalog.db"))
	require.NoError(t, err)
	defer store.Close()
	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Counts{}, counts)
}

func TestCLI_Validate(t *testing.T) {
	cli, out, dir := newTestCLI(t)
	ctx := context.Background()

	require.NoError(t, cli.Run(ctx, []string{"validate", writeDefaultYAML(t, dir)}))
	assert.Contains(t, out.String(), "is valid")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("unknown_section: 1\n"), 0o600))
	out.Reset()
	assert.Error(t, cli.Run(ctx, []string{"validate", bad}))
	assert.Contains(t, out.String(), "is invalid")

	assert.Error(t, cli.Run(ctx, []string{"validate"}))
}

func TestCLI_TargetErrors(t *testing.T) {
	cli, _, _ := newTestCLI(t)
	ctx := context.Background()

	assert.Error(t, cli.Run(ctx, []string{"status", "--sqlite"}))
	assert.Error(t, cli.Run(ctx, []string{"status", "--postgres"}))
	assert.Error(t, cli.Run(ctx, []string{"import"}))

	_, err := OpenStore(ctx, Target{SQLitePath: "a.db", PostgresURL: "postgres://x"}, cli.logger)
	assert.Error(t, err)
	_, err = OpenStore(ctx, Target{}, cli.logger)
	assert.Error(t, err)
}

func TestTargetKind(t *testing.T) {
	assert.Equal(t, "sqlite", Target{SQLitePath: "x"}.Kind())
	assert.Equal(t, "postgres", Target{PostgresURL: "postgres://x"}.Kind())
}
