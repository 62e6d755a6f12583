package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add clients table", "add_clients_table"},
		{"Add-Clients-Table", "add_clients_table"},
		{"ADD_CLIENTS_TABLE", "add_clients_table"},
		{"add__api__logs", "add_api_logs"},
		{"Add Results 123", "add_results_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add clients table", "Client registry schema")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add clients table")
	assert.Contains(t, string(up), "Client registry schema")
	assert.Contains(t, string(up), "Write your UP migration SQL here")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
	assert.Contains(t, string(down), "Write your DOWN migration SQL here")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nested, "init", "initial schema")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"000001_init_schema.up.sql",
		"000001_init_schema.down.sql",
		"000002_add_uploads.up.sql",
		"000002_add_uploads.down.sql",
		"README.md",
		".gitkeep",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- test"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.up.sql"), 0755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init_schema", "000002_add_uploads"}, migrations)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
