package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowsync-labs/rowsync-cli/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rowsync.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
database = "tasks.db"

[queries.open]
table = "tasks"
where = "done = 0"
order_by = "created_at DESC"

[queries.all]
table = "tasks"
key = "uuid"
columns = ["uuid", "title"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tasks.db", cfg.Database)
	assert.Equal(t, []string{"all", "open"}, cfg.QueryNames())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeConfig(t, `database = [unclosed`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestQuerySpec(t *testing.T) {
	cfg := &Config{
		Queries: map[string]Query{
			"open": {Table: "tasks", Where: "done = 0", OrderBy: "id"},
		},
	}

	spec, err := cfg.QuerySpec("open")
	require.NoError(t, err)
	assert.Equal(t, "tasks", spec.Table)
	assert.Equal(t, "id", spec.Key, "key defaults via Normalize")
	assert.Equal(t, "done = 0", spec.Where)

	_, err = cfg.QuerySpec("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownQuery)
}
