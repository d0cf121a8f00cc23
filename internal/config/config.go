// Package config loads the rowsync TOML configuration: the database
// path and a set of named query specifications.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/rowsync-labs/rowsync-cli/internal/core/domain"
)

// DefaultFileName is the config file looked up in the working directory
// when no --config flag is given.
const DefaultFileName = "rowsync.toml"

// Query is one named query entry of the config file.
type Query struct {
	Table   string   `toml:"table"`
	Key     string   `toml:"key"`
	Columns []string `toml:"columns"`
	Where   string   `toml:"where"`
	OrderBy string   `toml:"order_by"`
}

// Config is the parsed configuration file.
type Config struct {
	// Database is the SQLite file queries run against.
	Database string `toml:"database"`

	// Queries maps names to query specifications.
	Queries map[string]Query `toml:"queries"`
}

// Load parses the TOML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return &cfg, nil
}

// LoadDefault loads DefaultFileName from the working directory if it
// exists. A missing file yields an empty config, not an error.
func LoadDefault() (*Config, error) {
	if _, err := os.Stat(DefaultFileName); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return Load(DefaultFileName)
}

// QuerySpec resolves a named query into a domain spec. It returns an
// error wrapping domain.ErrUnknownQuery when the name is not configured.
func (c *Config) QuerySpec(name string) (domain.QuerySpec, error) {
	q, ok := c.Queries[name]
	if !ok {
		return domain.QuerySpec{}, fmt.Errorf("%w: %q (have: %v)", domain.ErrUnknownQuery, name, c.QueryNames())
	}
	spec := domain.QuerySpec{
		Table:   q.Table,
		Key:     q.Key,
		Columns: q.Columns,
		Where:   q.Where,
		OrderBy: q.OrderBy,
	}
	spec.Normalize()
	return spec, nil
}

// QueryNames returns the configured query names, sorted.
func (c *Config) QueryNames() []string {
	names := make([]string, 0, len(c.Queries))
	for name := range c.Queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
