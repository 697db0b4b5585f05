// Package config loads tablekit command line settings from defaults, an
// optional config file, TABLEKIT_ environment variables and flags.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "TABLEKIT_"

// DefaultFormat is the output format used when none is configured
const DefaultFormat = "text"

// Config holds the settings of one run
type Config struct {
	Source              SourceConfig `koanf:"source"`
	Schema              string       `koanf:"schema"`
	Table               string       `koanf:"table"`
	Columns             []string     `koanf:"columns"`
	Exclude             []string     `koanf:"exclude"`
	OrderBy             string       `koanf:"order_by"`
	StrictOrderBy       bool         `koanf:"strict_order_by"`
	Sortable            string       `koanf:"sortable"`
	PerPage             int          `koanf:"per_page"`
	Page                int          `koanf:"page"`
	Orphans             int          `koanf:"orphans"`
	AllowEmptyFirstPage bool         `koanf:"allow_empty_first_page"`
	Format              string       `koanf:"format"`
	Output              string       `koanf:"output"`
	OutputDir           string       `koanf:"output_dir"`
	Verbose             bool         `koanf:"verbose"`
}

// SourceConfig names where records come from. Exactly one must be set.
type SourceConfig struct {
	SQLite   string `koanf:"sqlite"`
	Postgres string `koanf:"postgres"`
	MySQL    string `koanf:"mysql"`
	File     string `koanf:"file"`
}

// flagKeys maps flags whose names differ from their config keys
var flagKeys = map[string]string{
	"sqlite":    "source.sqlite",
	"db-url":    "source.postgres",
	"mysql-url": "source.mysql",
	"file":      "source.file",
	"strict":    "strict_order_by",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > tablekit.yaml > tablekit.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"tablekit.yaml", "tablekit.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"format":                 DefaultFormat,
		"page":                   1,
		"per_page":               0,
		"orphans":                0,
		"allow_empty_first_page": true,
		"verbose":                false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// TABLEKIT_ORDER_BY -> order_by, TABLEKIT_SOURCE_SQLITE -> source.sqlite
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Columns = splitList(cfg.Columns)
	cfg.Exclude = splitList(cfg.Exclude)

	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if rest, ok := strings.CutPrefix(key, "source_"); ok {
		return "source." + rest
	}
	return key
}

// splitList flattens comma separated entries, as lists arrive from the
// environment as a single string
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// SortableDefault returns the table-wide sortable default, or nil when the
// columns decide for themselves.
func (c *Config) SortableDefault() (*bool, error) {
	if c.Sortable == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(c.Sortable)
	if err != nil {
		return nil, fmt.Errorf("invalid sortable value %q: %w", c.Sortable, err)
	}
	return &v, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	sources := 0
	for _, s := range []string{c.Source.SQLite, c.Source.Postgres, c.Source.MySQL, c.Source.File} {
		if s != "" {
			sources++
		}
	}
	if sources == 0 {
		return fmt.Errorf("one of --sqlite, --db-url, --mysql-url, or --file must be specified")
	}
	if sources > 1 {
		return fmt.Errorf("only one of --sqlite, --db-url, --mysql-url, or --file can be specified")
	}
	if c.Source.File == "" && c.Table == "" {
		return fmt.Errorf("--table is required for database sources")
	}
	if c.PerPage < 0 {
		return fmt.Errorf("per page must not be negative, got %d", c.PerPage)
	}
	if c.Page < 1 {
		return fmt.Errorf("page must be at least 1, got %d", c.Page)
	}
	if c.Orphans < 0 {
		return fmt.Errorf("orphans must not be negative, got %d", c.Orphans)
	}
	if c.Output != "" && c.OutputDir != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}
	if _, err := c.SortableDefault(); err != nil {
		return err
	}
	return nil
}

// DatabaseURL returns the connection URL of a database source, or "" for a
// file source.
func (c *Config) DatabaseURL() string {
	switch {
	case c.Source.SQLite != "":
		return "sqlite://" + c.Source.SQLite
	case c.Source.Postgres != "":
		return c.Source.Postgres
	case c.Source.MySQL != "":
		if strings.HasPrefix(c.Source.MySQL, "mysql://") {
			return c.Source.MySQL
		}
		return "mysql://" + c.Source.MySQL
	default:
		return ""
	}
}
