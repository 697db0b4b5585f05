package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tordrt/tablekit/internal/config"
)

const countriesYAML = `
records:
  - {name: Germany, code: DE, population: 83}
  - {name: France, code: FR, population: 68}
  - {name: Spain, code: ES, population: 48}
  - {name: Italy, code: IT, population: 59, capital: Rome}
`

func writeRecords(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "countries.yaml")
	require.NoError(t, os.WriteFile(path, []byte(countriesYAML), 0644))
	return path
}

func TestRecordKeys(t *testing.T) {
	tests := []struct {
		name    string
		records []any
		want    []string
	}{
		{
			name:    "union of keys sorted",
			records: []any{map[string]any{"b": 1, "a": 2}, map[string]any{"c": 3, "a": 4}},
			want:    []string{"a", "b", "c"},
		},
		{
			name:    "non mapping records are skipped",
			records: []any{"plain", 42, map[string]any{"name": "x"}},
			want:    []string{"name"},
		},
		{
			name:    "no records",
			records: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recordKeys(tt.records))
		})
	}
}

func TestBuildTableFromFile(t *testing.T) {
	cfg := &config.Config{
		Source:  config.SourceConfig{File: writeRecords(t)},
		Exclude: []string{"capital"},
		OrderBy: "-population,bogus",
		Page:    1,
	}

	table, closeSource, err := buildTable(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, closeSource())

	assert.False(t, table.IsLive())
	assert.Equal(t, []string{"code", "name", "population"}, table.Columns().Names())
	assert.Equal(t, "-population", table.OrderBy().String(), "invalid tokens are dropped")

	rows, err := table.AllRows(context.Background())
	require.NoError(t, err)
	var names []string
	for _, r := range rows {
		names = append(names, r.Get("name").(string))
	}
	assert.Equal(t, []string{"Germany", "France", "Italy", "Spain"}, names)
}

func TestBuildTableExplicitColumns(t *testing.T) {
	cfg := &config.Config{
		Source:   config.SourceConfig{File: writeRecords(t)},
		Columns:  []string{"name", "capital"},
		OrderBy:  "name",
		Sortable: "false",
		Page:     1,
	}

	table, _, err := buildTable(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "capital"}, table.Columns().Names())
	assert.True(t, table.OrderBy().IsEmpty(), "no column is sortable")
}

func TestBuildTableStrictOrdering(t *testing.T) {
	cfg := &config.Config{
		Source:        config.SourceConfig{File: writeRecords(t)},
		OrderBy:       "bogus",
		StrictOrderBy: true,
		Page:          1,
	}

	_, _, err := buildTable(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "invalid order by")
}

func TestBuildTableMissingFile(t *testing.T) {
	cfg := &config.Config{
		Source: config.SourceConfig{File: filepath.Join(t.TempDir(), "missing.yaml")},
		Page:   1,
	}

	_, _, err := buildTable(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "failed to open records file")
}

func TestRun(t *testing.T) {
	t.Chdir(t.TempDir())
	out := filepath.Join(t.TempDir(), "out.md")

	rootCmd.SetArgs([]string{
		"--file", writeRecords(t),
		"--columns", "name,population",
		"--order-by", "name",
		"--per-page", "3",
		"--page", "2",
		"-f", "markdown",
		"-o", out,
	})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	got := string(data)
	assert.True(t, strings.HasPrefix(got, "| Name ▲ | Population |\n"))
	assert.Contains(t, got, "| Spain | 48 |")
	assert.NotContains(t, got, "Germany")
	assert.Contains(t, got, "_page 2 of 2, rows 4-4 of 4_")
}
