package formatter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tordrt/tablekit"
)

func countryTable(t *testing.T, orderBy ...string) *tablekit.Table {
	t.Helper()
	cols, err := tablekit.NewColumnSet(
		tablekit.NewColumn("name"),
		tablekit.NewColumn("population", tablekit.WithSortable(false)),
		tablekit.NewColumn("code", tablekit.WithVisible(false)),
	)
	require.NoError(t, err)

	records := []any{
		map[string]any{"name": "Germany", "population": 80, "code": "DE"},
		map[string]any{"name": "France", "population": 64, "code": "FR"},
		map[string]any{"name": "Spain", "population": nil, "code": "ES"},
	}
	tbl, err := tablekit.New(records, cols, &tablekit.Options{OrderBy: orderBy})
	require.NoError(t, err)
	return tbl
}

func TestNewFormatter(t *testing.T) {
	for _, name := range Formats {
		f, err := New(name, io.Discard)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}

	_, err := New("xml", io.Discard)
	assert.ErrorContains(t, err, "invalid format: xml")
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(&buf).Format(context.Background(), countryTable(t, "-name")))

	out := buf.String()
	assert.Contains(t, out, "Name ▼")
	assert.Contains(t, out, "Population")
	assert.NotContains(t, out, "Code", "hidden columns are not rendered")
	assert.NotContains(t, out, "DE")
	assert.Less(t, strings.Index(out, "Spain"), strings.Index(out, "Germany"))
	assert.Less(t, strings.Index(out, "Germany"), strings.Index(out, "France"))
	assert.True(t, strings.HasSuffix(out, "(3 rows)\n"))
}

func TestTextFormatterEmpty(t *testing.T) {
	cols, err := tablekit.NewColumnSet(tablekit.NewColumn("name"))
	require.NoError(t, err)
	tbl, err := tablekit.New(nil, cols, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(&buf).Format(context.Background(), tbl))
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestFormatterRendersCurrentPage(t *testing.T) {
	tbl := countryTable(t, "name")
	require.NoError(t, tbl.Paginate(context.Background(), nil, 2, 2))

	var buf bytes.Buffer
	f, err := New("text", &buf)
	require.NoError(t, err)
	require.NoError(t, f.Format(context.Background(), tbl))

	out := buf.String()
	assert.Contains(t, out, "Spain")
	assert.NotContains(t, out, "France")
	assert.Contains(t, out, "(page 2 of 2, rows 3-3 of 3)")
}

func TestTabFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTabFormatter(&buf).Format(context.Background(), countryTable(t, "name")))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "Name")
	assert.Contains(t, lines[0], "Population")
	assert.Contains(t, lines[1], "----")
	assert.Contains(t, lines[2], "France")
	assert.Contains(t, lines[2], "64")
	assert.Contains(t, lines[4], "Spain")
	assert.Equal(t, "(3 rows)", lines[5])
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf).Format(context.Background(), countryTable(t, "name")))

	want := strings.Join([]string{
		"| Name ▲ | Population |",
		"| --- | --- |",
		"| France | 64 |",
		"| Germany | 80 |",
		"| Spain |  |",
		"",
		"_3 rows_",
		"",
		"### Sort links",
		"",
		"- **Name:** `?sort=-name`",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestMarkdownEscapesCells(t *testing.T) {
	cols, err := tablekit.NewColumnSet(tablekit.NewColumn("note", tablekit.WithSortable(false)))
	require.NoError(t, err)
	tbl, err := tablekit.New([]any{map[string]any{"note": "a|b\nc"}}, cols, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf).Format(context.Background(), tbl))
	assert.Contains(t, buf.String(), `| a\|b c |`)
	assert.NotContains(t, buf.String(), "Sort links")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).Format(context.Background(), countryTable(t, "-name")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, map[string]any{"name": "Spain", "population": nil}, first)

	var last map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.Equal(t, "France", last["name"])
	assert.EqualValues(t, 64, last["population"])
	assert.Less(t, strings.Index(lines[2], `"name"`), strings.Index(lines[2], `"population"`), "keys keep column order")
}

func TestMsgpackFormatter(t *testing.T) {
	tbl := countryTable(t, "name")
	require.NoError(t, tbl.Paginate(context.Background(), nil, 2, 1))

	var buf bytes.Buffer
	require.NoError(t, NewMsgpackFormatter(&buf).Format(context.Background(), tbl))

	var records []Record
	dec := msgpack.NewDecoder(&buf)
	for {
		var rec Record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		records = append(records, rec)
	}

	assert.Equal(t, []Record{
		{Type: RecordHeader, Page: 1, Values: []string{"Name", "Population"}},
		{Type: RecordRow, Page: 1, Values: []string{"France", "64"}},
		{Type: RecordRow, Page: 1, Values: []string{"Germany", "80"}},
	}, records)
}

func TestMultiFileFormatter(t *testing.T) {
	dir := t.TempDir()
	tbl := countryTable(t, "name")
	require.NoError(t, tbl.Paginate(context.Background(), nil, 2, 1))

	require.NoError(t, NewMultiFileFormatter(dir, "markdown").Format(context.Background(), tbl))

	overview, err := os.ReadFile(filepath.Join(dir, "_overview.md"))
	require.NoError(t, err)
	assert.Contains(t, string(overview), "- **Order by:** `name`")
	assert.Contains(t, string(overview), "[page_001.md](page_001.md) (page 1 of 2, rows 1-2 of 3)")
	assert.Contains(t, string(overview), "[page_002.md](page_002.md) (page 2 of 2, rows 3-3 of 3)")

	first, err := os.ReadFile(filepath.Join(dir, "page_001.md"))
	require.NoError(t, err)
	assert.Contains(t, string(first), "| France | 64 |")
	assert.NotContains(t, string(first), "Spain")

	second, err := os.ReadFile(filepath.Join(dir, "page_002.md"))
	require.NoError(t, err)
	assert.Contains(t, string(second), "| Spain |  |")
}

func TestMultiFileFormatterWithoutPaginator(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewMultiFileFormatter(dir, "json").Format(context.Background(), countryTable(t)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"_overview.txt", "page_001.jsonl"}, names)

	overview, err := os.ReadFile(filepath.Join(dir, "_overview.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(overview), "ORDER BY: (natural)")
	assert.Contains(t, string(overview), "page_001.jsonl (3 rows)")
}

func TestMultiFileFormatterRejectsUnknownFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	err := NewMultiFileFormatter(dir, "xml").Format(context.Background(), countryTable(t))
	assert.ErrorContains(t, err, "invalid format")
	assert.NoDirExists(t, dir)
}
