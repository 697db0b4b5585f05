package formatter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/tablekit"
)

// MarkdownFormatter formats rows as a markdown table followed by the sort
// link of every sortable column
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the table in markdown format
func (f *MarkdownFormatter) Format(ctx context.Context, t *tablekit.Table) error {
	return format(ctx, t, f)
}

func (f *MarkdownFormatter) render(t *tablekit.Table, v view) error {
	cols := t.VisibleColumns()

	header := make([]string, len(cols))
	seps := make([]string, len(cols))
	for i, c := range cols {
		header[i] = escapeCell(c.VerboseName()) + marker(c)
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(f.writer, "| %s |\n", strings.Join(header, " | "))
	_, _ = fmt.Fprintf(f.writer, "| %s |\n", strings.Join(seps, " | "))

	for _, r := range v.rows {
		values := cells(cols, r)
		for i, s := range values {
			values[i] = escapeCell(s)
		}
		_, _ = fmt.Fprintf(f.writer, "| %s |\n", strings.Join(values, " | "))
	}
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintf(f.writer, "_%s_\n", pageSummary(v))

	f.formatSortLinks(cols)
	return nil
}

// formatSortLinks lists the ordering a click on each sortable header selects
func (f *MarkdownFormatter) formatSortLinks(cols []*tablekit.BoundColumn) {
	var sortable []*tablekit.BoundColumn
	for _, c := range cols {
		if c.Sortable() {
			sortable = append(sortable, c)
		}
	}
	if len(sortable) == 0 {
		return
	}

	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintln(f.writer, "### Sort links")
	_, _ = fmt.Fprintln(f.writer)
	for _, c := range sortable {
		_, _ = fmt.Fprintf(f.writer, "- **%s:** `?sort=%s`\n", c.VerboseName(), c.OrderByToggled())
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
