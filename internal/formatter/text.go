package formatter

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tordrt/tablekit"
)

// TextFormatter formats rows as a boxed text table
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the table as text
func (f *TextFormatter) Format(ctx context.Context, t *tablekit.Table) error {
	return format(ctx, t, f)
}

func (f *TextFormatter) render(t *tablekit.Table, v view) error {
	if len(v.rows) == 0 {
		_, _ = fmt.Fprintf(f.writer, "(%s)\n", pageSummary(v))
		return nil
	}

	cols := t.VisibleColumns()

	tw := table.NewWriter()
	tw.SetOutputMirror(f.writer)
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)

	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c.VerboseName() + marker(c)
	}
	tw.AppendHeader(header)

	for _, r := range v.rows {
		values := cells(cols, r)
		row := make(table.Row, len(values))
		for i, s := range values {
			row[i] = s
		}
		tw.AppendRow(row)
	}

	tw.Render()
	_, _ = fmt.Fprintf(f.writer, "(%s)\n", pageSummary(v))
	return nil
}
