package formatter

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	reptext "github.com/radiochild/utils/text"

	"github.com/tordrt/tablekit"
)

// TabFormatter formats rows as aligned, tab separated columns
type TabFormatter struct {
	writer io.Writer
}

// NewTabFormatter creates a new tab formatter
func NewTabFormatter(w io.Writer) *TabFormatter {
	return &TabFormatter{writer: w}
}

// Format writes the table as aligned columns
func (f *TabFormatter) Format(ctx context.Context, t *tablekit.Table) error {
	return format(ctx, t, f)
}

func (f *TabFormatter) render(t *tablekit.Table, v view) error {
	cols := t.VisibleColumns()
	titles := headers(cols)

	// minwidth, tabwidth, padding, padChar
	tw := tabwriter.NewWriter(f.writer, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "%s\t\n", reptext.TabString(titles))
	_, _ = fmt.Fprintf(tw, "%s\t\n", reptext.TabString(reptext.AllToChar(titles, '-')))
	for _, r := range v.rows {
		_, _ = fmt.Fprintf(tw, "%s\t\n", reptext.TabString(cells(cols, r)))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush rows: %w", err)
	}

	_, _ = fmt.Fprintf(f.writer, "(%s)\n", pageSummary(v))
	return nil
}
