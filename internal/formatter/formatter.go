package formatter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/tablekit"
)

const (
	formatText     = "text"
	formatTab      = "tab"
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatMsgpack  = "msgpack"
)

// Formats lists the supported output formats
var Formats = []string{formatText, formatTab, formatMarkdown, formatJSON, formatMsgpack}

// Formatter writes a table's current page, or all of its rows when it has
// not been paginated
type Formatter interface {
	Format(ctx context.Context, t *tablekit.Table) error
}

// view is the slice of a table one render covers
type view struct {
	rows []*tablekit.Row
	page *tablekit.Page
}

type renderer interface {
	render(t *tablekit.Table, v view) error
}

// New returns the formatter for format writing to w
func New(format string, w io.Writer) (Formatter, error) {
	r, err := newRenderer(format, w)
	if err != nil {
		return nil, err
	}
	return single{r}, nil
}

func newRenderer(format string, w io.Writer) (renderer, error) {
	switch format {
	case formatText, "":
		return NewTextFormatter(w), nil
	case formatTab:
		return NewTabFormatter(w), nil
	case formatMarkdown:
		return NewMarkdownFormatter(w), nil
	case formatJSON:
		return NewJSONFormatter(w), nil
	case formatMsgpack:
		return NewMsgpackFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be one of %s)", format, strings.Join(Formats, ", "))
	}
}

type single struct {
	r renderer
}

func (s single) Format(ctx context.Context, t *tablekit.Table) error {
	return format(ctx, t, s.r)
}

func format(ctx context.Context, t *tablekit.Table, r renderer) error {
	v, err := collect(ctx, t)
	if err != nil {
		return err
	}
	return r.render(t, v)
}

func collect(ctx context.Context, t *tablekit.Table) (view, error) {
	if p := t.Page(); p != nil {
		return view{rows: p.Items, page: p}, nil
	}
	rows, err := t.AllRows(ctx)
	if err != nil {
		return view{}, fmt.Errorf("failed to load rows: %w", err)
	}
	return view{rows: rows}, nil
}

// cells returns the row's visible values as text
func cells(cols []*tablekit.BoundColumn, r *tablekit.Row) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = formatValue(r.Get(c.Name()))
	}
	return out
}

func headers(cols []*tablekit.BoundColumn) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.VerboseName()
	}
	return out
}

// marker shows how the table is ordered by a column
func marker(c *tablekit.BoundColumn) string {
	switch {
	case c.IsOrderedNormal():
		return " ▲"
	case c.IsOrderedReversed():
		return " ▼"
	default:
		return ""
	}
}

func formatValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// pageSummary describes the rows a view holds
func pageSummary(v view) string {
	if v.page == nil {
		return fmt.Sprintf("%d rows", len(v.rows))
	}
	p := v.page
	return fmt.Sprintf("page %d of %d, rows %d-%d of %d", p.Number, p.NumPages(), p.StartIndex(), p.EndIndex(), p.Count())
}
