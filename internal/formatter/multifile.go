package formatter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tordrt/tablekit"
)

// MultiFileFormatter writes every page of a paginated table to its own file
// in a directory, next to an overview file
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes one file per page. A table without a paginator is written
// as a single page.
func (f *MultiFileFormatter) Format(ctx context.Context, t *tablekit.Table) error {
	if _, err := newRenderer(f.OutputFormat, nil); err != nil {
		return err
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	views, err := f.pages(ctx, t)
	if err != nil {
		return err
	}

	if err := f.writeOverview(t, views); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for i, v := range views {
		if err := f.writePageFile(t, v, f.pageFileName(i+1)); err != nil {
			return fmt.Errorf("failed to write page %d: %w", i+1, err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) pages(ctx context.Context, t *tablekit.Table) ([]view, error) {
	p := t.Paginator()
	if p == nil {
		v, err := collect(ctx, t)
		if err != nil {
			return nil, err
		}
		return []view{v}, nil
	}

	numPages, err := p.NumPages(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]view, 0, numPages)
	for n := 1; n <= numPages; n++ {
		page, err := p.Page(ctx, n)
		if err != nil {
			return nil, err
		}
		views = append(views, view{rows: page.Items, page: page})
	}
	return views, nil
}

// writeOverview writes the overview file
func (f *MultiFileFormatter) writeOverview(t *tablekit.Table, views []view) error {
	filename := filepath.Join(f.OutputDir, "_overview"+f.overviewExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	names := make([]string, 0, len(t.VisibleColumns()))
	for _, c := range t.VisibleColumns() {
		names = append(names, c.VerboseName()+marker(c))
	}
	ordering := t.OrderBy().String()
	if ordering == "" {
		ordering = "(natural)"
	}

	if f.OutputFormat == formatMarkdown {
		_, _ = fmt.Fprintf(file, "# Table Overview\n\n")
		_, _ = fmt.Fprintf(file, "- **Columns:** %s\n", strings.Join(names, ", "))
		_, _ = fmt.Fprintf(file, "- **Order by:** `%s`\n\n", ordering)
		_, _ = fmt.Fprintf(file, "## Pages\n\n")
		for i, v := range views {
			_, _ = fmt.Fprintf(file, "- [%s](%s) (%s)\n", f.pageFileName(i+1), f.pageFileName(i+1), pageSummary(v))
		}
		return nil
	}

	_, _ = fmt.Fprintf(file, "TABLE OVERVIEW\n")
	_, _ = fmt.Fprintf(file, "COLUMNS: %s\n", strings.Join(names, ", "))
	_, _ = fmt.Fprintf(file, "ORDER BY: %s\n\n", ordering)
	for i, v := range views {
		_, _ = fmt.Fprintf(file, "%s (%s)\n", f.pageFileName(i+1), pageSummary(v))
	}
	return nil
}

// writePageFile writes a single page to its own file
func (f *MultiFileFormatter) writePageFile(t *tablekit.Table, v view, name string) error {
	file, err := os.Create(filepath.Join(f.OutputDir, name))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	r, err := newRenderer(f.OutputFormat, file)
	if err != nil {
		return err
	}
	return r.render(t, v)
}

func (f *MultiFileFormatter) pageFileName(n int) string {
	return fmt.Sprintf("page_%03d%s", n, f.getFileExtension())
}

func (f *MultiFileFormatter) overviewExtension() string {
	if f.OutputFormat == formatMarkdown {
		return ".md"
	}
	return ".txt"
}

func (f *MultiFileFormatter) getFileExtension() string {
	switch f.OutputFormat {
	case formatMarkdown:
		return ".md"
	case formatJSON:
		return ".jsonl"
	case formatMsgpack:
		return ".msgpack"
	default:
		return ".txt"
	}
}
