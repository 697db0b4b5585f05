package formatter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tordrt/tablekit"
)

// JSONFormatter writes one JSON object per row, keyed by visible column
// name in column order
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// Format writes the table as JSON lines
func (f *JSONFormatter) Format(ctx context.Context, t *tablekit.Table) error {
	return format(ctx, t, f)
}

func (f *JSONFormatter) render(_ *tablekit.Table, v view) error {
	for _, r := range v.rows {
		data, err := json.Marshal(r.Dict())
		if err != nil {
			return fmt.Errorf("failed to encode row: %w", err)
		}
		_, _ = fmt.Fprintf(f.writer, "%s\n", data)
	}
	return nil
}
