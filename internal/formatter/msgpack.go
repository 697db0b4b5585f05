package formatter

import (
	"context"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tordrt/tablekit"
)

// Record types in a msgpack stream
const (
	RecordHeader = "HDR"
	RecordRow    = "ROW"
)

// Record is one msgpack encoded line: a header naming the visible columns
// followed by one record per row
type Record struct {
	Type   string   `json:"typ" msgpack:"typ"`
	Page   int      `json:"pag" msgpack:"pag"`
	Values []string `json:"val" msgpack:"val"`
}

// MsgpackFormatter writes a stream of msgpack encoded records
type MsgpackFormatter struct {
	writer io.Writer
}

// NewMsgpackFormatter creates a new msgpack formatter
func NewMsgpackFormatter(w io.Writer) *MsgpackFormatter {
	return &MsgpackFormatter{writer: w}
}

// Format writes the table as msgpack records
func (f *MsgpackFormatter) Format(ctx context.Context, t *tablekit.Table) error {
	return format(ctx, t, f)
}

func (f *MsgpackFormatter) render(t *tablekit.Table, v view) error {
	cols := t.VisibleColumns()
	page := 0
	if v.page != nil {
		page = v.page.Number
	}

	if err := f.emit(Record{Type: RecordHeader, Page: page, Values: headers(cols)}); err != nil {
		return err
	}
	for _, r := range v.rows {
		if err := f.emit(Record{Type: RecordRow, Page: page, Values: cells(cols, r)}); err != nil {
			return err
		}
	}
	return nil
}

func (f *MsgpackFormatter) emit(rec Record) error {
	data, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", rec.Type, err)
	}
	if _, err := f.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write %s record: %w", rec.Type, err)
	}
	return nil
}
