package tablekit

import (
	"github.com/Velocidex/ordereddict"
)

// Row is a lazy view of one record through a table's columns. Values are
// resolved on first access and kept for the Row's lifetime.
type Row struct {
	table  *Table
	record any
	values map[string]any
}

func newRow(t *Table, record any) *Row {
	return &Row{table: t, record: record, values: make(map[string]any)}
}

// Table returns the table the row belongs to.
func (r *Row) Table() *Table { return r.table }

// Record returns the underlying record.
func (r *Row) Record() any { return r.record }

// Get returns the value of the named column, hidden or not. Unknown names
// yield nil.
func (r *Row) Get(name string) any {
	c, ok := r.table.columns.Get(name)
	if !ok {
		return nil
	}
	return r.value(c)
}

// Values returns the visible column values in display order.
func (r *Row) Values() []any {
	cols := r.table.columns.Visible()
	values := make([]any, len(cols))
	for i, c := range cols {
		values[i] = r.value(c)
	}
	return values
}

// Dict returns the visible values keyed by column name, in display order.
func (r *Row) Dict() *ordereddict.Dict {
	d := ordereddict.NewDict()
	for _, c := range r.table.columns.Visible() {
		d.Set(c.Name(), r.value(c))
	}
	return d
}

func (r *Row) value(c Column) any {
	if v, ok := r.values[c.Name()]; ok {
		return v
	}
	// Paths are validated when the column is registered.
	v, volatile, err := resolve(r.record, c.Path(), c.Default(), r, r.table.eval)
	if err != nil {
		return nil
	}
	if !volatile {
		r.values[c.Name()] = v
	}
	return v
}
