package tablekit

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// QuerySource is a schema-backed data source that orders, slices and counts
// natively. Ordering keys are record paths, prefixed with "-" for
// descending. A negative limit fetches everything past offset.
type QuerySource interface {
	Count(ctx context.Context) (int, error)
	Fetch(ctx context.Context, ordering []string, offset, limit int) ([]any, error)
}

// Options configures a Table.
//
// All fields are optional:
//   - OrderBy: initial order tokens such as []string{"name", "-date"}
//   - Strict: fail on order tokens that do not name a sortable column
//     instead of dropping them
//   - Sortable: table-wide sortable default for columns that did not set it
//   - Logger: defaults to a no-op logger
type Options struct {
	OrderBy  []string
	Strict   bool
	Sortable *bool
	Logger   *zap.Logger
}

// Table presents records through a ColumnSet in a given order.
//
// A static table (New) holds its records in memory and sorts them itself. A
// live table (NewLive) delegates ordering, slicing and counting to a
// QuerySource. Tables are not safe for concurrent use.
type Table struct {
	columns *ColumnSet
	orderBy OrderBy
	strict  bool
	logger  *zap.Logger
	eval    Evaluation

	records []any
	rows    []*Row
	source  QuerySource

	paginator Paginator
	page      *Page
}

// New creates a static table over records. The slice is borrowed, not copied.
func New(records []any, cols *ColumnSet, opts *Options) (*Table, error) {
	t, err := newTable(cols, opts, StaticEvaluation)
	if err != nil {
		return nil, err
	}
	t.records = records
	if err := t.SetOrderBy(orderTokens(opts)...); err != nil {
		return nil, err
	}
	return t, nil
}

// NewLive creates a table backed by a QuerySource.
func NewLive(source QuerySource, cols *ColumnSet, opts *Options) (*Table, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: query source is nil", ErrConfiguration)
	}
	t, err := newTable(cols, opts, LiveEvaluation)
	if err != nil {
		return nil, err
	}
	t.source = source
	if err := t.SetOrderBy(orderTokens(opts)...); err != nil {
		return nil, err
	}
	return t, nil
}

func newTable(cols *ColumnSet, opts *Options, eval Evaluation) (*Table, error) {
	if cols == nil {
		return nil, fmt.Errorf("%w: column set is nil", ErrConfiguration)
	}
	if opts == nil {
		opts = &Options{}
	}

	t := &Table{
		columns: cols.clone(),
		strict:  opts.Strict,
		logger:  opts.Logger,
		eval:    eval,
	}
	if opts.Sortable != nil {
		t.columns = t.columns.WithSortableDefault(*opts.Sortable)
	}
	if t.logger == nil {
		t.logger = zap.NewNop()
	}
	t.orderBy = OrderBy{cols: t.columns}
	return t, nil
}

func orderTokens(opts *Options) []string {
	if opts == nil {
		return nil
	}
	return opts.OrderBy
}

// SetOrderBy replaces the ordering. Invalid tokens are dropped unless the
// table is strict, in which case the ordering is left unchanged and the
// error is returned.
func (t *Table) SetOrderBy(tokens ...string) error {
	o, dropped, err := parseOrderBy(tokens, t.columns, t.strict)
	if err != nil {
		return err
	}
	if len(dropped) > 0 {
		t.logger.Debug("dropped invalid order tokens",
			zap.Strings("tokens", dropped),
			zap.String("order_by", o.String()))
	}
	t.orderBy = o
	t.page = nil
	if !t.IsLive() {
		t.materialize()
	}
	return nil
}

// SetOrderByString replaces the ordering from its wire form.
func (t *Table) SetOrderByString(raw string) error {
	return t.SetOrderBy(splitOrderBy(raw)...)
}

// OrderBy returns the current ordering.
func (t *Table) OrderBy() OrderBy { return t.orderBy }

// IsLive reports whether the table is backed by a QuerySource.
func (t *Table) IsLive() bool { return t.source != nil }

// Columns returns a copy of the table's columns.
func (t *Table) Columns() *ColumnSet { return t.columns.clone() }

// Column returns the named column bound to this table.
func (t *Table) Column(name string) (*BoundColumn, bool) {
	c, ok := t.columns.Get(name)
	if !ok {
		return nil, false
	}
	return &BoundColumn{table: t, column: c}, true
}

// BoundColumns returns every column bound to this table.
func (t *Table) BoundColumns() []*BoundColumn {
	return t.bind(t.columns.All())
}

// VisibleColumns returns the visible columns bound to this table.
func (t *Table) VisibleColumns() []*BoundColumn {
	return t.bind(t.columns.Visible())
}

func (t *Table) bind(cols []Column) []*BoundColumn {
	out := make([]*BoundColumn, len(cols))
	for i, c := range cols {
		out[i] = &BoundColumn{table: t, column: c}
	}
	return out
}

// NativeOrdering translates the ordering into QuerySource keys: the column
// path per entry, "-" prefixed when reversed.
func (t *Table) NativeOrdering() []string {
	keys := make([]string, 0, t.orderBy.Len())
	for _, e := range t.orderBy.entries {
		c, ok := t.columns.Get(e.Name)
		if !ok {
			continue
		}
		key := c.Path()
		if e.Reverse {
			key = "-" + key
		}
		keys = append(keys, key)
	}
	return keys
}

// Rows returns the table's row source. It always reflects the current
// ordering. Live row sources also implement Counter.
func (t *Table) Rows() RowSource {
	if t.IsLive() {
		return &liveRows{table: t}
	}
	return &staticRows{table: t}
}

// AllRows returns every row in order.
func (t *Table) AllRows(ctx context.Context) ([]*Row, error) {
	if t.IsLive() {
		return t.fetch(ctx, 0, -1)
	}
	return slices.Clone(t.rows), nil
}

// Paginate builds a paginator with factory (NewPaginator when nil) over the
// table's rows, keeps it, and loads the given page.
func (t *Table) Paginate(ctx context.Context, factory PaginatorFactory, perPage, page int, opts ...PaginatorOption) error {
	if factory == nil {
		factory = NewPaginator
	}
	p, err := factory(t.Rows(), perPage, opts...)
	if err != nil {
		return err
	}
	pg, err := p.Page(ctx, page)
	if err != nil {
		return err
	}
	t.paginator = p
	t.page = pg
	return nil
}

// Paginator returns the paginator built by Paginate, or nil.
func (t *Table) Paginator() Paginator { return t.paginator }

// Page returns the page loaded by Paginate. It is nil before Paginate and
// after the ordering changes.
func (t *Table) Page() *Page { return t.page }

// materialize wraps every record in a fresh Row and stable-sorts the rows by
// the ordering. Ties keep record order.
func (t *Table) materialize() {
	rows := make([]*Row, len(t.records))
	for i, rec := range t.records {
		rows[i] = newRow(t, rec)
	}

	var keys []Column
	var reverse []bool
	for _, e := range t.orderBy.entries {
		if c, ok := t.columns.Get(e.Name); ok {
			keys = append(keys, c)
			reverse = append(reverse, e.Reverse)
		}
	}
	if len(keys) > 0 {
		slices.SortStableFunc(rows, func(a, b *Row) int {
			for i, c := range keys {
				n := compareValues(a.value(c), b.value(c))
				if n == 0 {
					continue
				}
				if reverse[i] {
					return -n
				}
				return n
			}
			return 0
		})
		t.logger.Debug("sorted rows",
			zap.Int("rows", len(rows)),
			zap.String("order_by", t.orderBy.String()))
	}
	t.rows = rows
}

func (t *Table) fetch(ctx context.Context, offset, limit int) ([]*Row, error) {
	records, err := t.source.Fetch(ctx, t.NativeOrdering(), offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rows: %w", err)
	}
	rows := make([]*Row, len(records))
	for i, rec := range records {
		rows[i] = newRow(t, rec)
	}
	return rows, nil
}
