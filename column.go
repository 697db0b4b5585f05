package tablekit

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Direction is the sort sense a column considers normal.
type Direction int

const (
	// Asc sorts smallest first.
	Asc Direction = iota
	// Desc sorts largest first.
	Desc
)

// String returns the string representation of a Direction.
func (d Direction) String() string {
	switch d {
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// ParseDirection parses "asc" or "desc" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return Asc, fmt.Errorf("%w: unknown direction %q", ErrConfiguration, s)
	}
}

// Column is a declarative description of one table field. Columns are values:
// options produce a new Column, and a ColumnSet keeps its own copy.
type Column struct {
	name        string
	path        string
	verboseName string
	sortable    bool
	sortableSet bool
	visible     bool
	def         any
	direction   Direction
}

// ColumnOption configures a Column in NewColumn.
type ColumnOption func(*Column)

// NewColumn creates a sortable, visible, ascending column whose path is its name.
func NewColumn(name string, opts ...ColumnOption) Column {
	c := Column{
		name:     name,
		sortable: true,
		visible:  true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithPath sets the record path the column reads, e.g. "country.name".
func WithPath(path string) ColumnOption {
	return func(c *Column) { c.path = path }
}

// WithVerboseName sets the human readable label.
func WithVerboseName(label string) ColumnOption {
	return func(c *Column) { c.verboseName = label }
}

// WithSortable marks the column sortable or not. An explicit setting is never
// overridden by the table-level default.
func WithSortable(sortable bool) ColumnOption {
	return func(c *Column) {
		c.sortable = sortable
		c.sortableSet = true
	}
}

// WithVisible shows or hides the column in default iteration.
func WithVisible(visible bool) ColumnOption {
	return func(c *Column) { c.visible = visible }
}

// WithDefault sets the value used when the path resolves to nothing.
// A Computed default is invoked with the row being rendered.
func WithDefault(def any) ColumnOption {
	return func(c *Column) { c.def = def }
}

// WithDirection sets the sort sense the column considers normal.
func WithDirection(d Direction) ColumnOption {
	return func(c *Column) { c.direction = d }
}

// Name returns the column's key within its ColumnSet.
func (c Column) Name() string { return c.name }

// Path returns the record path, which defaults to the name.
func (c Column) Path() string {
	if c.path == "" {
		return c.name
	}
	return c.path
}

// VerboseName returns the label, derived from the name when unset.
func (c Column) VerboseName() string {
	if c.verboseName == "" {
		return deriveVerboseName(c.name)
	}
	return c.verboseName
}

// Sortable reports whether the table may be ordered by this column.
func (c Column) Sortable() bool { return c.sortable }

// Visible reports whether the column is part of default iteration.
func (c Column) Visible() bool { return c.visible }

// Default returns the fallback value (possibly a Computed).
func (c Column) Default() any { return c.def }

// Direction returns the column's normal sort sense.
func (c Column) Direction() Direction { return c.direction }

func (c Column) withSortableDefault(sortable bool) Column {
	if !c.sortableSet {
		c.sortable = sortable
	}
	return c
}

// deriveVerboseName turns "first_name" into "First name".
func deriveVerboseName(name string) string {
	s := strings.ReplaceAll(name, "_", " ")
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
