package tablekit

import (
	"fmt"
	"maps"
	"slices"
)

// ColumnSet is an ordered collection of uniquely named columns. Declaration
// order is display order.
type ColumnSet struct {
	columns []Column
	index   map[string]int
}

// NewColumnSet registers cols in order.
func NewColumnSet(cols ...Column) (*ColumnSet, error) {
	s := &ColumnSet{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := s.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register appends a column. It fails with ErrDuplicateColumn when the name
// is taken and with ErrEmptyPathSegment when the path is malformed.
func (s *ColumnSet) Register(c Column) error {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[c.Name()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name())
	}
	if _, err := SplitPath(c.Path()); err != nil {
		return fmt.Errorf("column %q: %w", c.Name(), err)
	}
	s.index[c.Name()] = len(s.columns)
	s.columns = append(s.columns, c)
	return nil
}

// Get looks a column up by name, hidden or not.
func (s *ColumnSet) Get(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// Len returns the number of columns.
func (s *ColumnSet) Len() int { return len(s.columns) }

// Names returns every column name in declaration order.
func (s *ColumnSet) Names() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name()
	}
	return names
}

// All returns every column.
func (s *ColumnSet) All() []Column {
	return slices.Clone(s.columns)
}

// Visible returns the columns shown by default.
func (s *ColumnSet) Visible() []Column {
	return s.filter(Column.Visible)
}

// Sortable returns the columns the table may be ordered by.
func (s *ColumnSet) Sortable() []Column {
	return s.filter(Column.Sortable)
}

// SortDirection implements Sortables: it reports the normal direction of a
// sortable column.
func (s *ColumnSet) SortDirection(name string) (Direction, bool) {
	c, ok := s.Get(name)
	if !ok || !c.Sortable() {
		return Asc, false
	}
	return c.Direction(), true
}

// Exclude returns a copy without the named columns.
func (s *ColumnSet) Exclude(names ...string) *ColumnSet {
	out := &ColumnSet{index: make(map[string]int, len(s.columns))}
	for _, c := range s.columns {
		if slices.Contains(names, c.Name()) {
			continue
		}
		out.index[c.Name()] = len(out.columns)
		out.columns = append(out.columns, c)
	}
	return out
}

// WithSortableDefault returns a copy where every column that did not set
// sortable explicitly takes the given default.
func (s *ColumnSet) WithSortableDefault(sortable bool) *ColumnSet {
	out := s.clone()
	for i, c := range out.columns {
		out.columns[i] = c.withSortableDefault(sortable)
	}
	return out
}

func (s *ColumnSet) clone() *ColumnSet {
	return &ColumnSet{
		columns: slices.Clone(s.columns),
		index:   maps.Clone(s.index),
	}
}

func (s *ColumnSet) filter(keep func(Column) bool) []Column {
	var out []Column
	for _, c := range s.columns {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
