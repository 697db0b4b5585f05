package tablekit

import (
	"fmt"
	"slices"
	"strings"
)

// OrderEntry is one column of an ordering. Reverse means descending.
type OrderEntry struct {
	Name    string
	Reverse bool
}

// String returns the wire token for the entry, e.g. "-population".
func (e OrderEntry) String() string {
	if e.Reverse {
		return "-" + e.Name
	}
	return e.Name
}

func parseToken(token string) OrderEntry {
	if name, ok := strings.CutPrefix(token, "-"); ok {
		return OrderEntry{Name: name, Reverse: true}
	}
	return OrderEntry{Name: token}
}

// Sortables tells the parser which names may be ordered by and in which
// direction each of them is normal. *ColumnSet implements it.
type Sortables interface {
	SortDirection(name string) (Direction, bool)
}

// OrderBy is an immutable multi-column ordering such as "name,-date".
// Every derived ordering is a new value.
type OrderBy struct {
	entries []OrderEntry
	cols    Sortables
}

// NewOrderBy builds an ordering from entries. When a name repeats, the later
// entry's flag replaces the earlier one in its original position.
func NewOrderBy(entries ...OrderEntry) OrderBy {
	o := OrderBy{}
	for _, e := range entries {
		o.entries = o.set(e)
	}
	return o
}

// ParseOrderBy parses order tokens against the sortable columns in cols
// (nil accepts any name). In non-strict mode tokens naming unknown or
// unsortable columns are dropped; in strict mode the first one fails with
// ErrInvalidOrderBy.
func ParseOrderBy(tokens []string, cols Sortables, strict bool) (OrderBy, error) {
	o, _, err := parseOrderBy(tokens, cols, strict)
	return o, err
}

// ParseOrderByString parses the comma separated wire form.
func ParseOrderByString(raw string, cols Sortables, strict bool) (OrderBy, error) {
	return ParseOrderBy(splitOrderBy(raw), cols, strict)
}

func splitOrderBy(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// parseOrderBy also returns the tokens it dropped.
func parseOrderBy(tokens []string, cols Sortables, strict bool) (OrderBy, []string, error) {
	o := OrderBy{cols: cols}
	var dropped []string
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		e := parseToken(token)
		if cols != nil {
			if _, ok := cols.SortDirection(e.Name); !ok {
				if strict {
					return OrderBy{}, nil, fmt.Errorf("%w: %q is not a sortable column", ErrInvalidOrderBy, token)
				}
				dropped = append(dropped, token)
				continue
			}
		}
		o.entries = o.set(e)
	}
	return o, dropped, nil
}

// String returns the wire form, e.g. "name,-date".
func (o OrderBy) String() string {
	return strings.Join(o.Tokens(), ",")
}

// Tokens returns one wire token per entry.
func (o OrderBy) Tokens() []string {
	tokens := make([]string, len(o.entries))
	for i, e := range o.entries {
		tokens[i] = e.String()
	}
	return tokens
}

// Entries returns a copy of the entries in order.
func (o OrderBy) Entries() []OrderEntry {
	return slices.Clone(o.entries)
}

// Names returns the ordered column names.
func (o OrderBy) Names() []string {
	names := make([]string, len(o.entries))
	for i, e := range o.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of entries.
func (o OrderBy) Len() int { return len(o.entries) }

// IsEmpty reports whether this is the natural (unordered) order.
func (o OrderBy) IsEmpty() bool { return len(o.entries) == 0 }

// Get returns the entry for name.
func (o OrderBy) Get(name string) (OrderEntry, bool) {
	if i := o.index(name); i >= 0 {
		return o.entries[i], true
	}
	return OrderEntry{}, false
}

// Equal reports whether both orderings have the same entries.
func (o OrderBy) Equal(other OrderBy) bool {
	return slices.Equal(o.entries, other.entries)
}

// IsOrderedBy reports whether name takes part in the ordering.
func (o OrderBy) IsOrderedBy(name string) bool {
	return o.index(name) >= 0
}

// IsOrderedNormal reports whether name is ordered in its column's normal sense.
func (o OrderBy) IsOrderedNormal(name string) bool {
	e, ok := o.Get(name)
	return ok && e.Reverse == o.normalReverse(name)
}

// IsOrderedReversed reports whether name is ordered against its column's normal sense.
func (o OrderBy) IsOrderedReversed(name string) bool {
	e, ok := o.Get(name)
	return ok && e.Reverse != o.normalReverse(name)
}

// WithNormal orders name in its normal sense, appending it when absent.
func (o OrderBy) WithNormal(name string) OrderBy {
	return o.with(OrderEntry{Name: name, Reverse: o.normalReverse(name)})
}

// WithReversed orders name against its normal sense, appending it when absent.
func (o OrderBy) WithReversed(name string) OrderBy {
	return o.with(OrderEntry{Name: name, Reverse: !o.normalReverse(name)})
}

// WithToggled flips name's sense. An absent name is appended non-reversed,
// so the first click on any column sorts it ascending.
func (o OrderBy) WithToggled(name string) OrderBy {
	e, ok := o.Get(name)
	if !ok {
		return o.with(OrderEntry{Name: name})
	}
	e.Reverse = !e.Reverse
	return o.with(e)
}

// ToggleAll flips every entry.
func (o OrderBy) ToggleAll() OrderBy {
	out := OrderBy{cols: o.cols, entries: o.Entries()}
	for i := range out.entries {
		out.entries[i].Reverse = !out.entries[i].Reverse
	}
	return out
}

func (o OrderBy) with(e OrderEntry) OrderBy {
	return OrderBy{cols: o.cols, entries: o.set(e)}
}

// set returns a copy of the entries with e replacing or appending.
func (o OrderBy) set(e OrderEntry) []OrderEntry {
	out := slices.Clone(o.entries)
	if i := o.index(e.Name); i >= 0 {
		out[i] = e
		return out
	}
	return append(out, e)
}

func (o OrderBy) index(name string) int {
	return slices.IndexFunc(o.entries, func(e OrderEntry) bool { return e.Name == name })
}

func (o OrderBy) normalReverse(name string) bool {
	if o.cols == nil {
		return false
	}
	d, _ := o.cols.SortDirection(name)
	return d == Desc
}
