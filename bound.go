package tablekit

// BoundColumn is a column seen through its table's current ordering. It is
// built on demand and holds no state of its own, so it always reflects the
// latest SetOrderBy.
type BoundColumn struct {
	table  *Table
	column Column
}

// Column returns the underlying column definition.
func (b *BoundColumn) Column() Column { return b.column }

// Name returns the column name.
func (b *BoundColumn) Name() string { return b.column.Name() }

// VerboseName returns the column label.
func (b *BoundColumn) VerboseName() string { return b.column.VerboseName() }

// Visible reports whether the column is shown by default.
func (b *BoundColumn) Visible() bool { return b.column.Visible() }

// Sortable reports whether the table may be ordered by the column.
func (b *BoundColumn) Sortable() bool { return b.column.Sortable() }

// Entry returns the column's entry in the table ordering, if any.
func (b *BoundColumn) Entry() (OrderEntry, bool) {
	return b.table.orderBy.Get(b.Name())
}

// IsOrdered reports whether the table is ordered by this column.
func (b *BoundColumn) IsOrdered() bool {
	return b.table.orderBy.IsOrderedBy(b.Name())
}

// IsOrderedNormal reports whether the column is ordered in its normal sense.
func (b *BoundColumn) IsOrderedNormal() bool {
	return b.table.orderBy.IsOrderedNormal(b.Name())
}

// IsOrderedReversed reports whether the column is ordered against its normal sense.
func (b *BoundColumn) IsOrderedReversed() bool {
	return b.table.orderBy.IsOrderedReversed(b.Name())
}

// NameReversed returns the descending token for the column, "-" + name.
func (b *BoundColumn) NameReversed() string {
	return OrderEntry{Name: b.Name(), Reverse: true}.String()
}

// NameToggled returns the column's token after a toggle of the current
// ordering: "name" when unordered or descending, "-name" when ascending.
func (b *BoundColumn) NameToggled() string {
	e, _ := b.table.orderBy.WithToggled(b.Name()).Get(b.Name())
	return e.String()
}

// OrderByNormal returns the table ordering with this column in its normal sense.
func (b *BoundColumn) OrderByNormal() string {
	return b.table.orderBy.WithNormal(b.Name()).String()
}

// OrderByReversed returns the table ordering with this column reversed.
func (b *BoundColumn) OrderByReversed() string {
	return b.table.orderBy.WithReversed(b.Name()).String()
}

// OrderByToggled returns the table ordering with this column toggled, the
// value a sort link for the column carries.
func (b *BoundColumn) OrderByToggled() string {
	return b.table.orderBy.WithToggled(b.Name()).String()
}
