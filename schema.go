package tablekit

import (
	"context"
	"fmt"
	"slices"
)

// Field describes one field of a schema-backed record.
type Field struct {
	Name string
	Type string
	// Nested marks a relation to another record. Target names the related
	// field the column displays and sorts by.
	Nested bool
	Target string
}

// Path returns the record path a column for the field reads.
func (f Field) Path() string {
	if f.Nested && f.Target != "" {
		return f.Name + PathSeparator + f.Target
	}
	return f.Name
}

// SchemaSource describes the fields of a schema, such as a database table,
// in declaration order.
type SchemaSource interface {
	Fields(ctx context.Context, schemaID string) ([]Field, error)
}

// ColumnsFromSchema builds one column per field, skipping the excluded
// names. Relation columns read their target field.
func ColumnsFromSchema(fields []Field, exclude ...string) (*ColumnSet, error) {
	cols := make([]Column, 0, len(fields))
	for _, f := range fields {
		if slices.Contains(exclude, f.Name) {
			continue
		}
		cols = append(cols, NewColumn(f.Name, WithPath(f.Path())))
	}
	return NewColumnSet(cols...)
}

// ColumnsFromSource asks src for the fields of schemaID and builds columns
// from them.
func ColumnsFromSource(ctx context.Context, src SchemaSource, schemaID string, exclude ...string) (*ColumnSet, error) {
	fields, err := src.Fields(ctx, schemaID)
	if err != nil {
		return nil, fmt.Errorf("failed to describe %s: %w", schemaID, err)
	}
	return ColumnsFromSchema(fields, exclude...)
}
