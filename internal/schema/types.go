package schema

import "strings"

// Schema represents the extracted tables of a database
type Schema struct {
	Tables []Table
}

// Table returns the named table
func (s *Schema) Table(name string) (*Table, bool) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// Table represents a database table
type Table struct {
	Name       string
	Columns    []Column
	Relations  []Relation
	PrimaryKey []string
}

// Column returns the named column
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// ColumnNames returns the column names in ordinal order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// RelationFor returns the foreign key declared on a column
func (t *Table) RelationFor(column string) (*Relation, bool) {
	for i := range t.Relations {
		if t.Relations[i].SourceColumn == column {
			return &t.Relations[i], true
		}
	}
	return nil, false
}

// DisplayColumn picks the column that best represents a row of the table:
// the first text-like column that is not part of the primary key, else the
// first primary key column, else the first column.
func (t *Table) DisplayColumn() string {
	for _, c := range t.Columns {
		if c.IsText() && !t.isPrimaryKey(c.Name) {
			return c.Name
		}
	}
	if len(t.PrimaryKey) > 0 {
		return t.PrimaryKey[0]
	}
	if len(t.Columns) > 0 {
		return t.Columns[0].Name
	}
	return ""
}

func (t *Table) isPrimaryKey(column string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == column {
			return true
		}
	}
	return false
}

// Column represents a table column
type Column struct {
	Name         string
	Type         string
	Nullable     bool
	DefaultValue *string
}

// IsText reports whether the column holds character data
func (c Column) IsText() bool {
	t := strings.ToLower(c.Type)
	for _, prefix := range []string{"text", "varchar", "char", "character", "nvarchar", "string", "tinytext", "mediumtext", "longtext"} {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}

// Relation represents a foreign key relationship
type Relation struct {
	TargetTable  string
	TargetColumn string
	SourceColumn string
	Cardinality  string // 1:1, 1:N, N:1
}

// Name returns the name records expose the related row under: the source
// column without its "_id" suffix ("owner_id" becomes "owner"), or the
// target table when the column has no such suffix.
func (r Relation) Name() string {
	if name, ok := strings.CutSuffix(r.SourceColumn, "_id"); ok && name != "" {
		return name
	}
	return r.TargetTable
}
