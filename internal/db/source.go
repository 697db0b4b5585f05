package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/Velocidex/ordereddict"
	reptext "github.com/radiochild/utils/text"
	"go.uber.org/zap"

	"github.com/tordrt/tablekit/internal/schema"
)

const baseAlias = "t"

// Field is one field a Source exposes, in table column order. A relation
// takes the place of its foreign key column and displays Target.
type Field struct {
	Name     string
	Type     string
	Relation bool
	Target   string
}

type join struct {
	name   string
	alias  string
	rel    schema.Relation
	target schema.Table
}

// Source reads one table page by page. Every foreign key whose target table
// is known is LEFT JOINed, so ordering by a related column never drops rows,
// and its columns are returned as a nested record under the relation name.
type Source struct {
	q       Queryer
	dialect Dialect
	table   schema.Table
	joins   []join
	exprs   map[string]string
	selects []string
	logger  *zap.Logger
}

// NewSource creates a Source for table. related holds the tables its
// relations point at; relations to other tables are not joined.
func NewSource(q Queryer, dialect Dialect, table schema.Table, related []schema.Table, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Source{
		q:       q,
		dialect: dialect,
		table:   table,
		exprs:   make(map[string]string),
		logger:  logger,
	}

	for _, c := range table.Columns {
		s.addSelect(baseAlias, c.Name, c.Name)
	}

	targets := schema.Schema{Tables: related}
	for _, rel := range table.Relations {
		name := rel.Name()
		if _, taken := table.Column(name); taken || s.join(name) != nil {
			continue
		}
		target, ok := targets.Table(rel.TargetTable)
		if !ok {
			continue
		}
		j := join{name: name, alias: fmt.Sprintf("r%d", len(s.joins)), rel: rel, target: *target}
		s.joins = append(s.joins, j)
		for _, c := range target.Columns {
			s.addSelect(j.alias, c.Name, name+"."+c.Name)
		}
	}

	return s
}

func (s *Source) addSelect(alias, column, path string) {
	expr := alias + "." + s.dialect.Quote(column)
	s.exprs[path] = expr
	s.selects = append(s.selects, expr+" AS "+s.dialect.Quote(path))
}

func (s *Source) join(name string) *join {
	for i := range s.joins {
		if s.joins[i].name == name {
			return &s.joins[i]
		}
	}
	return nil
}

// Table returns the table the source reads
func (s *Source) Table() schema.Table { return s.table }

// Fields lists the source's fields in column order
func (s *Source) Fields() []Field {
	fields := make([]Field, 0, len(s.table.Columns))
	for _, c := range s.table.Columns {
		f := Field{Name: c.Name, Type: c.Type}
		if rel, ok := s.table.RelationFor(c.Name); ok {
			if j := s.join(rel.Name()); j != nil && j.rel.SourceColumn == c.Name {
				f = Field{Name: j.name, Type: c.Type, Relation: true, Target: j.target.DisplayColumn()}
			}
		}
		fields = append(fields, f)
	}
	return fields
}

// Count returns the number of rows in the table
func (s *Source) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.dialect.Quote(s.table.Name))
	s.logger.Debug("counting rows", zap.String("sql", query))

	res, err := s.q.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.table.Name, err)
	}
	if len(res.Rows) != 1 || len(res.Rows[0]) != 1 {
		return 0, fmt.Errorf("failed to count %s: unexpected result shape", s.table.Name)
	}
	return toInt(res.Rows[0][0])
}

// Fetch returns up to limit rows starting at offset, ordered by the given
// paths ("-" prefixed for descending). A negative limit returns every row
// past offset. Rows are ordered by primary key after the given paths, so
// pages are stable.
func (s *Source) Fetch(ctx context.Context, ordering []string, offset, limit int) ([]any, error) {
	order, err := s.orderClause(ordering)
	if err != nil {
		return nil, err
	}

	suffix := reptext.AppendText("", order, s.dialect.Paging(offset, limit))
	query := strings.TrimSpace(fmt.Sprintf("SELECT %s FROM %s %s", strings.Join(s.selects, ", "), s.from(), suffix))
	s.logger.Debug("fetching rows",
		zap.String("sql", query),
		zap.Strings("ordering", ordering))

	res, err := s.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.table.Name, err)
	}

	records := make([]any, len(res.Rows))
	for i, row := range res.Rows {
		records[i] = s.record(res.Columns, row)
	}
	return records, nil
}

func (s *Source) from() string {
	parts := []string{s.dialect.Quote(s.table.Name) + " " + baseAlias}
	for _, j := range s.joins {
		parts = append(parts, fmt.Sprintf("LEFT JOIN %s %s ON %s.%s = %s.%s",
			s.dialect.Quote(j.target.Name), j.alias,
			j.alias, s.dialect.Quote(j.rel.TargetColumn),
			baseAlias, s.dialect.Quote(j.rel.SourceColumn)))
	}
	return strings.Join(parts, " ")
}

func (s *Source) orderClause(ordering []string) (string, error) {
	var terms []string
	used := make(map[string]bool)
	for _, key := range ordering {
		path, desc := strings.CutPrefix(key, "-")
		expr, ok := s.exprs[path]
		if !ok {
			return "", fmt.Errorf("%w: %q in %s", ErrUnknownField, path, s.table.Name)
		}
		if used[expr] {
			continue
		}
		used[expr] = true
		terms = append(terms, s.dialect.Order(expr, desc))
	}
	for _, pk := range s.table.PrimaryKey {
		if expr, ok := s.exprs[pk]; ok && !used[expr] {
			used[expr] = true
			terms = append(terms, s.dialect.Order(expr, false))
		}
	}
	if len(terms) == 0 {
		return "", nil
	}
	return "ORDER BY " + strings.Join(terms, ", "), nil
}

// record nests "relation.column" labels under their relation. A relation
// whose joined columns are all NULL had no match and is stored as nil.
func (s *Source) record(columns []string, values []any) *ordereddict.Dict {
	nested := make(map[string]*ordereddict.Dict)
	matched := make(map[string]bool)
	for i, col := range columns {
		rel, sub, ok := strings.Cut(col, ".")
		if !ok || s.join(rel) == nil {
			continue
		}
		if nested[rel] == nil {
			nested[rel] = ordereddict.NewDict()
		}
		nested[rel].Set(sub, values[i])
		if values[i] != nil {
			matched[rel] = true
		}
	}

	d := ordereddict.NewDict()
	done := make(map[string]bool)
	for i, col := range columns {
		rel, _, ok := strings.Cut(col, ".")
		switch {
		case !ok || nested[rel] == nil:
			d.Set(col, values[i])
		case done[rel]:
			continue
		case matched[rel]:
			d.Set(rel, nested[rel])
		default:
			d.Set(rel, nil)
		}
		done[rel] = true
	}
	return d
}
