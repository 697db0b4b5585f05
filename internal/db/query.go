package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// Result is the outcome of a query: column labels and one value slice per row
type Result struct {
	Columns []string
	Rows    [][]any
}

// Queryer runs read-only SQL
type Queryer interface {
	Query(ctx context.Context, query string, args ...any) (*Result, error)
}

// SQLQueryer runs queries through database/sql
type SQLQueryer struct {
	db *sql.DB
}

// NewSQLQueryer creates a queryer over an open database handle
func NewSQLQueryer(db *sql.DB) *SQLQueryer {
	return &SQLQueryer{db: db}
}

// Query runs the query and collects every row
func (q *SQLQueryer) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		res.Rows = append(res.Rows, normalizeRow(values))
	}

	return res, rows.Err()
}

// normalizeRow turns driver byte slices into strings so text columns
// compare and print as text
func normalizeRow(values []any) []any {
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values
}

// toInt converts a scalar query result such as COUNT(*) to an int
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("unexpected count type %T", v)
	}
}
