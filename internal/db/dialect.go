package db

import (
	"fmt"
	"strings"
)

// Dialect holds the SQL syntax that differs between the supported databases
type Dialect struct {
	Name  string
	quote string
	// unbounded is the LIMIT clause meaning "no limit" when an offset follows
	unbounded string
	// explicitNulls makes NULL sort first ascending, as SQLite and MySQL do
	explicitNulls bool
}

var (
	Postgres = Dialect{Name: "postgres", quote: `"`, explicitNulls: true}
	SQLite   = Dialect{Name: "sqlite", quote: `"`, unbounded: "LIMIT -1"}
	MySQL    = Dialect{Name: "mysql", quote: "`", unbounded: "LIMIT 18446744073709551615"}
)

// Quote quotes an identifier, doubling embedded quote characters
func (d Dialect) Quote(ident string) string {
	return d.quote + strings.ReplaceAll(ident, d.quote, d.quote+d.quote) + d.quote
}

// Paging returns the LIMIT/OFFSET clause for a slice of rows. A negative
// limit means every row past offset.
func (d Dialect) Paging(offset, limit int) string {
	offset = max(offset, 0)
	switch {
	case limit >= 0 && offset > 0:
		return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
	case limit >= 0:
		return fmt.Sprintf("LIMIT %d", limit)
	case offset == 0:
		return ""
	case d.unbounded == "":
		return fmt.Sprintf("OFFSET %d", offset)
	default:
		return fmt.Sprintf("%s OFFSET %d", d.unbounded, offset)
	}
}

// Order returns one ORDER BY term. NULL sorts before every value ascending
// and after every value descending in all dialects.
func (d Dialect) Order(expr string, desc bool) string {
	switch {
	case desc && d.explicitNulls:
		return expr + " DESC NULLS LAST"
	case desc:
		return expr + " DESC"
	case d.explicitNulls:
		return expr + " ASC NULLS FIRST"
	default:
		return expr + " ASC"
	}
}
