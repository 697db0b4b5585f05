package tablekit

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the class of every error caused by how a table was set up
// rather than by the data it shows. All configuration errors wrap it.
var ErrConfiguration = errors.New("table configuration error")

// Configuration errors returned by the tablekit package.
var (
	// ErrDuplicateColumn is returned when a column name is registered twice.
	ErrDuplicateColumn = fmt.Errorf("%w: duplicate column name", ErrConfiguration)

	// ErrEmptyPathSegment is returned for paths like "", "a..b" or ".a".
	ErrEmptyPathSegment = fmt.Errorf("%w: empty path segment", ErrConfiguration)

	// ErrInvalidOrderBy is returned in strict mode for an order token that
	// does not name a sortable column.
	ErrInvalidOrderBy = fmt.Errorf("%w: invalid order by", ErrConfiguration)
)

// Pagination errors.
var (
	// ErrInvalidPage is returned for page numbers below 1.
	ErrInvalidPage = errors.New("invalid page number")

	// ErrEmptyPage is returned for a page past the last one.
	ErrEmptyPage = errors.New("page contains no results")
)
