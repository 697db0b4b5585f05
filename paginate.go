package tablekit

import (
	"context"
	"fmt"
)

// RowSource is what a paginator slices: a table's rows in current order.
type RowSource interface {
	Len(ctx context.Context) (int, error)
	Slice(ctx context.Context, start, end int) ([]*Row, error)
}

// Counter is implemented by row sources that can count without fetching.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Paginator splits a row source into pages.
type Paginator interface {
	Page(ctx context.Context, number int) (*Page, error)
	Count(ctx context.Context) (int, error)
	NumPages(ctx context.Context) (int, error)
	PerPage() int
}

// PaginatorFactory builds a Paginator over rows.
type PaginatorFactory func(rows RowSource, perPage int, opts ...PaginatorOption) (Paginator, error)

// PaginatorOption configures the stock paginator.
type PaginatorOption func(*paginator)

// WithOrphans merges a last page of at most n rows into the previous page.
func WithOrphans(n int) PaginatorOption {
	return func(p *paginator) { p.orphans = max(n, 0) }
}

// WithAllowEmptyFirstPage controls whether page 1 of an empty source is a
// valid, empty page (the default) or ErrEmptyPage.
func WithAllowEmptyFirstPage(allow bool) PaginatorOption {
	return func(p *paginator) { p.allowEmptyFirstPage = allow }
}

type paginator struct {
	rows                RowSource
	perPage             int
	orphans             int
	allowEmptyFirstPage bool

	count int
	known bool
}

// NewPaginator is the stock PaginatorFactory. It counts through Counter when
// the row source implements it and through Len otherwise. The count is taken
// once and reused.
func NewPaginator(rows RowSource, perPage int, opts ...PaginatorOption) (Paginator, error) {
	if rows == nil {
		return nil, fmt.Errorf("%w: row source is nil", ErrConfiguration)
	}
	if perPage < 1 {
		return nil, fmt.Errorf("%w: per page must be positive, got %d", ErrConfiguration, perPage)
	}
	p := &paginator{rows: rows, perPage: perPage, allowEmptyFirstPage: true}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *paginator) PerPage() int { return p.perPage }

func (p *paginator) Count(ctx context.Context) (int, error) {
	if p.known {
		return p.count, nil
	}
	var (
		n   int
		err error
	)
	if c, ok := p.rows.(Counter); ok {
		n, err = c.Count(ctx)
	} else {
		n, err = p.rows.Len(ctx)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	p.count, p.known = n, true
	return n, nil
}

func (p *paginator) NumPages(ctx context.Context) (int, error) {
	count, err := p.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count == 0 && !p.allowEmptyFirstPage {
		return 0, nil
	}
	hits := max(1, count-p.orphans)
	return (hits + p.perPage - 1) / p.perPage, nil
}

func (p *paginator) Page(ctx context.Context, number int) (*Page, error) {
	if number < 1 {
		return nil, fmt.Errorf("%w: %d is less than 1", ErrInvalidPage, number)
	}
	count, err := p.Count(ctx)
	if err != nil {
		return nil, err
	}
	numPages, err := p.NumPages(ctx)
	if err != nil {
		return nil, err
	}
	if number > numPages && !(number == 1 && p.allowEmptyFirstPage) {
		return nil, fmt.Errorf("%w: page %d of %d", ErrEmptyPage, number, numPages)
	}

	bottom := (number - 1) * p.perPage
	top := bottom + p.perPage
	if top+p.orphans >= count {
		top = count
	}
	var items []*Row
	if top > bottom {
		items, err = p.rows.Slice(ctx, bottom, top)
		if err != nil {
			return nil, fmt.Errorf("failed to load page %d: %w", number, err)
		}
	}
	return &Page{Items: items, Number: number, count: count, numPages: numPages, perPage: p.perPage}, nil
}

// Page is one page of rows.
type Page struct {
	Items  []*Row
	Number int

	count    int
	numPages int
	perPage  int
}

// NumPages returns the page count of the paginator that built the page.
func (p *Page) NumPages() int { return p.numPages }

// Count returns the total number of rows across all pages.
func (p *Page) Count() int { return p.count }

// HasNext reports whether a page follows this one.
func (p *Page) HasNext() bool { return p.Number < p.numPages }

// HasPrevious reports whether a page precedes this one.
func (p *Page) HasPrevious() bool { return p.Number > 1 }

// HasOtherPages reports whether the paginator has more than this page.
func (p *Page) HasOtherPages() bool { return p.HasNext() || p.HasPrevious() }

// NextNumber returns the next page number, or 0 on the last page.
func (p *Page) NextNumber() int {
	if !p.HasNext() {
		return 0
	}
	return p.Number + 1
}

// PreviousNumber returns the previous page number, or 0 on the first page.
func (p *Page) PreviousNumber() int {
	if !p.HasPrevious() {
		return 0
	}
	return p.Number - 1
}

// StartIndex returns the 1-based index of the first row on the page, or 0
// when there are no rows.
func (p *Page) StartIndex() int {
	if p.count == 0 {
		return 0
	}
	return p.perPage*(p.Number-1) + 1
}

// EndIndex returns the 1-based index of the last row on the page.
func (p *Page) EndIndex() int {
	if p.Number == p.numPages {
		return p.count
	}
	return p.Number * p.perPage
}

type staticRows struct {
	table *Table
}

func (s *staticRows) Len(context.Context) (int, error) {
	return len(s.table.rows), nil
}

func (s *staticRows) Slice(_ context.Context, start, end int) ([]*Row, error) {
	n := len(s.table.rows)
	start, end = min(max(start, 0), n), min(max(end, 0), n)
	if start >= end {
		return nil, nil
	}
	return s.table.rows[start:end:end], nil
}

type liveRows struct {
	table *Table
}

// Len fetches every row; paginators use Count instead.
func (l *liveRows) Len(ctx context.Context) (int, error) {
	rows, err := l.table.fetch(ctx, 0, -1)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (l *liveRows) Slice(ctx context.Context, start, end int) ([]*Row, error) {
	start = max(start, 0)
	if start >= end {
		return nil, nil
	}
	return l.table.fetch(ctx, start, end-start)
}

func (l *liveRows) Count(ctx context.Context) (int, error) {
	return l.table.source.Count(ctx)
}
