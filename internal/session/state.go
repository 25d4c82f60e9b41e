package session

import (
	"errors"
	"time"

	"github.com/rebeliceyang/lazymongo/internal/filter"
	"github.com/rebeliceyang/lazymongo/internal/models"
)

const (
	// DefaultMaxFilters caps the number of filters created from a schema
	DefaultMaxFilters = 20
	// DefaultPageSize is the initial number of rows per page
	DefaultPageSize = 100
	// DoubleClickWindow is the interval in which a second click on the same header is ignored
	DoubleClickWindow = 300 * time.Millisecond
)

// PageSizes are the page sizes offered in the UI
var PageSizes = []int{50, 100, 200, 500, 1000}

var (
	ErrFirstCondition = errors.New("the first condition of a filter cannot be removed")
	ErrFirstFilter    = errors.New("the first filter cannot be removed")
	ErrTooManyFilters = errors.New("filter limit reached")
	ErrOutOfRange     = errors.New("no such filter or condition")
	ErrBadPageSize    = errors.New("page size must be positive")
)

// State is an immutable snapshot of everything the query depends on.
// Apply never modifies the receiver.
type State struct {
	Columns     []string
	Filters     []models.ColumnFilter
	Search      string
	Sort        models.SortSpec
	Page        int // zero based
	PageSize    int
	TotalRows   int64
	Aggregation models.AggregationSpec
	Aggregating bool
	MaxFilters  int

	lastClickColumn string
	lastClickAt     time.Time
}

// Change tells the caller what an event requires
type Change struct {
	// Refetch schedules a debounced reload
	Refetch bool
	// Reload loads the current page immediately
	Reload bool
	// Invalidate drops every cached page
	Invalidate bool
	// Aggregate reruns the aggregation pipeline
	Aggregate bool
	// Err is set when the event was refused
	Err error
}

// NewState creates one filter per schema column, up to maxFilters
func NewState(schema models.Schema, maxFilters int) State {
	if maxFilters <= 0 {
		maxFilters = DefaultMaxFilters
	}

	s := State{
		Columns:    append([]string(nil), schema.Columns...),
		PageSize:   DefaultPageSize,
		MaxFilters: maxFilters,
	}
	s.Filters = initialFilters(s.Columns, maxFilters)
	return s
}

func initialFilters(columns []string, max int) []models.ColumnFilter {
	n := len(columns)
	if n > max {
		n = max
	}
	filters := make([]models.ColumnFilter, n)
	for i := 0; i < n; i++ {
		filters[i] = models.NewColumnFilter(columns[i])
	}
	return filters
}

// Pages returns the number of pages, never less than one
func (s State) Pages() int {
	if s.PageSize <= 0 || s.TotalRows <= 0 {
		return 1
	}
	return int((s.TotalRows + int64(s.PageSize) - 1) / int64(s.PageSize))
}

// Skip returns the number of documents before the current page
func (s State) Skip() int64 {
	return int64(s.Page) * int64(s.PageSize)
}

// Query compiles the filters and search text of the snapshot
func (s State) Query(b *filter.Builder) filter.Predicate {
	return b.BuildQuery(s.Filters, s.Search, s.Columns)
}

// ActiveFilters returns the number of filters with at least one value
func (s State) ActiveFilters() int {
	n := 0
	for _, f := range s.Filters {
		if f.Active() {
			n++
		}
	}
	return n
}

func (s State) clone() State {
	out := s
	out.Columns = append([]string(nil), s.Columns...)
	out.Filters = make([]models.ColumnFilter, len(s.Filters))
	for i, f := range s.Filters {
		out.Filters[i] = f.Clone()
	}
	return out
}

func (s State) clampPage() State {
	if last := s.Pages() - 1; s.Page > last {
		s.Page = last
	}
	if s.Page < 0 {
		s.Page = 0
	}
	return s
}

func (s State) condition(fi, ri int) (*models.ColumnCondition, bool) {
	if fi < 0 || fi >= len(s.Filters) {
		return nil, false
	}
	conds := s.Filters[fi].Conditions
	if ri < 0 || ri >= len(conds) {
		return nil, false
	}
	return &conds[ri], true
}
