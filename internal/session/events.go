package session

import (
	"strings"
	"time"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

// Event is a user interaction that patches the session state
type Event interface {
	apply(s State) (State, Change)
}

// AddCondition appends a blank AND row to a filter
type AddCondition struct{ Filter int }

// RemoveCondition deletes a row; the first row of a filter is kept
type RemoveCondition struct{ Filter, Row int }

// SetValue changes the value of a row
type SetValue struct {
	Filter, Row int
	Value       string
}

// SetOperator changes the operator of a row
type SetOperator struct {
	Filter, Row int
	Operator    models.Operator
}

// SetConnector changes the connector joining a row to the rows above it
type SetConnector struct {
	Filter, Row int
	Connector   models.Connector
}

// SetFilterConnector changes the connector joining a filter to the filters above it
type SetFilterConnector struct {
	Filter    int
	Connector models.Connector
}

// AddFilter adds a filter on a column
type AddFilter struct{ Column string }

// RemoveFilter deletes a filter; the first filter is kept
type RemoveFilter struct{ Filter int }

// SetSearch changes the free-text search
type SetSearch struct{ Text string }

// ClickHeader sorts by a column, or toggles direction when it is already sorted
type ClickHeader struct {
	Column string
	At     time.Time
}

// SetPage jumps to a zero based page
type SetPage struct{ Page int }

// NextPage moves one page forward
type NextPage struct{}

// PrevPage moves one page back
type PrevPage struct{}

// LastPage jumps to the last page
type LastPage struct{}

// SetPageSize changes the number of rows per page
type SetPageSize struct{ Size int }

// SetTotal records the number of documents matching the current query
type SetTotal struct{ Rows int64 }

// ApplyAggregation switches to the grouped view
type ApplyAggregation struct{ Spec models.AggregationSpec }

// ResetAggregation returns to the document view
type ResetAggregation struct{}

// ClearAll resets filters, search, sort and paging
type ClearAll struct{}

// Apply returns the state after ev and what the caller must do about it
func (s State) Apply(ev Event) (State, Change) {
	if ev == nil {
		return s, Change{}
	}
	return ev.apply(s.clone())
}

// queryChanged is the change set of any edit to the compiled filter
func queryChanged(s State) (State, Change) {
	s.Page = 0
	return s, Change{Refetch: true, Invalidate: true}
}

func (e AddCondition) apply(s State) (State, Change) {
	if e.Filter < 0 || e.Filter >= len(s.Filters) {
		return s, Change{Err: ErrOutOfRange}
	}
	f := &s.Filters[e.Filter]
	f.Conditions = append(f.Conditions, models.ColumnCondition{Operator: models.OpEqual, Connector: models.ConnAnd})
	return s, Change{}
}

func (e RemoveCondition) apply(s State) (State, Change) {
	c, ok := s.condition(e.Filter, e.Row)
	if !ok {
		return s, Change{Err: ErrOutOfRange}
	}
	if e.Row == 0 {
		return s, Change{Err: ErrFirstCondition}
	}
	hadValue := strings.TrimSpace(c.Value) != ""

	f := &s.Filters[e.Filter]
	f.Conditions = append(f.Conditions[:e.Row], f.Conditions[e.Row+1:]...)
	if !hadValue {
		return s, Change{}
	}
	return queryChanged(s)
}

func (e SetValue) apply(s State) (State, Change) {
	c, ok := s.condition(e.Filter, e.Row)
	if !ok {
		return s, Change{Err: ErrOutOfRange}
	}
	if c.Value == e.Value {
		return s, Change{}
	}
	c.Value = e.Value
	return queryChanged(s)
}

func (e SetOperator) apply(s State) (State, Change) {
	c, ok := s.condition(e.Filter, e.Row)
	if !ok {
		return s, Change{Err: ErrOutOfRange}
	}
	if c.Operator == e.Operator {
		return s, Change{}
	}
	c.Operator = e.Operator
	if strings.TrimSpace(c.Value) == "" {
		return s, Change{}
	}
	return queryChanged(s)
}

func (e SetConnector) apply(s State) (State, Change) {
	c, ok := s.condition(e.Filter, e.Row)
	if !ok || e.Row == 0 {
		return s, Change{Err: ErrOutOfRange}
	}
	if c.Connector == e.Connector {
		return s, Change{}
	}
	c.Connector = e.Connector
	if strings.TrimSpace(c.Value) == "" {
		return s, Change{}
	}
	return queryChanged(s)
}

func (e SetFilterConnector) apply(s State) (State, Change) {
	if e.Filter < 0 || e.Filter >= len(s.Filters) {
		return s, Change{Err: ErrOutOfRange}
	}
	f := &s.Filters[e.Filter]
	if f.Connector == e.Connector {
		return s, Change{}
	}
	f.Connector = e.Connector
	if e.Filter == 0 || !f.Active() {
		return s, Change{}
	}
	return queryChanged(s)
}

func (e AddFilter) apply(s State) (State, Change) {
	if len(s.Filters) >= s.MaxFilters {
		return s, Change{Err: ErrTooManyFilters}
	}
	s.Filters = append(s.Filters, models.NewColumnFilter(e.Column))
	return s, Change{}
}

func (e RemoveFilter) apply(s State) (State, Change) {
	if e.Filter < 0 || e.Filter >= len(s.Filters) {
		return s, Change{Err: ErrOutOfRange}
	}
	if e.Filter == 0 {
		return s, Change{Err: ErrFirstFilter}
	}
	active := s.Filters[e.Filter].Active()
	s.Filters = append(s.Filters[:e.Filter], s.Filters[e.Filter+1:]...)
	if !active {
		return s, Change{}
	}
	return queryChanged(s)
}

func (e SetSearch) apply(s State) (State, Change) {
	if s.Search == e.Text {
		return s, Change{}
	}
	s.Search = e.Text
	return queryChanged(s)
}

func (e ClickHeader) apply(s State) (State, Change) {
	if e.Column == s.lastClickColumn && !s.lastClickAt.IsZero() && e.At.Sub(s.lastClickAt) < DoubleClickWindow {
		s.lastClickColumn = ""
		s.lastClickAt = time.Time{}
		return s, Change{}
	}
	s.lastClickColumn = e.Column
	s.lastClickAt = e.At

	s.Sort = s.Sort.Toggle(e.Column)
	if s.Aggregating {
		return s, Change{Aggregate: true}
	}
	s.Page = 0
	return s, Change{Reload: true, Invalidate: true}
}

func (e SetPage) apply(s State) (State, Change) {
	prev := s.Page
	s.Page = e.Page
	s = s.clampPage()
	if s.Page == prev {
		return s, Change{}
	}
	return s, Change{Reload: true}
}

func (NextPage) apply(s State) (State, Change) { return SetPage{Page: s.Page + 1}.apply(s) }

func (PrevPage) apply(s State) (State, Change) { return SetPage{Page: s.Page - 1}.apply(s) }

func (LastPage) apply(s State) (State, Change) { return SetPage{Page: s.Pages() - 1}.apply(s) }

func (e SetPageSize) apply(s State) (State, Change) {
	if e.Size <= 0 {
		return s, Change{Err: ErrBadPageSize}
	}
	if s.PageSize == e.Size {
		return s, Change{}
	}
	s.PageSize = e.Size
	s.Page = 0
	return s, Change{Reload: true, Invalidate: true}
}

func (e SetTotal) apply(s State) (State, Change) {
	s.TotalRows = e.Rows
	return s.clampPage(), Change{}
}

func (e ApplyAggregation) apply(s State) (State, Change) {
	if err := e.Spec.Validate(); err != nil {
		return s, Change{Err: err}
	}
	s.Aggregation = e.Spec
	s.Aggregating = true
	s.Sort = models.SortSpec{}
	return s, Change{Aggregate: true}
}

func (ResetAggregation) apply(s State) (State, Change) {
	if !s.Aggregating {
		return s, Change{}
	}
	s.Aggregating = false
	s.Aggregation = models.AggregationSpec{}
	s.Sort = models.SortSpec{}
	s.Page = 0
	return s, Change{Reload: true, Invalidate: true}
}

func (ClearAll) apply(s State) (State, Change) {
	s.Filters = initialFilters(s.Columns, s.MaxFilters)
	s.Search = ""
	s.Sort = models.SortSpec{}
	s.Page = 0
	s.Aggregating = false
	s.Aggregation = models.AggregationSpec{}
	return s, Change{Reload: true, Invalidate: true}
}
