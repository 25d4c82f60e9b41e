package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazymongo/internal/filter"
	"github.com/rebeliceyang/lazymongo/internal/models"
)

func newTestState(columns ...string) State {
	return NewState(models.Schema{Columns: columns}, 0)
}

func TestNewStateCapsFilters(t *testing.T) {
	cols := make([]string, 30)
	for i := range cols {
		cols[i] = string(rune('a' + i%26))
	}

	s := NewState(models.Schema{Columns: cols}, 0)
	assert.Len(t, s.Filters, DefaultMaxFilters)
	assert.Equal(t, DefaultPageSize, s.PageSize)

	s = NewState(models.Schema{Columns: cols}, 3)
	assert.Len(t, s.Filters, 3)
	assert.Equal(t, "c", s.Filters[2].Column)
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	s := newTestState("a", "b")

	next, change := s.Apply(SetValue{Filter: 0, Row: 0, Value: "1"})
	assert.True(t, change.Refetch)
	assert.True(t, change.Invalidate)
	assert.Equal(t, "1", next.Filters[0].Conditions[0].Value)
	assert.Equal(t, "", s.Filters[0].Conditions[0].Value)

	next2, _ := next.Apply(RemoveFilter{Filter: 1})
	assert.Len(t, next2.Filters, 1)
	assert.Len(t, next.Filters, 2)
}

func TestRemoveFirstRowRefused(t *testing.T) {
	s := newTestState("a")

	s, _ = s.Apply(AddCondition{Filter: 0})
	require.Len(t, s.Filters[0].Conditions, 2)

	next, change := s.Apply(RemoveCondition{Filter: 0, Row: 0})
	assert.ErrorIs(t, change.Err, ErrFirstCondition)
	assert.Len(t, next.Filters[0].Conditions, 2)

	next, change = s.Apply(RemoveCondition{Filter: 0, Row: 1})
	assert.NoError(t, change.Err)
	assert.False(t, change.Refetch, "removing a blank row does not change the query")
	assert.Len(t, next.Filters[0].Conditions, 1)
}

func TestRemoveFirstFilterRefused(t *testing.T) {
	s := newTestState("a", "b")

	_, change := s.Apply(RemoveFilter{Filter: 0})
	assert.ErrorIs(t, change.Err, ErrFirstFilter)

	_, change = s.Apply(RemoveFilter{Filter: 5})
	assert.ErrorIs(t, change.Err, ErrOutOfRange)
}

func TestAddFilterLimit(t *testing.T) {
	s := NewState(models.Schema{Columns: []string{"a"}}, 2)

	s, change := s.Apply(AddFilter{Column: "a"})
	assert.NoError(t, change.Err)
	_, change = s.Apply(AddFilter{Column: "a"})
	assert.ErrorIs(t, change.Err, ErrTooManyFilters)
}

func TestOperatorChangeOnBlankRow(t *testing.T) {
	s := newTestState("a")

	s, change := s.Apply(SetOperator{Filter: 0, Row: 0, Operator: models.OpGreaterThan})
	assert.False(t, change.Refetch)

	s, _ = s.Apply(SetValue{Filter: 0, Row: 0, Value: "3"})
	_, change = s.Apply(SetOperator{Filter: 0, Row: 0, Operator: models.OpLessThan})
	assert.True(t, change.Refetch)
}

func TestConnectorOnFirstRowRefused(t *testing.T) {
	s := newTestState("a")

	_, change := s.Apply(SetConnector{Filter: 0, Row: 0, Connector: models.ConnOr})
	assert.ErrorIs(t, change.Err, ErrOutOfRange)
}

func TestClickHeaderDoubleClickIgnored(t *testing.T) {
	s := newTestState("a", "b")
	t0 := time.Now()

	s, change := s.Apply(ClickHeader{Column: "a", At: t0})
	assert.True(t, change.Reload)
	assert.Equal(t, models.SortSpec{Column: "a", Direction: 1}, s.Sort)

	s, change = s.Apply(ClickHeader{Column: "a", At: t0.Add(100 * time.Millisecond)})
	assert.Equal(t, Change{}, change)
	assert.Equal(t, 1, s.Sort.Dir())

	s, change = s.Apply(ClickHeader{Column: "a", At: t0.Add(time.Second)})
	assert.True(t, change.Reload)
	assert.Equal(t, -1, s.Sort.Dir())

	s, _ = s.Apply(ClickHeader{Column: "b", At: t0.Add(1100 * time.Millisecond)})
	assert.Equal(t, models.SortSpec{Column: "b", Direction: 1}, s.Sort)
}

func TestClickHeaderInAggregationMode(t *testing.T) {
	s := newTestState("city", "price")

	s, change := s.Apply(ApplyAggregation{Spec: models.AggregationSpec{GroupBy: "city", Func: models.AggCount}})
	require.NoError(t, change.Err)
	assert.True(t, change.Aggregate)

	s, change = s.Apply(ClickHeader{Column: "count", At: time.Now()})
	assert.True(t, change.Aggregate)
	assert.False(t, change.Reload)
	assert.Equal(t, "count", s.Sort.Column)

	_, change = s.Apply(ApplyAggregation{Spec: models.AggregationSpec{GroupBy: "city", Func: models.AggAvg}})
	assert.ErrorIs(t, change.Err, models.ErrMissingTarget)
}

func TestPaging(t *testing.T) {
	s := newTestState("a")
	s, _ = s.Apply(SetTotal{Rows: 250})
	assert.Equal(t, 3, s.Pages())

	s, change := s.Apply(NextPage{})
	assert.True(t, change.Reload)
	assert.False(t, change.Invalidate)
	assert.Equal(t, int64(100), s.Skip())

	s, _ = s.Apply(LastPage{})
	assert.Equal(t, 2, s.Page)

	s, change = s.Apply(NextPage{})
	assert.False(t, change.Reload)
	assert.Equal(t, 2, s.Page)

	s, change = s.Apply(SetPageSize{Size: 50})
	assert.True(t, change.Invalidate)
	assert.Equal(t, 0, s.Page)
	assert.Equal(t, 5, s.Pages())

	_, change = s.Apply(SetPageSize{Size: 0})
	assert.ErrorIs(t, change.Err, ErrBadPageSize)

	s, _ = s.Apply(PrevPage{})
	assert.Equal(t, 0, s.Page)

	s, _ = s.Apply(SetPage{Page: 4})
	s, _ = s.Apply(SetTotal{Rows: 10})
	assert.Equal(t, 0, s.Page)
}

func TestEditsResetPage(t *testing.T) {
	s := newTestState("a")
	s, _ = s.Apply(SetTotal{Rows: 1000})
	s, _ = s.Apply(SetPage{Page: 3})

	s, change := s.Apply(SetSearch{Text: "foo"})
	assert.True(t, change.Refetch)
	assert.Equal(t, 0, s.Page)

	_, change = s.Apply(SetSearch{Text: "foo"})
	assert.Equal(t, Change{}, change)
}

func TestClearAll(t *testing.T) {
	s := newTestState("a", "b")
	s, _ = s.Apply(SetValue{Filter: 1, Row: 0, Value: "x"})
	s, _ = s.Apply(SetSearch{Text: "y"})
	s, _ = s.Apply(AddFilter{Column: "a"})

	s, change := s.Apply(ClearAll{})
	assert.True(t, change.Invalidate)
	assert.Len(t, s.Filters, 2)
	assert.Zero(t, s.ActiveFilters())
	assert.Empty(t, s.Search)
	assert.Equal(t, filter.All{}, s.Query(filter.NewBuilder()))
}

func TestQueryFromState(t *testing.T) {
	s := newTestState("a", "b")
	s, _ = s.Apply(SetValue{Filter: 0, Row: 0, Value: "5"})
	s, _ = s.Apply(AddCondition{Filter: 0})
	s, _ = s.Apply(SetConnector{Filter: 0, Row: 1, Connector: models.ConnOr})
	s, _ = s.Apply(SetValue{Filter: 0, Row: 1, Value: "7"})

	p := s.Query(filter.NewBuilder())
	assert.True(t, filter.Matches(p, map[string]any{"a": 5}))
	assert.True(t, filter.Matches(p, map[string]any{"a": 7}))
	assert.False(t, filter.Matches(p, map[string]any{"a": 6}))
}
