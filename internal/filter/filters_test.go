package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

func columnFilter(column string, conn models.Connector, op models.Operator, value string) models.ColumnFilter {
	f := models.NewColumnFilter(column)
	f.Connector = conn
	f.Conditions[0].Operator = op
	f.Conditions[0].Value = value
	return f
}

func TestBuildFilterDocumentNoFilters(t *testing.T) {
	b := NewBuilder()

	assert.Equal(t, All{}, b.BuildFilterDocument(nil))
	assert.Equal(t, All{}, b.BuildFilterDocument([]models.ColumnFilter{models.NewColumnFilter("a")}))
	assert.Empty(t, Document(b.BuildFilterDocument(nil)))
}

func TestBuildFilterDocumentSingle(t *testing.T) {
	b := NewBuilder()
	b.Policy = PolicyConnector

	f := columnFilter("a", models.ConnNot, models.OpEqual, "1")
	assert.Equal(t, Compare{Field: "a", Op: Eq, Value: int64(1)}, b.BuildFilterDocument([]models.ColumnFilter{f}))
}

func TestBuildFilterDocumentPolicies(t *testing.T) {
	filters := []models.ColumnFilter{
		columnFilter("a", models.ConnAnd, models.OpEqual, "1"),
		columnFilter("b", models.ConnOr, models.OpEqual, "2"),
	}

	tests := []struct {
		policy Policy
		doc    map[string]any
		want   bool
	}{
		{PolicyAnd, map[string]any{"a": 1, "b": 2}, true},
		{PolicyAnd, map[string]any{"a": 1, "b": 3}, false},
		{PolicyConnector, map[string]any{"a": 0, "b": 2}, true},
		{PolicyConnector, map[string]any{"a": 0, "b": 0}, false},
		{PolicyConnectorNor, map[string]any{"a": 1, "b": 0}, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			b := NewBuilder()
			b.Policy = tt.policy
			assert.Equal(t, tt.want, Matches(b.BuildFilterDocument(filters), tt.doc))
		})
	}
}

func TestBuildFilterDocumentAndPolicyIsFlat(t *testing.T) {
	b := NewBuilder()

	p := b.BuildFilterDocument([]models.ColumnFilter{
		columnFilter("a", models.ConnAnd, models.OpEqual, "1"),
		columnFilter("b", models.ConnOr, models.OpEqual, "2"),
		columnFilter("c", models.ConnNot, models.OpEqual, "3"),
	})

	and, ok := p.(And)
	assert.True(t, ok)
	assert.Len(t, and.Terms, 3)
}

func TestBuildFilterDocumentNot(t *testing.T) {
	b := NewBuilder()
	b.Policy = PolicyConnector

	p := b.BuildFilterDocument([]models.ColumnFilter{
		columnFilter("a", models.ConnAnd, models.OpGreaterThan, "0"),
		columnFilter("b", models.ConnNot, models.OpEqual, "x"),
	})

	assert.True(t, Matches(p, map[string]any{"a": 1, "b": "y"}))
	assert.False(t, Matches(p, map[string]any{"a": 1, "b": "x"}))
}

func TestBuildFilterDocumentNor(t *testing.T) {
	filters := []models.ColumnFilter{
		columnFilter("a", models.ConnAnd, models.OpEqual, "1"),
		columnFilter("b", models.ConnNor, models.OpEqual, "2"),
	}

	b := NewBuilder()
	b.Policy = PolicyConnectorNor
	p := b.BuildFilterDocument(filters)
	assert.Equal(t, Nor{Terms: []Predicate{
		Compare{Field: "a", Op: Eq, Value: int64(1)},
		Compare{Field: "b", Op: Eq, Value: int64(2)},
	}}, p)
	assert.True(t, Matches(p, map[string]any{"a": 0, "b": 0}))
	assert.False(t, Matches(p, map[string]any{"a": 0, "b": 2}))

	// without NOR support the connector degrades to AND
	b.Policy = PolicyConnector
	assert.IsType(t, And{}, b.BuildFilterDocument(filters))
}

func TestBuildQueryCombinesSearch(t *testing.T) {
	b := NewBuilder()

	p := b.BuildQuery([]models.ColumnFilter{columnFilter("a", models.ConnAnd, models.OpEqual, "1")}, "b > 3", []string{"a", "b"})
	assert.Equal(t, And{Terms: []Predicate{
		Compare{Field: "a", Op: Eq, Value: int64(1)},
		Compare{Field: "b", Op: Gt, Value: int64(3)},
	}}, p)

	assert.Equal(t, All{}, b.BuildQuery(nil, "  ", []string{"a"}))
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, PolicyConnector, ParsePolicy("connector"))
	assert.Equal(t, PolicyConnectorNor, ParsePolicy("connector_nor"))
	assert.Equal(t, PolicyAnd, ParsePolicy("bogus"))
	assert.Equal(t, PolicyAnd, ParsePolicy(""))
}
