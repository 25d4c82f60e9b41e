package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchFuzzyInteger(t *testing.T) {
	b := NewBuilder()

	p := b.BuildSearch("42", []string{"a", "b"})
	assert.Equal(t, Or{Terms: []Predicate{
		Compare{Field: "a", Op: Eq, Value: int64(42)},
		Range{Field: "a", Min: int64(37), Max: int64(47)},
		Pattern{Field: "a", Expr: "42", CaseInsensitive: true},
		Compare{Field: "b", Op: Eq, Value: int64(42)},
		Range{Field: "b", Min: int64(37), Max: int64(47)},
		Pattern{Field: "b", Expr: "42", CaseInsensitive: true},
	}}, p)

	assert.True(t, Matches(p, map[string]any{"a": 40}))
	assert.True(t, Matches(p, map[string]any{"b": "order-42"}))
	assert.False(t, Matches(p, map[string]any{"a": 50, "b": "x"}))
}

func TestBuildSearchFuzzyFloat(t *testing.T) {
	b := NewBuilder()

	p := b.BuildSearch("-10.0", []string{"v"})
	or, ok := p.(Or)
	require.True(t, ok)
	require.Len(t, or.Terms, 3)

	r, ok := or.Terms[1].(Range)
	require.True(t, ok)
	assert.InDelta(t, -11.0, r.Min, 1e-9)
	assert.InDelta(t, -9.0, r.Max, 1e-9)
}

func TestBuildSearchFuzzyText(t *testing.T) {
	b := NewBuilder()

	p := b.BuildSearch("Alice", []string{"name", "email"})
	assert.Equal(t, Or{Terms: []Predicate{
		Pattern{Field: "name", Expr: "Alice", CaseInsensitive: true},
		Pattern{Field: "email", Expr: "Alice", CaseInsensitive: true},
	}}, p)

	assert.True(t, Matches(p, map[string]any{"name": "alice smith"}))
	assert.False(t, Matches(p, map[string]any{"name": "bob"}))
}

func TestBuildSearchEscapesInvalidRegex(t *testing.T) {
	b := NewBuilder()

	p := b.BuildSearch("a(b", []string{"s"})
	assert.Equal(t, Or{Terms: []Predicate{Pattern{Field: "s", Expr: `a\(b`, CaseInsensitive: true}}}, p)
	assert.True(t, Matches(p, map[string]any{"s": "xa(by"}))
}

func TestBuildSearchStructured(t *testing.T) {
	b := NewBuilder()

	tests := []struct {
		text string
		want Predicate
	}{
		{"age >= 21", Compare{Field: "age", Op: Gte, Value: int64(21)}},
		{"name eq \"John Smith\"", Compare{Field: "name", Op: Eq, Value: "John Smith"}},
		{"city = 'Paris'", Compare{Field: "city", Op: Eq, Value: "Paris"}},
		{"status IN a,b", In{Field: "status", Values: []any{"a", "b"}}},
		{"score != nan", Empty{Field: "score", Negate: true}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, b.BuildSearch(tt.text, []string{"other"}))
		})
	}
}

func TestBuildSearchKeywordAtEdgeIsFuzzy(t *testing.T) {
	b := NewBuilder()

	p := b.BuildSearch("in stock", []string{"s"})
	assert.IsType(t, Or{}, p)
}

func TestBuildSearchBlank(t *testing.T) {
	b := NewBuilder()

	assert.Nil(t, b.BuildSearch("   ", []string{"a"}))
	assert.Nil(t, b.BuildSearch("abc", nil))
}
