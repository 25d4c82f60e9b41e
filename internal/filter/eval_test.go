package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMatchesEmpty(t *testing.T) {
	p := Empty{Field: "v"}

	assert.True(t, Matches(p, map[string]any{}))
	assert.True(t, Matches(p, map[string]any{"v": nil}))
	assert.True(t, Matches(p, map[string]any{"v": math.NaN()}))
	assert.False(t, Matches(p, map[string]any{"v": 0}))
	assert.False(t, Matches(p, map[string]any{"v": ""}))

	n := Empty{Field: "v", Negate: true}
	assert.False(t, Matches(n, map[string]any{"v": math.NaN()}))
	assert.True(t, Matches(n, map[string]any{"v": "x"}))
}

func TestMatchesTypeBrackets(t *testing.T) {
	gt := Compare{Field: "v", Op: Gt, Value: int64(1)}

	assert.True(t, Matches(gt, map[string]any{"v": 2.5}))
	assert.False(t, Matches(gt, map[string]any{"v": "9"}))
	assert.False(t, Matches(gt, map[string]any{}))

	ne := Compare{Field: "v", Op: Ne, Value: int64(1)}
	assert.True(t, Matches(ne, map[string]any{}))
	assert.False(t, Matches(ne, map[string]any{"v": 1.0}))
}

func TestMatchesArraysAndPaths(t *testing.T) {
	doc := map[string]any{
		"tags":    bson.A{"red", "blue"},
		"address": bson.M{"city": "Oslo"},
		"meta":    bson.D{{Key: "n", Value: int32(4)}},
	}

	assert.True(t, Matches(Compare{Field: "tags", Op: Eq, Value: "blue"}, doc))
	assert.True(t, Matches(In{Field: "tags", Values: []any{"green", "red"}}, doc))
	assert.False(t, Matches(In{Field: "tags", Values: []any{"red"}, Negate: true}, doc))
	assert.True(t, Matches(Pattern{Field: "address.city", Expr: "^os", CaseInsensitive: true}, doc))
	assert.True(t, Matches(Range{Field: "meta.n", Min: int64(3), Max: int64(5)}, doc))
	assert.False(t, Matches(Compare{Field: "meta.missing", Op: Eq, Value: "x"}, doc))
}

func TestMatchesLogical(t *testing.T) {
	a := Compare{Field: "a", Op: Eq, Value: int64(1)}
	b := Compare{Field: "b", Op: Eq, Value: int64(2)}
	doc := map[string]any{"a": 1, "b": 3}

	assert.False(t, Matches(And{Terms: []Predicate{a, b}}, doc))
	assert.True(t, Matches(Or{Terms: []Predicate{a, b}}, doc))
	assert.False(t, Matches(Nor{Terms: []Predicate{a, b}}, doc))
	assert.True(t, Matches(Not{Term: b}, doc))
	assert.True(t, Matches(All{}, doc))
}
