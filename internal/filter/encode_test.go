package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDocument(t *testing.T) {
	tests := []struct {
		name string
		in   Predicate
		want string
	}{
		{"all", All{}, `{}`},
		{"nil", nil, `{}`},
		{"compare", Compare{Field: "a", Op: Gt, Value: int64(3)}, `{"a":{"$gt":3}}`},
		{"range", Range{Field: "a", Min: 1.5, Max: 2.5}, `{"a":{"$gte":1.5,"$lte":2.5}}`},
		{"in", In{Field: "s", Values: []any{"x", "y"}}, `{"s":{"$in":["x","y"]}}`},
		{"nin", In{Field: "s", Values: []any{"x"}, Negate: true}, `{"s":{"$nin":["x"]}}`},
		{"pattern", Pattern{Field: "s", Expr: "^a", CaseInsensitive: true}, `{"s":{"$regex":"^a","$options":"i"}}`},
		{"not", Not{Term: Compare{Field: "s", Op: Eq, Value: "x"}}, `{"$nor":[{"s":{"$eq":"x"}}]}`},
		{"or", Or{Terms: []Predicate{
			Compare{Field: "a", Op: Eq, Value: "x"},
			Compare{Field: "b", Op: Ne, Value: "y"},
		}}, `{"$or":[{"a":{"$eq":"x"}},{"b":{"$ne":"y"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := bson.MarshalExtJSON(Document(tt.in), false, false)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestDocumentEmpty(t *testing.T) {
	doc := Document(Empty{Field: "f"})
	require.Len(t, doc, 1)
	assert.Equal(t, "$or", doc[0].Key)

	js, err := ExtJSON(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"$or":[{"f":{"$eq":null}},{"f":{"$type":"null"}},{"f":{"$eq":{"$numberDouble":"NaN"}}}]}`, js)
}

func TestConjoin(t *testing.T) {
	c := Compare{Field: "a", Op: Eq, Value: "x"}

	assert.Equal(t, All{}, Conjoin(nil, All{}))
	assert.Equal(t, c, Conjoin(All{}, c))
	assert.Equal(t, c, Conjoin(c, nil))
	assert.Equal(t, And{Terms: []Predicate{c, c}}, Conjoin(c, c))
}
