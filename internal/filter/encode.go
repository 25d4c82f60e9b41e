package filter

import (
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"
)

func nan() float64 {
	return math.NaN()
}

// Document serialises a predicate to a MongoDB filter document
func Document(p Predicate) bson.D {
	if p == nil {
		return bson.D{}
	}

	switch n := p.(type) {
	case All:
		return bson.D{}
	case Compare:
		return bson.D{{Key: n.Field, Value: bson.D{{Key: string(n.Op), Value: n.Value}}}}
	case Range:
		return bson.D{{Key: n.Field, Value: bson.D{
			{Key: "$gte", Value: n.Min},
			{Key: "$lte", Value: n.Max},
		}}}
	case In:
		op := "$in"
		if n.Negate {
			op = "$nin"
		}
		values := make(bson.A, len(n.Values))
		copy(values, n.Values)
		return bson.D{{Key: n.Field, Value: bson.D{{Key: op, Value: values}}}}
	case Pattern:
		cond := bson.D{{Key: "$regex", Value: n.Expr}}
		if n.CaseInsensitive {
			cond = append(cond, bson.E{Key: "$options", Value: "i"})
		}
		return bson.D{{Key: n.Field, Value: cond}}
	case TypeIs:
		return bson.D{{Key: n.Field, Value: bson.D{{Key: "$type", Value: n.Type}}}}
	case Empty:
		op := "$or"
		if n.Negate {
			op = "$nor"
		}
		return bson.D{{Key: op, Value: documents(emptyTerms(n.Field))}}
	case And:
		return logical("$and", n.Terms)
	case Or:
		return logical("$or", n.Terms)
	case Nor:
		return logical("$nor", n.Terms)
	case Not:
		// $not is field-level only; a single-term $nor negates any expression
		return logical("$nor", []Predicate{n.Term})
	default:
		panic(fmt.Sprintf("filter: unknown predicate %T", p))
	}
}

func logical(op string, terms []Predicate) bson.D {
	return bson.D{{Key: op, Value: documents(terms)}}
}

func documents(terms []Predicate) bson.A {
	out := make(bson.A, 0, len(terms))
	for _, t := range terms {
		out = append(out, Document(t))
	}
	return out
}

// ExtJSON renders the filter document as relaxed Extended JSON
func ExtJSON(doc any) (string, error) {
	data, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return "", fmt.Errorf("failed to marshal query: %w", err)
	}
	return string(data), nil
}
