package filter

import (
	"math"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Matches evaluates p against an in-memory document with MongoDB-like
// semantics: numbers compare across int and float, strings compare only with
// strings, array fields match when any element does, and a missing field
// equals null.
func Matches(p Predicate, doc map[string]any) bool {
	switch n := p.(type) {
	case nil, All:
		return true
	case Compare:
		v, ok := lookup(doc, n.Field)
		if n.Op == Ne {
			return !anyElem(v, ok, func(x any, present bool) bool { return equal(x, present, n.Value) })
		}
		return anyElem(v, ok, func(x any, present bool) bool { return compare(x, present, n.Op, n.Value) })
	case Range:
		v, ok := lookup(doc, n.Field)
		return anyElem(v, ok, func(x any, present bool) bool {
			return compare(x, present, Gte, n.Min) && compare(x, present, Lte, n.Max)
		})
	case In:
		v, ok := lookup(doc, n.Field)
		in := anyElem(v, ok, func(x any, present bool) bool {
			for _, want := range n.Values {
				if equal(x, present, want) {
					return true
				}
			}
			return false
		})
		return in != n.Negate
	case Pattern:
		expr := n.Expr
		if n.CaseInsensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return false
		}
		v, ok := lookup(doc, n.Field)
		return anyElem(v, ok, func(x any, present bool) bool {
			s, isStr := x.(string)
			return present && isStr && re.MatchString(s)
		})
	case TypeIs:
		v, ok := lookup(doc, n.Field)
		return ok && n.Type == "null" && v == nil
	case Empty:
		v, ok := lookup(doc, n.Field)
		empty := !ok || v == nil || isNaN(v)
		return empty != n.Negate
	case And:
		for _, t := range n.Terms {
			if !Matches(t, doc) {
				return false
			}
		}
		return true
	case Or:
		for _, t := range n.Terms {
			if Matches(t, doc) {
				return true
			}
		}
		return false
	case Nor:
		for _, t := range n.Terms {
			if Matches(t, doc) {
				return false
			}
		}
		return true
	case Not:
		return !Matches(n.Term, doc)
	default:
		return false
	}
}

func lookup(doc map[string]any, path string) (any, bool) {
	var cur any = doc
	for _, key := range strings.Split(path, ".") {
		switch m := cur.(type) {
		case map[string]any:
			v, ok := m[key]
			if !ok {
				return nil, false
			}
			cur = v
		case bson.M:
			v, ok := m[key]
			if !ok {
				return nil, false
			}
			cur = v
		case bson.D:
			found := false
			for _, e := range m {
				if e.Key == key {
					cur, found = e.Value, true
					break
				}
			}
			if !found {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return cur, true
}

// anyElem applies fn to the value, or to each element when the value is an array
func anyElem(v any, present bool, fn func(any, bool) bool) bool {
	var elems []any
	switch a := v.(type) {
	case []any:
		elems = a
	case bson.A:
		elems = a
	default:
		return fn(v, present)
	}
	for _, e := range elems {
		if fn(e, true) {
			return true
		}
	}
	return fn(v, present)
}

func equal(v any, present bool, want any) bool {
	if want == nil {
		return !present || v == nil
	}
	if !present {
		return false
	}
	if wf, ok := toFloat(want); ok {
		vf, ok := toFloat(v)
		if !ok {
			return false
		}
		if math.IsNaN(wf) {
			return math.IsNaN(vf)
		}
		return vf == wf
	}
	return v == want
}

func compare(v any, present bool, op CompareOp, want any) bool {
	switch op {
	case Eq:
		return equal(v, present, want)
	case Ne:
		return !equal(v, present, want)
	}
	if !present || v == nil || want == nil {
		return false
	}

	var c int
	if wf, ok := toFloat(want); ok {
		vf, ok := toFloat(v)
		if !ok || math.IsNaN(vf) || math.IsNaN(wf) {
			return false
		}
		switch {
		case vf < wf:
			c = -1
		case vf > wf:
			c = 1
		}
	} else {
		ws, ok := want.(string)
		vs, ok2 := v.(string)
		if !ok || !ok2 {
			return false
		}
		c = strings.Compare(vs, ws)
	}

	switch op {
	case Gt:
		return c > 0
	case Gte:
		return c >= 0
	case Lt:
		return c < 0
	case Lte:
		return c <= 0
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func isNaN(v any) bool {
	f, ok := v.(float64)
	return ok && math.IsNaN(f)
}
