package filter

// Predicate is a node of a compiled boolean test over document fields.
// Document serialises a tree to the store's filter shape and Matches
// evaluates it in memory.
type Predicate interface {
	predicate()
}

// CompareOp is a scalar comparison
type CompareOp string

const (
	Eq  CompareOp = "$eq"
	Ne  CompareOp = "$ne"
	Gt  CompareOp = "$gt"
	Gte CompareOp = "$gte"
	Lt  CompareOp = "$lt"
	Lte CompareOp = "$lte"
)

// All matches every document
type All struct{}

// Compare tests Field against a scalar operand
type Compare struct {
	Field string
	Op    CompareOp
	Value any
}

// Range tests Min <= Field <= Max
type Range struct {
	Field string
	Min   any
	Max   any
}

// In tests membership of Field in Values, or non-membership when Negate is set
type In struct {
	Field  string
	Values []any
	Negate bool
}

// Pattern tests Field against a regular expression
type Pattern struct {
	Field           string
	Expr            string
	CaseInsensitive bool
}

// TypeIs tests the BSON type alias of Field
type TypeIs struct {
	Field string
	Type  string
}

// Empty matches documents where Field is absent, null or NaN.
// With Negate it matches documents where it is none of those.
type Empty struct {
	Field  string
	Negate bool
}

// And is a conjunction
type And struct {
	Terms []Predicate
}

// Or is a disjunction
type Or struct {
	Terms []Predicate
}

// Not negates a single term
type Not struct {
	Term Predicate
}

// Nor holds when none of its terms hold
type Nor struct {
	Terms []Predicate
}

func (All) predicate()     {}
func (Compare) predicate() {}
func (Range) predicate()   {}
func (In) predicate()      {}
func (Pattern) predicate() {}
func (TypeIs) predicate()  {}
func (Empty) predicate()   {}
func (And) predicate()     {}
func (Or) predicate()      {}
func (Not) predicate()     {}
func (Nor) predicate()     {}

// IsAll reports whether p matches everything
func IsAll(p Predicate) bool {
	if p == nil {
		return true
	}
	_, ok := p.(All)
	return ok
}

// Conjoin ANDs two predicates, treating nil and All as neutral
func Conjoin(left, right Predicate) Predicate {
	switch {
	case IsAll(left) && IsAll(right):
		return All{}
	case IsAll(left):
		return right
	case IsAll(right):
		return left
	}
	return And{Terms: []Predicate{left, right}}
}

// emptyTerms are the three representations of "no value"
func emptyTerms(field string) []Predicate {
	return []Predicate{
		Compare{Field: field, Op: Eq, Value: nil},
		TypeIs{Field: field, Type: "null"},
		Compare{Field: field, Op: Eq, Value: nan()},
	}
}
