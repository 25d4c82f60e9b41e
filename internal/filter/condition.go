package filter

import (
	"strconv"
	"strings"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

// BuildCondition compiles one (column, operator, value) row.
// It returns nil when the row contributes nothing.
func (b *Builder) BuildCondition(column string, op models.Operator, raw string) (p Predicate) {
	defer b.guard("condition", &p)

	column = strings.TrimSpace(column)
	raw = strings.TrimSpace(raw)
	if column == "" || raw == "" {
		return nil
	}

	if op.IsMembership() {
		return b.buildMembership(column, op, raw)
	}

	if b.isEmptyMarker(raw) {
		switch op {
		case models.OpEqual:
			return Empty{Field: column}
		case models.OpNotEqual:
			return Empty{Field: column, Negate: true}
		default:
			return nil
		}
	}

	cmp, ok := compareOps[op]
	if !ok {
		cmp = Eq
	}
	return Compare{Field: column, Op: cmp, Value: parseScalar(raw)}
}

var compareOps = map[models.Operator]CompareOp{
	models.OpEqual:          Eq,
	models.OpNotEqual:       Ne,
	models.OpGreaterThan:    Gt,
	models.OpGreaterOrEqual: Gte,
	models.OpLessThan:       Lt,
	models.OpLessOrEqual:    Lte,
}

func (b *Builder) buildMembership(column string, op models.Operator, raw string) Predicate {
	pieces := []string{raw}
	if strings.Contains(raw, ",") {
		pieces = strings.Split(raw, ",")
	}

	var numbers, strs []any
	values := make([]any, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if b.isEmptyMarker(piece) {
			// the remaining elements are discarded
			return Empty{Field: column, Negate: op == models.OpNotIn}
		}
		values = append(values, piece)
		if n, ok := parseNumber(piece); ok {
			numbers = append(numbers, n)
		} else {
			strs = append(strs, piece)
		}
	}

	negate := op == models.OpNotIn
	switch {
	case len(numbers) > 0 && len(strs) == 0:
		return In{Field: column, Values: numbers, Negate: negate}
	case len(strs) > 0 && len(numbers) == 0:
		return In{Field: column, Values: strs, Negate: negate}
	default:
		return In{Field: column, Values: values, Negate: negate}
	}
}

func (b *Builder) isEmptyMarker(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, "nan") {
		return true
	}
	marker := b.EmptyMarker
	if marker == "" {
		marker = DefaultEmptyMarker
	}
	return strings.EqualFold(v, marker)
}

// parseScalar returns the numeric value of raw, or raw itself
func parseScalar(raw string) any {
	if n, ok := parseNumber(raw); ok {
		return n
	}
	return raw
}

// parseNumber parses a float when the text has a decimal point and an integer otherwise
func parseNumber(raw string) (any, bool) {
	if strings.Contains(raw, ".") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	}
	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return i, true
}
