package filter

import (
	"math"
	"regexp"
	"strings"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

// integerBand is the absolute tolerance used when the search text is an integer
const integerBand = 5

// floatBand is the relative tolerance used when the search text is a decimal
const floatBand = 0.1

// BuildSearch compiles the free-text search box. Text of the form
// "column <op> value" becomes a single condition; anything else is matched
// against every known column.
func (b *Builder) BuildSearch(text string, columns []string) (p Predicate) {
	defer b.guard("search", &p)

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if hasOperatorKeyword(text) {
		parts := strings.Fields(text)
		if len(parts) >= 3 {
			value := unquote(strings.Join(parts[2:], " "))
			if cond := b.BuildCondition(parts[0], models.ParseOperator(parts[1]), value); cond != nil {
				return cond
			}
		}
	}

	return b.fuzzySearch(text, columns)
}

func (b *Builder) fuzzySearch(text string, columns []string) Predicate {
	expr := text
	if _, err := regexp.Compile(expr); err != nil {
		expr = regexp.QuoteMeta(text)
	}
	num, numeric := parseNumber(text)

	var terms []Predicate
	for _, col := range columns {
		if numeric {
			terms = append(terms, Compare{Field: col, Op: Eq, Value: num})
			lo, hi := band(num)
			terms = append(terms, Range{Field: col, Min: lo, Max: hi})
		}
		terms = append(terms, Pattern{Field: col, Expr: expr, CaseInsensitive: true})
	}

	if len(terms) == 0 {
		return nil
	}
	return Or{Terms: terms}
}

// band returns the tolerance interval around a parsed search number
func band(n any) (any, any) {
	switch v := n.(type) {
	case int64:
		return v - integerBand, v + integerBand
	case float64:
		d := math.Abs(v) * floatBand
		return v - d, v + d
	default:
		return n, n
	}
}

func hasOperatorKeyword(text string) bool {
	fields := strings.Fields(text)
	// the keyword must be surrounded by spaces, so never the first or last token
	for i := 1; i < len(fields)-1; i++ {
		if _, ok := models.LookupOperator(fields[i]); ok {
			return true
		}
	}
	return false
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}
