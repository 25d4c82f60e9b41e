package filter

import (
	"strings"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

// CombineConditions compiles the rows of one column filter.
// connectors[i] joins conditions[i+1] to the running result; a missing
// connector means AND. Folding is strictly left to right.
func (b *Builder) CombineConditions(column string, conditions []models.ColumnCondition, connectors []models.Connector) (p Predicate) {
	defer b.guard("combine", &p)

	var preds []Predicate
	for _, c := range conditions {
		if pred := b.BuildCondition(column, c.Operator, c.Value); pred != nil {
			preds = append(preds, pred)
		}
	}

	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	}

	running := preds[0]
	for i := 1; i < len(preds); i++ {
		conn := models.ConnAnd
		if i-1 < len(connectors) && connectors[i-1] != models.ConnNone {
			conn = connectors[i-1]
		}
		running = fold(running, preds[i], conn, false)
	}
	return running
}

// CombineFilter compiles a ColumnFilter, using each non-empty row's own connector
func (b *Builder) CombineFilter(f models.ColumnFilter) Predicate {
	var conds []models.ColumnCondition
	var connectors []models.Connector
	for _, c := range f.Conditions {
		if strings.TrimSpace(c.Value) == "" {
			continue
		}
		if len(conds) > 0 {
			connectors = append(connectors, c.Connector)
		}
		conds = append(conds, c)
	}
	return b.CombineConditions(f.Column, conds, connectors)
}

// fold joins next onto running. NOT means "running AND NOT next".
func fold(running, next Predicate, conn models.Connector, allowNor bool) Predicate {
	switch conn {
	case models.ConnOr:
		return Or{Terms: []Predicate{running, next}}
	case models.ConnNot:
		return And{Terms: []Predicate{running, Not{Term: next}}}
	case models.ConnNor:
		if allowNor {
			return Nor{Terms: []Predicate{running, next}}
		}
		return And{Terms: []Predicate{running, next}}
	default:
		return And{Terms: []Predicate{running, next}}
	}
}
