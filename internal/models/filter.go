package models

import (
	"errors"
	"strings"
)

// Operator represents a per-column comparison operator
type Operator string

const (
	OpEqual          Operator = "eq"
	OpNotEqual       Operator = "ne"
	OpGreaterThan    Operator = "gt"
	OpGreaterOrEqual Operator = "gte"
	OpLessThan       Operator = "lt"
	OpLessOrEqual    Operator = "lte"
	OpIn             Operator = "in"
	OpNotIn          Operator = "nin"
)

// Operators lists every operator in the order the filter panel cycles through them
var Operators = []Operator{
	OpEqual, OpNotEqual,
	OpGreaterThan, OpGreaterOrEqual,
	OpLessThan, OpLessOrEqual,
	OpIn, OpNotIn,
}

// Label returns the human readable name of the operator
func (o Operator) Label() string {
	switch o {
	case OpEqual:
		return "equals"
	case OpNotEqual:
		return "not equals"
	case OpGreaterThan:
		return "greater than"
	case OpGreaterOrEqual:
		return "greater or equal"
	case OpLessThan:
		return "less than"
	case OpLessOrEqual:
		return "less or equal"
	case OpIn:
		return "in list"
	case OpNotIn:
		return "not in list"
	default:
		return string(o)
	}
}

// IsMembership reports whether the operator tests list membership
func (o Operator) IsMembership() bool {
	return o == OpIn || o == OpNotIn
}

// operatorKeywords maps search keywords to operators
var operatorKeywords = map[string]Operator{
	"=":   OpEqual,
	"==":  OpEqual,
	"eq":  OpEqual,
	"!=":  OpNotEqual,
	"<>":  OpNotEqual,
	"ne":  OpNotEqual,
	">":   OpGreaterThan,
	"gt":  OpGreaterThan,
	">=":  OpGreaterOrEqual,
	"gte": OpGreaterOrEqual,
	"<":   OpLessThan,
	"lt":  OpLessThan,
	"<=":  OpLessOrEqual,
	"lte": OpLessOrEqual,
	"in":  OpIn,
	"nin": OpNotIn,
}

// OperatorKeywords returns every keyword recognised by ParseOperator
func OperatorKeywords() []string {
	keywords := make([]string, 0, len(operatorKeywords))
	for k := range operatorKeywords {
		keywords = append(keywords, k)
	}
	return keywords
}

// LookupOperator resolves a keyword to an operator
func LookupOperator(token string) (Operator, bool) {
	op, ok := operatorKeywords[strings.ToLower(strings.TrimSpace(token))]
	return op, ok
}

// ParseOperator resolves a keyword to an operator, defaulting to equality
func ParseOperator(token string) Operator {
	if op, ok := LookupOperator(token); ok {
		return op
	}
	return OpEqual
}

// Connector is a logical operator joining a condition or filter to the ones before it
type Connector string

const (
	ConnNone Connector = ""
	ConnAnd  Connector = "AND"
	ConnOr   Connector = "OR"
	ConnNot  Connector = "NOT"
	ConnNor  Connector = "NOR"
)

// ConditionConnectors are the connectors available between rows of one filter
var ConditionConnectors = []Connector{ConnAnd, ConnOr, ConnNot}

// FilterConnectors are the connectors available between filters
var FilterConnectors = []Connector{ConnAnd, ConnOr, ConnNot, ConnNor}

// ColumnCondition is a single filter row
type ColumnCondition struct {
	Operator  Operator
	Value     string
	Connector Connector // empty for the first row of a filter
}

// ColumnFilter holds the conditions entered for one column
type ColumnFilter struct {
	Column     string
	Conditions []ColumnCondition
	Connector  Connector // inter-filter connector, ignored for the first filter
}

// NewColumnFilter creates a filter with one blank equality row
func NewColumnFilter(column string) ColumnFilter {
	return ColumnFilter{
		Column:     column,
		Conditions: []ColumnCondition{{Operator: OpEqual}},
		Connector:  ConnAnd,
	}
}

// Active reports whether any row carries a value
func (f ColumnFilter) Active() bool {
	for _, c := range f.Conditions {
		if strings.TrimSpace(c.Value) != "" {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the filter
func (f ColumnFilter) Clone() ColumnFilter {
	out := f
	out.Conditions = append([]ColumnCondition(nil), f.Conditions...)
	return out
}

// AggFunc is a grouped aggregation function
type AggFunc string

const (
	AggSum        AggFunc = "sum"
	AggAvg        AggFunc = "avg"
	AggMin        AggFunc = "min"
	AggMax        AggFunc = "max"
	AggFirst      AggFunc = "first"
	AggLast       AggFunc = "last"
	AggPush       AggFunc = "push"
	AggAddToSet   AggFunc = "addToSet"
	AggCount      AggFunc = "count"
	AggStdDevPop  AggFunc = "stdDevPop"
	AggStdDevSamp AggFunc = "stdDevSamp"
)

// AggFuncs lists the aggregation functions in display order
var AggFuncs = []AggFunc{
	AggCount, AggSum, AggAvg, AggMin, AggMax,
	AggFirst, AggLast, AggPush, AggAddToSet,
	AggStdDevPop, AggStdDevSamp,
}

// IsStdDev reports whether the function is one of the standard deviation variants
func (f AggFunc) IsStdDev() bool {
	return f == AggStdDevPop || f == AggStdDevSamp
}

var (
	ErrMissingGroupBy = errors.New("select a column to group by")
	ErrMissingTarget  = errors.New("select a column to aggregate")
	ErrUnknownAggFunc = errors.New("unknown aggregation function")
)

// AggregationSpec describes a group-by aggregation
type AggregationSpec struct {
	GroupBy string
	Func    AggFunc
	Target  string
}

// Validate checks the required parameters of the aggregation
func (s AggregationSpec) Validate() error {
	if strings.TrimSpace(s.GroupBy) == "" {
		return ErrMissingGroupBy
	}
	known := false
	for _, f := range AggFuncs {
		if f == s.Func {
			known = true
			break
		}
	}
	if !known {
		return ErrUnknownAggFunc
	}
	if s.Func != AggCount && strings.TrimSpace(s.Target) == "" {
		return ErrMissingTarget
	}
	return nil
}

// ResultColumn returns the display name of the computed column
func (s AggregationSpec) ResultColumn() string {
	if s.Func == AggCount {
		return "count"
	}
	return string(s.Func) + "(" + s.Target + ")"
}

// SortSpec is the current sort column and direction
type SortSpec struct {
	Column    string
	Direction int // 1 ascending, -1 descending
}

// Toggle flips the direction on the same column, otherwise sorts ascending on the new one
func (s SortSpec) Toggle(column string) SortSpec {
	if s.Column == column && column != "" {
		return SortSpec{Column: column, Direction: -s.dir()}
	}
	return SortSpec{Column: column, Direction: 1}
}

// Dir returns the direction, treating the zero value as ascending
func (s SortSpec) Dir() int {
	return s.dir()
}

func (s SortSpec) dir() int {
	if s.Direction < 0 {
		return -1
	}
	return 1
}
