package models

import (
	"testing"
)

func TestLookupOperator(t *testing.T) {
	tests := []struct {
		token string
		want  Operator
		ok    bool
	}{
		{"=", OpEqual, true},
		{"<>", OpNotEqual, true},
		{"GTE", OpGreaterOrEqual, true},
		{"nin", OpNotIn, true},
		{"like", "", false},
	}

	for _, tt := range tests {
		got, ok := LookupOperator(tt.token)
		if got != tt.want || ok != tt.ok {
			t.Errorf("LookupOperator(%q) = %q, %v; want %q, %v", tt.token, got, ok, tt.want, tt.ok)
		}
	}

	if ParseOperator("like") != OpEqual {
		t.Error("ParseOperator should default to equality")
	}
}

func TestSortSpecToggle(t *testing.T) {
	var s SortSpec
	s = s.Toggle("name")
	if s.Column != "name" || s.Dir() != 1 {
		t.Fatalf("first toggle = %+v, want name ascending", s)
	}
	s = s.Toggle("name")
	if s.Dir() != -1 {
		t.Errorf("second toggle direction = %d, want -1", s.Dir())
	}
	s = s.Toggle("age")
	if s.Column != "age" || s.Dir() != 1 {
		t.Errorf("new column toggle = %+v, want age ascending", s)
	}
}

func TestAggregationSpecValidate(t *testing.T) {
	tests := []struct {
		spec AggregationSpec
		want error
	}{
		{AggregationSpec{GroupBy: "g", Func: AggCount}, nil},
		{AggregationSpec{Func: AggCount}, ErrMissingGroupBy},
		{AggregationSpec{GroupBy: "g", Func: AggAvg}, ErrMissingTarget},
		{AggregationSpec{GroupBy: "g", Func: "median", Target: "v"}, ErrUnknownAggFunc},
	}

	for _, tt := range tests {
		if err := tt.spec.Validate(); err != tt.want {
			t.Errorf("Validate(%+v) = %v, want %v", tt.spec, err, tt.want)
		}
	}

	if got := (AggregationSpec{GroupBy: "g", Func: AggSum, Target: "v"}).ResultColumn(); got != "sum(v)" {
		t.Errorf("ResultColumn() = %q", got)
	}
}

func TestColumnFilterActive(t *testing.T) {
	f := NewColumnFilter("a")
	if f.Active() {
		t.Error("new filter should be inactive")
	}
	c := f.Clone()
	c.Conditions[0].Value = "1"
	if !c.Active() || f.Active() {
		t.Error("clone should not share conditions")
	}
}
