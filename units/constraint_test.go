// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package units_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/squiggle-lang/squiggle-go/units"
)

var (
	meters  = units.Unit("meters")
	seconds = units.Unit("seconds")
	x       = units.Variable(0)
	y       = units.Variable(1)
	p0      = units.Parameter(units.Param{Func: 0, Index: 0})
)

// equateEmpty treats nil and empty exponent maps alike.
var equateEmpty = cmpopts.EquateEmpty()

func TestAlgebra(t *testing.T) {
	for _, test := range []struct {
		name string
		got  units.Constraint
		want units.Constraint
	}{
		{"unconstrained absorbs multiply", units.Multiply(units.Unconstrained(), meters), units.Unconstrained()},
		{"unconstrained absorbs divide", units.Divide(x, units.Unconstrained()), units.Unconstrained()},
		{"unconstrained absorbs pow", units.Pow(units.Unconstrained(), 3), units.Unconstrained()},
		{"empty is identity", units.Multiply(units.Empty(), meters), meters},
		{"self division", units.Divide(meters, meters), units.Empty()},
		{"variable self division", units.Divide(units.Multiply(x, meters), units.Multiply(x, meters)), units.Empty()},
		{"parameter self division", units.Divide(p0, p0), units.Empty()},
		{"pow zero", units.Pow(meters, 0), units.Empty()},
		{
			"exponents add",
			units.Multiply(units.Multiply(meters, meters), units.Divide(x, seconds)),
			units.Constraint{
				Defined:   true,
				Variables: map[units.VariableID]int{0: 1},
				Units:     map[string]int{"meters": 2, "seconds": -1},
			},
		},
		{
			"zero exponents pruned",
			units.Divide(units.Multiply(meters, seconds), seconds),
			meters,
		},
		{
			"pow scales",
			units.Pow(units.Divide(meters, y), -2),
			units.Constraint{
				Defined:   true,
				Variables: map[units.VariableID]int{1: 2},
				Units:     map[string]int{"meters": -2},
			},
		},
	} {
		if diff := cmp.Diff(test.want, test.got, equateEmpty); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", test.name, diff)
		}
	}
}

func TestOperandsUnchanged(t *testing.T) {
	a := units.Multiply(meters, x)
	b := units.Divide(seconds, x)
	units.Multiply(a, b)
	units.Divide(a, a)
	units.Pow(a, 4)
	if diff := cmp.Diff(units.Multiply(meters, x), a, equateEmpty); diff != "" {
		t.Errorf("operand modified (-want +got):\n%s", diff)
	}
}

func TestIsEmpty(t *testing.T) {
	for _, test := range []struct {
		c    units.Constraint
		want bool
	}{
		{units.Empty(), true},
		{units.Unconstrained(), false},
		{meters, false},
		{x, false},
		{p0, false},
		{units.Divide(x, x), true},
	} {
		if got := test.c.IsEmpty(); got != test.want {
			t.Errorf("IsEmpty(%+v) = %t, want %t", test.c, got, test.want)
		}
	}
}

func TestHasParametersOf(t *testing.T) {
	p1 := units.Parameter(units.Param{Func: 1, Index: 0})
	for _, test := range []struct {
		c    units.Constraint
		f    units.FunctionID
		want bool
	}{
		{meters, 0, false},
		{p0, 0, true},
		{p0, 1, false},
		{units.Multiply(p0, p1), 1, true},
		{units.Divide(p1, p1), 1, false},
	} {
		if got := test.c.HasParametersOf(test.f); got != test.want {
			t.Errorf("HasParametersOf(%+v, %d) = %t, want %t", test.c, test.f, got, test.want)
		}
	}
}

func TestFreeVariables(t *testing.T) {
	c := units.Multiply(units.Variable(7), units.Divide(units.Variable(2), units.Pow(units.Variable(4), 2)))
	want := []units.VariableID{2, 4, 7}
	if diff := cmp.Diff(want, c.FreeVariables()); diff != "" {
		t.Errorf("FreeVariables mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand(t *testing.T) {
	c := units.Multiply(units.Pow(x, 2), units.Divide(p0, y))
	sub := units.Substitution{
		Variable: func(v units.VariableID) (units.Constraint, bool) {
			if v == 0 {
				return meters, true
			}
			return units.Constraint{}, false
		},
		Parameter: func(p units.Param) (units.Constraint, bool) {
			return seconds, true
		},
	}
	want := units.Constraint{
		Defined:   true,
		Variables: map[units.VariableID]int{1: -1},
		Units:     map[string]int{"meters": 2, "seconds": 1},
	}
	if diff := cmp.Diff(want, units.Expand(c, sub), equateEmpty); diff != "" {
		t.Errorf("Expand mismatch (-want +got):\n%s", diff)
	}

	// An unconstrained replacement makes the result unconstrained.
	sub.Parameter = func(units.Param) (units.Constraint, bool) { return units.Unconstrained(), true }
	if got := units.Expand(c, sub); got.Defined {
		t.Errorf("Expand with unconstrained parameter = %+v, want unconstrained", got)
	}

	// The empty substitution is the identity.
	if diff := cmp.Diff(c, units.Expand(c, units.Substitution{}), equateEmpty); diff != "" {
		t.Errorf("Expand with no substitution (-want +got):\n%s", diff)
	}
}

func TestFormat(t *testing.T) {
	varName := func(v units.VariableID) string { return []string{"x", "y"}[v] }
	paramName := func(units.Param) string { return "a" }
	for _, test := range []struct {
		c    units.Constraint
		want string
	}{
		{units.Unconstrained(), "any"},
		{units.Empty(), "1"},
		{units.Divide(units.Multiply(p0, meters), y), "a * meters / y"},
		{units.Pow(x, 2), "x^2"},
	} {
		if got := test.c.Format(varName, paramName); got != test.want {
			t.Errorf("Format(%+v) = %q, want %q", test.c, got, test.want)
		}
	}
}

func TestUnitsString(t *testing.T) {
	for _, test := range []struct {
		u    units.Units
		want string
	}{
		{nil, "1"},
		{units.Units{"meters": 1}, "meters"},
		{units.Units{"meters": 1, "seconds": -1}, "meters / seconds"},
		{units.Units{"seconds": -2}, "1 / seconds^2"},
		{units.Units{"kg": 1, "meters": 2, "seconds": -2}, "kg * meters^2 / seconds^2"},
		{units.Units{"x": 1, "a": -1, "b": -1}, "x / (a * b)"},
	} {
		if got := test.u.String(); got != test.want {
			t.Errorf("%v.String() = %q, want %q", map[string]int(test.u), got, test.want)
		}
	}
}

func TestUnitsEqual(t *testing.T) {
	a := units.Units{"meters": 1, "seconds": -1}
	if !a.Equal(units.Units{"seconds": -1, "meters": 1}) {
		t.Error("equal units reported unequal")
	}
	if a.Equal(units.Units{"meters": 1}) || a.Equal(units.Units{"meters": 1, "seconds": -2}) {
		t.Error("unequal units reported equal")
	}
	if !units.Units(nil).Equal(units.Units{}) {
		t.Error("nil and empty units reported unequal")
	}
}

func TestScaleSuffixes(t *testing.T) {
	for _, s := range []string{"n", "m", "%", "k", "M", "B", "G", "T", "P"} {
		if !units.IsScale(s) {
			t.Errorf("IsScale(%q) = false", s)
		}
	}
	for _, s := range []string{"meters", "", "km", "s"} {
		if units.IsScale(s) {
			t.Errorf("IsScale(%q) = true", s)
		}
	}
}
