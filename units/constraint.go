// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package units defines the algebra of unit-type constraints used by
// the unit checker.
//
// A Constraint is a product of variables, function parameters and
// physical units, each raised to an integer exponent. It stands either
// for the unit type of an expression or, in the checker's constraint
// list, for a requirement that the product be unitless.
//
// Constraints are values: the operations of this package never modify
// their operands.
package units

import (
	"sort"
	"strconv"
	"strings"
)

// A VariableID identifies one declared (or synthesized) variable
// within one unit-checking pass.
type VariableID int

// A FunctionID identifies one user-defined function within one
// unit-checking pass.
type FunctionID int

// A Param is a positional parameter placeholder of a user function.
// Parameters are keyed by their function so that a nested lambda's
// placeholders never collide with those of the enclosing function.
type Param struct {
	Func  FunctionID
	Index int
}

// A Constraint is a product of variables, parameters and units.
//
// The zero Constraint has Defined == false and is the unconstrained
// ("any unit") value. A defined constraint with no entries is the
// unitless value.
type Constraint struct {
	Defined    bool
	Variables  map[VariableID]int
	Parameters map[Param]int
	Units      map[string]int
}

// Empty returns the unitless constraint.
func Empty() Constraint { return Constraint{Defined: true} }

// Unconstrained returns the constraint that admits any unit.
func Unconstrained() Constraint { return Constraint{} }

// Variable returns the unit type of variable id.
func Variable(id VariableID) Constraint {
	return Constraint{Defined: true, Variables: map[VariableID]int{id: 1}}
}

// Parameter returns the unit type of parameter p.
func Parameter(p Param) Constraint {
	return Constraint{Defined: true, Parameters: map[Param]int{p: 1}}
}

// Unit returns the constraint of the named physical unit.
func Unit(name string) Constraint {
	return Constraint{Defined: true, Units: map[string]int{name: 1}}
}

// FromUnits returns the constraint equal to the solved unit type u.
func FromUnits(u Units) Constraint {
	return Constraint{Defined: true, Units: scale(u, 1)}
}

// Multiply returns a * b. Unconstrained absorbs.
func Multiply(a, b Constraint) Constraint { return combine(a, b, +1) }

// Divide returns a / b. Unconstrained absorbs.
// Dividing a constraint by itself yields the unitless constraint,
// which is how the checker expresses equality.
func Divide(a, b Constraint) Constraint { return combine(a, b, -1) }

// Pow returns a raised to the integer power n.
func Pow(a Constraint, n int) Constraint {
	if !a.Defined {
		return a
	}
	return Constraint{
		Defined:    true,
		Variables:  scale(a.Variables, n),
		Parameters: scale(a.Parameters, n),
		Units:      scale(a.Units, n),
	}
}

func combine(a, b Constraint, sign int) Constraint {
	if !a.Defined || !b.Defined {
		return Unconstrained()
	}
	return Constraint{
		Defined:    true,
		Variables:  addExponents(a.Variables, b.Variables, sign),
		Parameters: addExponents(a.Parameters, b.Parameters, sign),
		Units:      addExponents(a.Units, b.Units, sign),
	}
}

// addExponents returns x + sign*y with zero exponents pruned.
// The result is nil if it has no entries.
func addExponents[K comparable](x, y map[K]int, sign int) map[K]int {
	var z map[K]int
	put := func(k K, e int) {
		if z == nil {
			z = make(map[K]int)
		}
		if e == 0 {
			delete(z, k)
		} else {
			z[k] = e
		}
	}
	for k, e := range x {
		put(k, e)
	}
	for k, e := range y {
		put(k, z[k]+sign*e)
	}
	if len(z) == 0 {
		return nil
	}
	return z
}

func scale[K comparable](x map[K]int, n int) map[K]int {
	if n == 0 || len(x) == 0 {
		return nil
	}
	z := make(map[K]int, len(x))
	for k, e := range x {
		z[k] = e * n
	}
	return z
}

// IsEmpty reports whether c is the unitless constraint.
func (c Constraint) IsEmpty() bool {
	return c.Defined && len(c.Variables) == 0 && len(c.Parameters) == 0 && len(c.Units) == 0
}

// HasParameters reports whether c mentions any parameter placeholder.
func (c Constraint) HasParameters() bool { return len(c.Parameters) > 0 }

// HasParametersOf reports whether c mentions a parameter of function f.
func (c Constraint) HasParametersOf(f FunctionID) bool {
	for p := range c.Parameters {
		if p.Func == f {
			return true
		}
	}
	return false
}

// FreeVariables returns the variables of c in ascending order.
func (c Constraint) FreeVariables() []VariableID {
	vars := make([]VariableID, 0, len(c.Variables))
	for v := range c.Variables {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	return vars
}

// A Substitution replaces variables and parameters during Expand.
// A nil function substitutes nothing.
type Substitution struct {
	Variable  func(VariableID) (Constraint, bool)
	Parameter func(Param) (Constraint, bool)
}

// Expand returns c with every variable and parameter for which s
// supplies a replacement raised to its exponent and multiplied in.
// An unconstrained replacement makes the whole result unconstrained.
func Expand(c Constraint, s Substitution) Constraint {
	if !c.Defined {
		return c
	}
	result := Constraint{Defined: true, Units: scale(c.Units, 1)}
	for v, e := range c.Variables {
		if s.Variable != nil {
			if r, ok := s.Variable(v); ok {
				result = Multiply(result, Pow(r, e))
				continue
			}
		}
		result = Multiply(result, Pow(Variable(v), e))
	}
	for p, e := range c.Parameters {
		if s.Parameter != nil {
			if r, ok := s.Parameter(p); ok {
				result = Multiply(result, Pow(r, e))
				continue
			}
		}
		result = Multiply(result, Pow(Parameter(p), e))
	}
	return result
}

// Format renders c using the supplied names for variables and parameters.
func (c Constraint) Format(varName func(VariableID) string, paramName func(Param) string) string {
	if !c.Defined {
		return "any"
	}
	exps := make(map[string]int)
	for u, e := range c.Units {
		exps[u] += e
	}
	for v, e := range c.Variables {
		exps[varName(v)] += e
	}
	for p, e := range c.Parameters {
		exps[paramName(p)] += e
	}
	return Units(exps).String()
}

// Units is a solved unit type: a map from base unit name to its
// nonzero exponent. The empty map is unitless.
type Units map[string]int

// String renders u as a product, e.g. "meters^2 / seconds".
func (u Units) String() string {
	var num, den []string
	names := make([]string, 0, len(u))
	for name := range u {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		switch e := u[name]; {
		case e == 1:
			num = append(num, name)
		case e > 1:
			num = append(num, name+"^"+strconv.Itoa(e))
		case e == -1:
			den = append(den, name)
		case e < -1:
			den = append(den, name+"^"+strconv.Itoa(-e))
		}
	}
	var buf strings.Builder
	if len(num) == 0 {
		buf.WriteString("1")
	} else {
		buf.WriteString(strings.Join(num, " * "))
	}
	switch len(den) {
	case 0:
	case 1:
		buf.WriteString(" / ")
		buf.WriteString(den[0])
	default:
		buf.WriteString(" / (")
		buf.WriteString(strings.Join(den, " * "))
		buf.WriteString(")")
	}
	return buf.String()
}

// Equal reports whether u and v denote the same unit type.
func (u Units) Equal(v Units) bool {
	if len(u) != len(v) {
		return false
	}
	for name, e := range u {
		if v[name] != e {
			return false
		}
	}
	return true
}
