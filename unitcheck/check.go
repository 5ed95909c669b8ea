// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package unitcheck infers the physical unit type of every variable
// of a Squiggle program and reports derivations that disagree.
//
// Checking runs in two passes. The first walks the syntax tree once
// and collects requirements: constraints over variables, function
// parameters and units that must each reduce to the unitless type.
// Arithmetic combines operand types (x * y adds exponents, x / y
// subtracts them) and operators that need matching operands (+, -,
// comparisons, "to", the branches of a ternary) require the quotient
// of their operand types to be unitless. The second pass solves the
// requirements for as many variables as it can.
//
// A name the checker cannot find is treated as unconstrained: the
// compiler, which runs first, is responsible for reporting it.
package unitcheck // import "github.com/squiggle-lang/squiggle-go/unitcheck"

import (
	"github.com/squiggle-lang/squiggle-go/syntax"
	"github.com/squiggle-lang/squiggle-go/units"
)

// A Variable is a declared variable whose unit type was solved.
type Variable struct {
	ID    units.VariableID
	Name  string
	Ident *syntax.Identifier
	Units units.Units
}

// A FunctionSignature describes the result type of a user function
// in terms of its parameters.
type FunctionSignature struct {
	Name   string
	Params []string
	Result string // "any" if nothing is known
}

func (sig FunctionSignature) String() string {
	name := sig.Name
	if name == "" {
		name = "<anonymous>"
	}
	s := name + "("
	for i, p := range sig.Params {
		if i > 0 {
			s += ", "
		}
		s += p
	}
	return s + ") :: " + sig.Result
}

// A Result is the solved unit table of a program.
type Result struct {
	// Variables holds the solved variables that appear in the source,
	// in declaration order. Variables synthesized by the checker are
	// never included.
	Variables []Variable
	Functions []FunctionSignature

	byIdent map[*syntax.Identifier]units.Units
}

// Lookup returns the unit type of the last declared variable called name.
func (r *Result) Lookup(name string) (units.Units, bool) {
	for i := len(r.Variables) - 1; i >= 0; i-- {
		if r.Variables[i].Name == name {
			return r.Variables[i].Units, true
		}
	}
	return nil, false
}

// UnitOf returns the unit type of the variable declared by id.
func (r *Result) UnitOf(id *syntax.Identifier) (units.Units, bool) {
	u, ok := r.byIdent[id]
	return u, ok
}

// Check infers unit types for prog.
//
// It returns a *syntax.Error of kind UnitConflictError if two
// derivations disagree, or StructuralError for a malformed unit
// annotation. Checking stops at the first error.
func Check(prog *syntax.Program) (*Result, error) {
	var reqs []requirement
	c := &checker{scope: newScope(), out: &reqs}
	c.stmts(prog.Statements)
	if prog.Result != nil {
		c.expr(prog.Result)
	}
	if c.err != nil {
		c.err.Path = prog.Path
		return nil, c.err
	}

	sol, err := c.solve(reqs)
	if err != nil {
		err.(*syntax.Error).Path = prog.Path
		return nil, err
	}

	res := &Result{byIdent: make(map[*syntax.Identifier]units.Units)}
	for id, v := range c.variables {
		if v.synthetic {
			continue
		}
		u, ok := sol.units[units.VariableID(id)]
		if !ok {
			continue
		}
		res.Variables = append(res.Variables, Variable{
			ID:    units.VariableID(id),
			Name:  v.name,
			Ident: v.ident,
			Units: u,
		})
		res.byIdent[v.ident] = u
	}

	for fid := range c.functions {
		res.Functions = append(res.Functions, c.describeFunction(units.FunctionID(fid), sol))
	}
	return res, nil
}

// describeFunction expresses the result type of a function in terms of its
// parameter names. The function's own requirements are solved with
// each parameter standing for an opaque unit of the same name, which
// eliminates the local variables the result was derived through.
func (info *scopeInfo) describeFunction(fid units.FunctionID, global *solution) FunctionSignature {
	fn := info.functions[fid]
	opaque := units.Substitution{
		Parameter: func(p units.Param) (units.Constraint, bool) {
			return units.Unit(info.paramName(p)), true
		},
	}
	var reqs []requirement
	for _, req := range fn.constraints {
		reqs = append(reqs, requirement{units.Expand(req.c, opaque), req.node})
	}
	local, err := info.solve(reqs)
	if err != nil {
		// A body that contradicts itself for every argument type
		// is reported at its call sites.
		local = &solution{}
	}
	solved := units.Substitution{
		Variable: func(v units.VariableID) (units.Constraint, bool) {
			if u, ok := local.units[v]; ok {
				return units.FromUnits(u), true
			}
			if u, ok := global.units[v]; ok {
				return units.FromUnits(u), true
			}
			return units.Constraint{}, false
		},
	}
	result := units.Expand(units.Expand(fn.result, opaque), solved)
	return FunctionSignature{
		Name:   fn.name,
		Params: fn.params,
		Result: result.Format(info.varName, info.paramName),
	}
}
