// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unitcheck

import (
	"fmt"
	"log"
	"strings"

	"github.com/squiggle-lang/squiggle-go/syntax"
	"github.com/squiggle-lang/squiggle-go/units"
)

const debug = false

// A solution is the solver's output: the unit type of every variable
// it could determine, and the requirement that determined it.
type solution struct {
	units   map[units.VariableID]units.Units
	derived map[units.VariableID]syntax.Node
}

// solve repeatedly scans the requirements, substituting the variables
// solved so far. A requirement left with a single free variable solves
// that variable; it is then moved to the front and the scan resumes
// after it. A requirement with no free variables and a unit remainder
// is a conflict.
//
// This is a forward-propagating worklist, not a complete solver:
// requirements that never come down to one free variable are left
// unsolved.
func (info *scopeInfo) solve(reqs []requirement) (*solution, error) {
	reqs = append([]requirement(nil), reqs...)
	sol := &solution{
		units:   make(map[units.VariableID]units.Units),
		derived: make(map[units.VariableID]syntax.Node),
	}
	sub := units.Substitution{
		Variable: func(v units.VariableID) (units.Constraint, bool) {
			if u, ok := sol.units[v]; ok {
				return units.FromUnits(u), true
			}
			return units.Constraint{}, false
		},
	}

	front := 0
	for i := front; i < len(reqs); i++ {
		req := reqs[i]
		r := units.Expand(req.c, sub)
		if !r.Defined || r.HasParameters() {
			continue
		}
		switch vars := r.FreeVariables(); len(vars) {
		case 0:
			if len(r.Units) > 0 {
				return nil, info.conflict(req, r, sol)
			}
		case 1:
			v := vars[0]
			u, ok := root(r.Units, r.Variables[v])
			if !ok {
				return nil, info.conflict(req, r, sol)
			}
			sol.units[v] = u
			sol.derived[v] = req.node
			if debug {
				log.Printf("%s: %s = %s", syntax.Start(req.node), info.varName(v), u)
			}
		default:
			continue
		}
		reqs[front], reqs[i] = reqs[i], reqs[front]
		front++
		i = front - 1
	}
	return sol, nil
}

// root solves v^e * rest = 1 for v, failing if an exponent of the
// solution would not be an integer.
func root(rest map[string]int, e int) (units.Units, bool) {
	u := make(units.Units, len(rest))
	for name, n := range rest {
		if n%e != 0 {
			return nil, false
		}
		u[name] = -n / e
	}
	return u, true
}

// conflict reports an unsatisfiable requirement, naming each variable
// it mentions together with the derivation of that variable's unit.
func (info *scopeInfo) conflict(req requirement, r units.Constraint, sol *solution) *syntax.Error {
	var buf strings.Builder
	if len(r.Variables) == 1 {
		// Only reachable when the exponent does not divide.
		fmt.Fprintf(&buf, "cannot solve %s for a unit type with integer exponents",
			r.Format(info.varName, info.paramName))
	} else {
		fmt.Fprintf(&buf, "cannot reconcile units: %s", units.Units(r.Units))
	}
	for _, v := range req.c.FreeVariables() {
		u, ok := sol.units[v]
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, "\n\t%s is %s", info.describe(v), u)
		if n := sol.derived[v]; n != nil && n != req.node {
			fmt.Fprintf(&buf, " (derived at %s)", syntax.Start(n))
		}
	}
	return syntax.Errorf(syntax.UnitConflictError, req.node, "%s", buf.String())
}

func (info *scopeInfo) describe(v units.VariableID) string {
	if vr := info.variables[v]; vr.synthetic {
		return "value at " + syntax.Start(vr.node).String()
	}
	return info.varName(v)
}
