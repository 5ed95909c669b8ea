// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unitcheck

import (
	"strconv"

	"github.com/squiggle-lang/squiggle-go/syntax"
	"github.com/squiggle-lang/squiggle-go/units"
	"src.elv.sh/pkg/persistent/hash"
	"src.elv.sh/pkg/persistent/hashmap"
)

// A Ref is what a name denotes during unit checking:
// a VariableRef, a FunctionRef or a ParamRef.
type Ref interface {
	ref()
}

// A VariableRef denotes an ordinary variable.
type VariableRef struct{ ID units.VariableID }

// A FunctionRef denotes a user-defined function.
type FunctionRef struct{ ID units.FunctionID }

// A ParamRef denotes a parameter of the function being analyzed.
type ParamRef struct{ Param units.Param }

func (VariableRef) ref() {}
func (FunctionRef) ref() {}
func (ParamRef) ref()    {}

// A Scope maps names to Refs. Scopes are persistent: Bind returns a
// new scope and leaves the receiver unchanged, so a child scope is a
// snapshot of its parent taken in constant time.
type Scope struct {
	names hashmap.Map
}

func newScope() Scope {
	return Scope{hashmap.New(
		func(k1, k2 any) bool { return k1.(string) == k2.(string) },
		func(k any) uint32 { return hash.String(k.(string)) },
	)}
}

// Lookup returns the innermost binding of name.
func (s Scope) Lookup(name string) (Ref, bool) {
	r, ok := s.names.Index(name)
	if !ok {
		return nil, false
	}
	return r.(Ref), true
}

// Bind returns a scope in which name denotes r.
func (s Scope) Bind(name string, r Ref) Scope {
	return Scope{s.names.Assoc(name, r)}
}

// A variable records one declaration, real or synthesized.
type variable struct {
	name      string
	ident     *syntax.Identifier // nil if synthetic
	node      syntax.Node
	synthetic bool
}

// A requirement is a constraint that must reduce to unitless,
// with the node that gave rise to it.
type requirement struct {
	c    units.Constraint
	node syntax.Node
}

// A function holds what the checker learned from a lambda body:
// the requirements found inside it and its result type, both
// expressed over the function's parameter placeholders.
type function struct {
	name        string
	node        *syntax.Lambda
	params      []string
	constraints []requirement
	result      units.Constraint

	// Variables declared while analyzing the body, including those of
	// nested functions, have IDs in [start, end).
	start, end units.VariableID
}

func (fn *function) isLocal(v units.VariableID) bool {
	return fn.start <= v && v < fn.end
}

// scopeInfo is the mutable state of one checking pass.
type scopeInfo struct {
	variables []variable  // indexed by VariableID
	functions []*function // indexed by FunctionID
}

func (info *scopeInfo) declare(name string, ident *syntax.Identifier, node syntax.Node, synthetic bool) units.VariableID {
	id := units.VariableID(len(info.variables))
	info.variables = append(info.variables, variable{name: name, ident: ident, node: node, synthetic: synthetic})
	return id
}

func (info *scopeInfo) nextID() units.VariableID {
	return units.VariableID(len(info.variables))
}

func (info *scopeInfo) varName(v units.VariableID) string {
	if vr := info.variables[v]; !vr.synthetic {
		return vr.name
	}
	return "$" + strconv.Itoa(int(v))
}

func (info *scopeInfo) paramName(p units.Param) string {
	fn := info.functions[p.Func]
	if p.Index < len(fn.params) {
		return fn.params[p.Index]
	}
	return "$param"
}
