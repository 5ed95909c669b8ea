// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unitcheck

import (
	"math"

	"github.com/squiggle-lang/squiggle-go/syntax"
	"github.com/squiggle-lang/squiggle-go/units"
)

// A checker collects unit requirements in a single walk of the tree.
type checker struct {
	scopeInfo
	scope Scope
	out   *[]requirement // requirements of the program or of the function being analyzed
	err   *syntax.Error  // first error
}

func (c *checker) errorf(n syntax.Node, format string, args ...interface{}) {
	if c.err == nil {
		c.err = syntax.Errorf(syntax.StructuralError, n, format, args...)
	}
}

// require records that t must be unitless.
// Unconstrained and trivially unitless requirements are dropped.
func (c *checker) require(t units.Constraint, n syntax.Node) {
	if !t.Defined || t.IsEmpty() {
		return
	}
	*c.out = append(*c.out, requirement{t, n})
}

// equal requires x and y to have the same unit type and returns it.
func (c *checker) equal(x, y units.Constraint, n syntax.Node) units.Constraint {
	c.require(units.Divide(x, y), n)
	if x.Defined {
		return x
	}
	return y
}

// block analyzes a child scope and discards its bindings on return.
func (c *checker) block(stmts []syntax.Stmt, result syntax.Expr) units.Constraint {
	defer func(saved Scope) { c.scope = saved }(c.scope)
	c.stmts(stmts)
	if result == nil {
		return units.Unconstrained()
	}
	return c.expr(result)
}

func (c *checker) stmts(stmts []syntax.Stmt) {
	for _, stmt := range stmts {
		c.stmt(stmt)
	}
}

func (c *checker) stmt(stmt syntax.Stmt) {
	_, _, decorators := stmt.Binding()
	for _, d := range decorators {
		for _, arg := range d.Args {
			c.expr(arg)
		}
	}

	switch stmt := stmt.(type) {
	case *syntax.LetStatement:
		name := stmt.Variable.Value
		if lambda, ok := stmt.Value.(*syntax.Lambda); ok && stmt.Unit == nil {
			c.scope = c.scope.Bind(name, FunctionRef{c.lambda(lambda, name)})
			return
		}
		value := c.expr(stmt.Value)
		id := c.declare(name, stmt.Variable, stmt, false)
		v := units.Variable(id)
		if stmt.Unit != nil {
			c.require(units.Divide(v, c.signature(stmt.Unit)), stmt)
		}
		// An annotated literal takes its unit from the annotation.
		if stmt.Unit == nil || !isLiteral(stmt.Value) {
			c.require(units.Divide(v, value), stmt)
		}
		c.scope = c.scope.Bind(name, VariableRef{id})

	case *syntax.DefunStatement:
		name := stmt.Variable.Value
		c.scope = c.scope.Bind(name, FunctionRef{c.lambda(stmt.Value, name)})

	default:
		panic(stmt)
	}
}

// isLiteral reports whether e is computed from numeric literals alone,
// as in 5, -2, 3k, 2 * 3 or 5 to 10.
func isLiteral(e syntax.Expr) bool {
	switch e := e.(type) {
	case *syntax.Float:
		return true
	case *syntax.UnitValue:
		return units.IsScale(e.Unit)
	case *syntax.UnaryCall:
		return e.Op == "-" && isLiteral(e.Arg)
	case *syntax.InfixCall:
		return isLiteral(e.Args[0]) && isLiteral(e.Args[1])
	case *syntax.Block:
		return len(e.Statements) == 0 && isLiteral(e.Result)
	}
	return false
}

// expr returns the unit type of e and records the requirements found within it.
func (c *checker) expr(e syntax.Expr) units.Constraint {
	switch e := e.(type) {
	case *syntax.Identifier:
		return c.ident(e)

	case *syntax.Float:
		return units.Empty()

	case *syntax.UnitValue:
		if units.IsScale(e.Unit) {
			return units.Empty()
		}
		return units.Unit(e.Unit)

	case *syntax.String, *syntax.Boolean, *syntax.Void:
		return units.Unconstrained()

	case *syntax.Block:
		return c.block(e.Statements, e.Result)

	case *syntax.InfixCall:
		x := c.expr(e.Args[0])
		y := c.expr(e.Args[1])
		switch e.Op {
		case "*", ".*":
			return units.Multiply(x, y)
		case "/", "./":
			return units.Divide(x, y)
		case "+", "-", ".+", ".-", "to":
			return c.equal(x, y, e)
		case "==", "!=", "<", "<=", ">", ">=":
			c.equal(x, y, e)
			return units.Unconstrained()
		}
		// &&, || and exponentiation yield nothing analyzable.
		return units.Unconstrained()

	case *syntax.UnaryCall:
		x := c.expr(e.Arg)
		if e.Op == "-" || e.Op == ".-" {
			return x
		}
		return units.Unconstrained()

	case *syntax.Ternary:
		c.expr(e.Condition)
		t := c.expr(e.TrueExpression)
		f := c.expr(e.FalseExpression)
		return c.equal(t, f, e)

	case *syntax.Call:
		return c.call(e.Fn, e.Args, e)

	case *syntax.Pipe:
		args := append([]syntax.Expr{e.Left}, e.RightArgs...)
		return c.call(e.Fn, args, e)

	case *syntax.Lambda:
		c.lambda(e, e.Name)
		return units.Unconstrained()

	case *syntax.Array:
		for _, elem := range e.Elements {
			c.expr(elem)
		}
		return units.Unconstrained()

	case *syntax.Dict:
		for _, entry := range e.Elements {
			switch entry := entry.(type) {
			case *syntax.KeyValue:
				c.expr(entry.Key)
				c.expr(entry.Value)
			case *syntax.Identifier:
				c.ident(entry)
			}
		}
		return units.Unconstrained()

	case *syntax.DotLookup:
		c.expr(e.Arg)
		return units.Unconstrained()

	case *syntax.BracketLookup:
		c.expr(e.Arg)
		c.expr(e.Key)
		return units.Unconstrained()

	case *syntax.UnitTypeSignature:
		c.errorf(e, "unit type signature used as an expression")
		return units.Unconstrained()
	}
	panic(e)
}

func (c *checker) ident(id *syntax.Identifier) units.Constraint {
	ref, ok := c.scope.Lookup(id.Value)
	if !ok {
		// Undefined names are reported by the compiler.
		return units.Unconstrained()
	}
	switch ref := ref.(type) {
	case VariableRef:
		return units.Variable(ref.ID)
	case ParamRef:
		return units.Parameter(ref.Param)
	}
	return units.Unconstrained()
}

// call analyzes a call of fn. Calls of user functions are inlined:
// the callee's requirements are emitted again with its parameters
// replaced by the argument types and its local variables replaced by
// fresh ones, so that no two call sites share a variable.
func (c *checker) call(fn syntax.Expr, args []syntax.Expr, call syntax.Node) units.Constraint {
	var callee *function
	var fid units.FunctionID
	if id, ok := fn.(*syntax.Identifier); ok {
		if ref, ok := c.scope.Lookup(id.Value); ok {
			if ref, ok := ref.(FunctionRef); ok {
				fid, callee = ref.ID, c.functions[ref.ID]
			}
		}
	}
	if callee == nil {
		c.expr(fn)
		for _, arg := range args {
			c.expr(arg)
		}
		return units.Unconstrained()
	}

	argTypes := make([]units.Constraint, len(callee.params))
	for i, arg := range args {
		t := c.expr(arg)
		if i < len(argTypes) {
			argTypes[i] = t
		}
	}
	for i, t := range argTypes {
		if !t.Defined {
			argTypes[i] = units.Variable(c.declare("", nil, call, true))
		}
	}

	renamed := make(map[units.VariableID]units.VariableID)
	sub := units.Substitution{
		Variable: func(v units.VariableID) (units.Constraint, bool) {
			if !callee.isLocal(v) {
				return units.Constraint{}, false
			}
			r, ok := renamed[v]
			if !ok {
				r = c.declare("", nil, call, true)
				renamed[v] = r
			}
			return units.Variable(r), true
		},
		Parameter: func(p units.Param) (units.Constraint, bool) {
			if p.Func != fid {
				return units.Constraint{}, false
			}
			return argTypes[p.Index], true
		},
	}
	for _, req := range callee.constraints {
		c.require(units.Expand(req.c, sub), call)
	}
	return units.Expand(callee.result, sub)
}

// lambda analyzes a function body in its own scope and returns the
// new function's ID. Parameters are bound to placeholders rather than
// variables so that the requirements found in the body hold for
// every call site.
func (c *checker) lambda(l *syntax.Lambda, name string) units.FunctionID {
	fid := units.FunctionID(len(c.functions))
	fn := &function{name: name, node: l, start: c.nextID()}
	for _, param := range l.Args {
		fn.params = append(fn.params, param.Variable)
	}
	c.functions = append(c.functions, fn)

	// Domain annotations belong to the enclosing scope.
	for _, param := range l.Args {
		if param.Annotation != nil {
			c.expr(param.Annotation)
		}
	}

	outer := c.out
	func() {
		defer func(saved Scope) { c.scope = saved }(c.scope)
		c.out = &fn.constraints
		defer func() { c.out = outer }()

		for i, param := range l.Args {
			p := units.Param{Func: fid, Index: i}
			if param.Unit != nil {
				c.require(units.Divide(units.Parameter(p), c.signature(param.Unit)), param)
			}
			c.scope = c.scope.Bind(param.Variable, ParamRef{p})
		}
		result := c.expr(l.Body)
		if l.ReturnUnit != nil {
			declared := c.signature(l.ReturnUnit)
			c.require(units.Divide(result, declared), l)
			result = declared
		}
		fn.result = result
	}()
	fn.end = c.nextID()

	// Requirements that do not depend on the arguments hold
	// regardless of the call site. Those on an enclosing function's
	// parameters become requirements of that function.
	for _, req := range fn.constraints {
		if !req.c.HasParametersOf(fid) {
			c.require(req.c, req.node)
		}
	}
	return fid
}

// signature returns the constraint denoted by a unit annotation.
func (c *checker) signature(sig *syntax.UnitTypeSignature) units.Constraint {
	return c.unitType(sig.Body)
}

func (c *checker) unitType(t syntax.UnitTypeExpr) units.Constraint {
	switch t := t.(type) {
	case *syntax.Identifier:
		return units.Unit(t.Value)
	case *syntax.Float:
		// A bare number stands for the empty unit type.
		return units.Empty()
	case *syntax.InfixUnitType:
		x, y := c.unitType(t.Args[0]), c.unitType(t.Args[1])
		switch t.Op {
		case "*":
			return units.Multiply(x, y)
		case "/":
			return units.Divide(x, y)
		}
		c.errorf(t, "malformed unit type: unknown operator %q", t.Op)
	case *syntax.ExponentialUnitType:
		if t.Exponent != math.Trunc(t.Exponent) {
			c.errorf(t, "malformed unit type: exponent %v is not an integer", t.Exponent)
			break
		}
		return units.Pow(c.unitType(t.Base), int(t.Exponent))
	case nil:
		c.errorf(nil, "malformed unit type: missing body")
	default:
		c.errorf(t, "malformed unit type")
	}
	return units.Unconstrained()
}
