// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compile lowers a Squiggle syntax tree to IR.
//
// Every name is resolved at compile time to an inlined external value,
// a position on the evaluator's value stack, or an element of the
// enclosing closure's capture array; the IR contains no name lookups.
// Each closure captures exactly the outer bindings its body uses.
package compile // import "github.com/squiggle-lang/squiggle-go/compile"

import (
	"log"

	"github.com/squiggle-lang/squiggle-go/ir"
	"github.com/squiggle-lang/squiggle-go/syntax"
	"github.com/squiggle-lang/squiggle-go/units"
	"github.com/squiggle-lang/squiggle-go/value"
)

// Disassemble causes the IR of each compiled program to be logged.
var Disassemble = false

// Compile lowers prog to IR. Names not bound in the program are looked
// up in externals, which is only read and may be shared by concurrent
// compilations.
//
// Errors are reported as *syntax.Error: UndefinedNameError for a name
// found nowhere, StructuralError for a construct in a place where it
// is not allowed. Compilation stops at the first error and yields no IR.
func Compile(prog *syntax.Program, externals value.StringDict) (*ir.Program, error) {
	c := newContext(externals)
	out, err := c.program(prog)
	if err != nil {
		if err, ok := err.(*syntax.Error); ok {
			err.Path = prog.Path
		}
		return nil, err
	}
	if Disassemble {
		log.Printf("%s: %s", prog.Path, ir.String(out))
	}
	return out, nil
}

func (c *CompileContext) program(prog *syntax.Program) (*ir.Program, error) {
	out := &ir.Program{Location: prog.Location}
	err := c.withScope(func() error {
		for _, stmt := range prog.Statements {
			name, exported, _ := stmt.Binding()
			if exported {
				out.Exports = append(out.Exports, name.Value)
			}
			assign, err := c.stmt(stmt)
			if err != nil {
				return err
			}
			out.Statements = append(out.Statements, assign)
		}
		if prog.Result != nil {
			result, err := c.expr(prog.Result)
			if err != nil {
				return err
			}
			out.Result = result
		}
		out.Bindings = c.localsOffsets()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// stmt compiles a binding. The value is compiled before the name is
// defined, so it refers to any previous binding of the same name.
func (c *CompileContext) stmt(stmt syntax.Stmt) (*ir.Assign, error) {
	name, _, decorators := stmt.Binding()

	var v ir.Node
	var err error
	switch stmt := stmt.(type) {
	case *syntax.LetStatement:
		v, err = c.expr(stmt.Value)
	case *syntax.DefunStatement:
		v, err = c.lambda(stmt.Value)
	default:
		panic(stmt)
	}
	if err != nil {
		return nil, err
	}

	// Decorators wrap the value in calls to tag setters,
	// the one nearest the binding innermost.
	for i := len(decorators) - 1; i >= 0; i-- {
		d := decorators[i]
		fn, err := c.resolveName(d, "Tag."+d.Name.Value)
		if err != nil {
			return nil, err
		}
		args := []ir.Node{v}
		for _, arg := range d.Args {
			a, err := c.expr(arg)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		v = &ir.Call{Location: d.Location, Fn: fn, Args: args}
	}

	c.defineLocal(name.Value)
	return &ir.Assign{Location: syntax.LocationOf(stmt), Left: name.Value, Right: v}, nil
}

func (c *CompileContext) exprs(list []syntax.Expr) ([]ir.Node, error) {
	var out []ir.Node
	for _, e := range list {
		n, err := c.expr(e)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// call compiles a call of the named external.
func (c *CompileContext) call(n syntax.Node, fn string, args ...syntax.Expr) (ir.Node, error) {
	callee, err := c.resolveName(n, fn)
	if err != nil {
		return nil, err
	}
	compiled, err := c.exprs(args)
	if err != nil {
		return nil, err
	}
	return &ir.Call{Location: syntax.LocationOf(n), Fn: callee, Args: compiled}, nil
}

func (c *CompileContext) expr(e syntax.Expr) (ir.Node, error) {
	switch e := e.(type) {
	case *syntax.Identifier:
		return c.resolveName(e, e.Value)

	case *syntax.Float:
		return &ir.Value{Location: e.Location, Value: value.Number(e.Value)}, nil

	case *syntax.String:
		return &ir.Value{Location: e.Location, Value: value.String(e.Value)}, nil

	case *syntax.Boolean:
		return &ir.Value{Location: e.Location, Value: value.Bool(e.Value)}, nil

	case *syntax.Void:
		return &ir.Value{Location: e.Location, Value: value.Void{}}, nil

	case *syntax.UnitValue:
		if units.IsScale(e.Unit) {
			return c.call(e, "fromUnit_"+e.Unit, e.Value)
		}
		// Physical units exist only for the unit checker.
		return c.expr(e.Value)

	case *syntax.Block:
		return c.block(e)

	case *syntax.InfixCall:
		fn, ok := value.InfixFunctions[e.Op]
		if !ok {
			return nil, syntax.Errorf(syntax.StructuralError, e, "unknown infix operator %q", e.Op)
		}
		return c.call(e, fn, e.Args[0], e.Args[1])

	case *syntax.UnaryCall:
		fn, ok := value.UnaryFunctions[e.Op]
		if !ok {
			return nil, syntax.Errorf(syntax.StructuralError, e, "unknown unary operator %q", e.Op)
		}
		return c.call(e, fn, e.Arg)

	case *syntax.Pipe:
		fn, err := c.expr(e.Fn)
		if err != nil {
			return nil, err
		}
		args, err := c.exprs(append([]syntax.Expr{e.Left}, e.RightArgs...))
		if err != nil {
			return nil, err
		}
		return &ir.Call{Location: e.Location, Fn: fn, Args: args}, nil

	case *syntax.DotLookup:
		key := &syntax.String{Location: e.Location, Value: e.Key}
		return c.call(e, value.AtIndex, e.Arg, key)

	case *syntax.BracketLookup:
		return c.call(e, value.AtIndex, e.Arg, e.Key)

	case *syntax.Call:
		fn, err := c.expr(e.Fn)
		if err != nil {
			return nil, err
		}
		args, err := c.exprs(e.Args)
		if err != nil {
			return nil, err
		}
		return &ir.Call{Location: e.Location, Fn: fn, Args: args}, nil

	case *syntax.Ternary:
		cond, err := c.expr(e.Condition)
		if err != nil {
			return nil, err
		}
		t, err := c.expr(e.TrueExpression)
		if err != nil {
			return nil, err
		}
		f, err := c.expr(e.FalseExpression)
		if err != nil {
			return nil, err
		}
		return &ir.Ternary{Location: e.Location, Condition: cond, IfTrue: t, IfFalse: f}, nil

	case *syntax.Array:
		elems, err := c.exprs(e.Elements)
		if err != nil {
			return nil, err
		}
		return &ir.Array{Location: e.Location, Elements: elems}, nil

	case *syntax.Dict:
		return c.dict(e)

	case *syntax.Lambda:
		return c.lambda(e)

	case *syntax.UnitTypeSignature:
		return nil, syntax.Errorf(syntax.StructuralError, e, "unit type signature used as an expression")
	}
	panic(e)
}

// block compiles a braced block in a scope of its own.
// A block with no statements is just its result.
func (c *CompileContext) block(b *syntax.Block) (ir.Node, error) {
	if len(b.Statements) == 0 {
		return c.expr(b.Result)
	}
	out := &ir.Block{Location: b.Location}
	err := c.withScope(func() error {
		for _, stmt := range b.Statements {
			if name, exported, _ := stmt.Binding(); exported {
				return syntax.Errorf(syntax.StructuralError, stmt, "exports aren't allowed in blocks (export %s)", name.Value)
			}
			assign, err := c.stmt(stmt)
			if err != nil {
				return err
			}
			out.Statements = append(out.Statements, assign)
		}
		result, err := c.expr(b.Result)
		out.Result = result
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CompileContext) dict(d *syntax.Dict) (ir.Node, error) {
	out := &ir.Dict{Location: d.Location}
	for _, entry := range d.Elements {
		var pair ir.Pair
		var err error
		switch entry := entry.(type) {
		case *syntax.KeyValue:
			if pair.Key, err = c.expr(entry.Key); err != nil {
				return nil, err
			}
			if pair.Value, err = c.expr(entry.Value); err != nil {
				return nil, err
			}
		case *syntax.Identifier:
			// {a} is short for {"a": a}.
			pair.Key = &ir.Value{Location: entry.Location, Value: value.String(entry.Value)}
			if pair.Value, err = c.resolveName(entry, entry.Value); err != nil {
				return nil, err
			}
		default:
			panic(entry)
		}
		out.Pairs = append(out.Pairs, pair)
	}
	return out, nil
}

// lambda compiles a function. Parameter annotations are compiled in
// the enclosing scope; the body is compiled in a function scope whose
// slots are the parameters, in order.
func (c *CompileContext) lambda(l *syntax.Lambda) (*ir.Lambda, error) {
	out := &ir.Lambda{Location: l.Location, Name: l.Name}
	for _, param := range l.Args {
		p := ir.Parameter{Name: param.Variable}
		if param.Annotation != nil {
			annotation, err := c.expr(param.Annotation)
			if err != nil {
				return nil, err
			}
			p.Annotation = annotation
		}
		out.Parameters = append(out.Parameters, p)
	}

	err := c.withFunctionScope(func(s *scope) error {
		for _, param := range l.Args {
			c.defineLocal(param.Variable)
		}
		body, err := c.expr(l.Body)
		out.Body = body
		out.Captures = s.captures
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
