// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Walk traverses a syntax tree in depth-first order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Walk calls itself
// recursively for each non-nil child of n.
// Walk then calls f(nil).
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	if !f(n) {
		return
	}

	switch n := n.(type) {
	case *Program:
		walkStmts(n.Statements, f)
		if n.Result != nil {
			Walk(n.Result, f)
		}

	case *LetStatement:
		for _, d := range n.Decorators {
			Walk(d, f)
		}
		Walk(n.Variable, f)
		if n.Unit != nil {
			Walk(n.Unit, f)
		}
		Walk(n.Value, f)

	case *DefunStatement:
		for _, d := range n.Decorators {
			Walk(d, f)
		}
		Walk(n.Variable, f)
		Walk(n.Value, f)

	case *Decorator:
		Walk(n.Name, f)
		for _, arg := range n.Args {
			Walk(arg, f)
		}

	case *Block:
		walkStmts(n.Statements, f)
		Walk(n.Result, f)

	case *Identifier, *Float, *String, *Boolean, *Void:
		// no-op

	case *UnitValue:
		Walk(n.Value, f)

	case *Array:
		for _, e := range n.Elements {
			Walk(e, f)
		}

	case *Dict:
		for _, e := range n.Elements {
			Walk(e, f)
		}

	case *KeyValue:
		Walk(n.Key, f)
		Walk(n.Value, f)

	case *Call:
		Walk(n.Fn, f)
		for _, arg := range n.Args {
			Walk(arg, f)
		}

	case *InfixCall:
		Walk(n.Args[0], f)
		Walk(n.Args[1], f)

	case *UnaryCall:
		Walk(n.Arg, f)

	case *Pipe:
		Walk(n.Left, f)
		Walk(n.Fn, f)
		for _, arg := range n.RightArgs {
			Walk(arg, f)
		}

	case *DotLookup:
		Walk(n.Arg, f)

	case *BracketLookup:
		Walk(n.Arg, f)
		Walk(n.Key, f)

	case *Ternary:
		Walk(n.Condition, f)
		Walk(n.TrueExpression, f)
		Walk(n.FalseExpression, f)

	case *Lambda:
		for _, param := range n.Args {
			Walk(param, f)
		}
		if n.ReturnUnit != nil {
			Walk(n.ReturnUnit, f)
		}
		Walk(n.Body, f)

	case *LambdaParameter:
		if n.Annotation != nil {
			Walk(n.Annotation, f)
		}
		if n.Unit != nil {
			Walk(n.Unit, f)
		}

	case *UnitTypeSignature:
		Walk(n.Body, f)

	case *InfixUnitType:
		Walk(n.Args[0], f)
		Walk(n.Args[1], f)

	case *ExponentialUnitType:
		Walk(n.Base, f)

	default:
		panic(n)
	}

	f(nil)
}

func walkStmts(stmts []Stmt, f func(Node) bool) {
	for _, stmt := range stmts {
		Walk(stmt, f)
	}
}
