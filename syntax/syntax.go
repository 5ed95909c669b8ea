// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax defines the abstract syntax tree of a Squiggle program.
//
// The tree is produced by an external parser and delivered to this
// module as a YAML or JSON document (see Decode). Neither the unit
// checker nor the compiler modifies it, so a single tree may be
// analyzed by several passes at once.
package syntax

// A Node is a node in a Squiggle syntax tree.
type Node interface {
	// Span returns the start and end position of the node.
	Span() (start, end Position)
}

// Start returns the start position of the node.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the node.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// LocationOf returns the source range of n.
func LocationOf(n Node) Location {
	start, end := n.Span()
	return Location{Start: start, End: end}
}

// A Location is the source range occupied by a node.
// Every node embeds one.
type Location struct {
	Start, End Position
}

func (l Location) Span() (start, end Position) { return l.Start, l.End }

// A Program is a complete compilation unit.
type Program struct {
	Location
	Path       string
	Statements []Stmt
	Result     Expr // may be nil
}

// A Stmt is a top-level or block-level binding.
type Stmt interface {
	Node
	stmt()
	// Binding returns the bound identifier, the export marker and the decorators.
	Binding() (name *Identifier, exported bool, decorators []*Decorator)
}

func (*LetStatement) stmt()   {}
func (*DefunStatement) stmt() {}

// A LetStatement binds a value to a name:
//
//	x = 5
//	x :: meters = 5
//	@name("X") export x = 5
type LetStatement struct {
	Location
	Variable   *Identifier
	Unit       *UnitTypeSignature // optional
	Value      Expr
	Exported   bool
	Decorators []*Decorator
}

func (x *LetStatement) Binding() (*Identifier, bool, []*Decorator) {
	return x.Variable, x.Exported, x.Decorators
}

// A DefunStatement defines a named function: f(x) = x * 2.
type DefunStatement struct {
	Location
	Variable   *Identifier
	Value      *Lambda
	Exported   bool
	Decorators []*Decorator
}

func (x *DefunStatement) Binding() (*Identifier, bool, []*Decorator) {
	return x.Variable, x.Exported, x.Decorators
}

// A Decorator tags the value of a binding: @name("x").
type Decorator struct {
	Location
	Name *Identifier
	Args []Expr
}

// An Expr is a Squiggle expression.
type Expr interface {
	Node
	expr()
}

func (*Array) expr()             {}
func (*Block) expr()             {}
func (*Boolean) expr()           {}
func (*BracketLookup) expr()     {}
func (*Call) expr()              {}
func (*Dict) expr()              {}
func (*DotLookup) expr()         {}
func (*Float) expr()             {}
func (*Identifier) expr()        {}
func (*InfixCall) expr()         {}
func (*Lambda) expr()            {}
func (*Pipe) expr()              {}
func (*String) expr()            {}
func (*Ternary) expr()           {}
func (*UnaryCall) expr()         {}
func (*UnitTypeSignature) expr() {}
func (*UnitValue) expr()         {}
func (*Void) expr()              {}

// An Identifier represents a name.
type Identifier struct {
	Location
	Value string
}

// A Float is a numeric literal.
type Float struct {
	Location
	Value float64
}

// A String is a string literal.
type String struct {
	Location
	Value string
}

// A Boolean is true or false.
type Boolean struct {
	Location
	Value bool
}

// Void is the empty value: ().
type Void struct {
	Location
}

// A UnitValue is a numeric literal with a suffix: 5k, 3%, 5_meters.
type UnitValue struct {
	Location
	Value *Float
	Unit  string
}

// A Block is a braced sequence of bindings followed by a result: { a = 1; a + 1 }.
type Block struct {
	Location
	Statements []Stmt
	Result     Expr
}

// An Array is a list literal: [a, b].
type Array struct {
	Location
	Elements []Expr
}

// A Dict is a dictionary literal: {a: 1, b}.
// Each element is a *KeyValue or, for the shorthand form, an *Identifier.
type Dict struct {
	Location
	Elements []DictEntry
}

// A DictEntry is an element of a Dict.
type DictEntry interface {
	Node
	dictEntry()
}

func (*KeyValue) dictEntry()   {}
func (*Identifier) dictEntry() {}

// A KeyValue is an explicit dictionary entry: Key: Value.
type KeyValue struct {
	Location
	Key   Expr
	Value Expr
}

// A Call represents a function call expression: Fn(Args).
type Call struct {
	Location
	Fn   Expr
	Args []Expr
}

// An InfixCall is a binary operator application: Args[0] Op Args[1].
type InfixCall struct {
	Location
	Op   string
	Args [2]Expr
}

// A UnaryCall is a prefix operator application: Op Arg.
type UnaryCall struct {
	Location
	Op  string
	Arg Expr
}

// A Pipe passes Left as the first argument of Fn: Left -> Fn(RightArgs).
type Pipe struct {
	Location
	Left      Expr
	Fn        Expr
	RightArgs []Expr
}

// A DotLookup is a field selection: Arg.Key.
type DotLookup struct {
	Location
	Arg Expr
	Key string
}

// A BracketLookup is an index expression: Arg[Key].
type BracketLookup struct {
	Location
	Arg Expr
	Key Expr
}

// A Ternary is the conditional: Condition ? TrueExpression : FalseExpression.
type Ternary struct {
	Location
	Condition       Expr
	TrueExpression  Expr
	FalseExpression Expr
}

// A Lambda is a function abstraction: {|x, y| x + y}.
// Named lambdas come from DefunStatements.
type Lambda struct {
	Location
	Name       string // optional
	Args       []*LambdaParameter
	Body       Expr
	ReturnUnit *UnitTypeSignature // optional
}

// A LambdaParameter is a formal parameter, optionally carrying a
// domain annotation (x: [0, 10]) and a unit annotation (x :: meters).
type LambdaParameter struct {
	Location
	Variable   string
	Annotation Expr               // optional
	Unit       *UnitTypeSignature // optional
}

// A UnitTypeSignature is a unit annotation: :: meters / seconds.
// It is an Expr only so that a decoder can report it where an
// expression was expected.
type UnitTypeSignature struct {
	Location
	Body UnitTypeExpr
}

// A UnitTypeExpr is the body of a unit annotation. It is one of
// *Identifier (a unit name), *Float (a bare literal),
// *InfixUnitType or *ExponentialUnitType.
type UnitTypeExpr interface {
	Node
	unitType()
}

func (*Identifier) unitType()          {}
func (*Float) unitType()               {}
func (*InfixUnitType) unitType()       {}
func (*ExponentialUnitType) unitType() {}

// An InfixUnitType combines two unit types: meters * seconds, meters / seconds.
type InfixUnitType struct {
	Location
	Op   string // "*" or "/"
	Args [2]UnitTypeExpr
}

// An ExponentialUnitType raises a unit type to a power: meters^2.
type ExponentialUnitType struct {
	Location
	Base     UnitTypeExpr
	Exponent float64
}
