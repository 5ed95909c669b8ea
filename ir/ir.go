// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ir defines the intermediate representation produced by the
// compiler and executed by the stack-based evaluator.
//
// Names do not appear in the IR except as labels. Every reference to a
// binding has been resolved to one of three Refs: a Value inlined from
// the externals table, a StackRef counting down from the top of the
// evaluator's value stack, or a CaptureRef indexing the capture array
// of the enclosing closure.
//
// The set of node types is closed; clients may switch over it
// exhaustively.
package ir // import "github.com/squiggle-lang/squiggle-go/ir"

import (
	"github.com/squiggle-lang/squiggle-go/syntax"
	"github.com/squiggle-lang/squiggle-go/value"
)

// A Node is an IR node.
type Node interface {
	// Span returns the source range the node was compiled from.
	Span() (start, end syntax.Position)
	node()
}

// A Ref is a resolved reference: *Value, *StackRef or *CaptureRef.
type Ref interface {
	Node
	ref()
}

func (*Value) node()      {}
func (*StackRef) node()   {}
func (*CaptureRef) node() {}
func (*Block) node()      {}
func (*Call) node()       {}
func (*Lambda) node()     {}
func (*Ternary) node()    {}
func (*Array) node()      {}
func (*Dict) node()       {}
func (*Assign) node()     {}
func (*Program) node()    {}

func (*Value) ref()      {}
func (*StackRef) ref()   {}
func (*CaptureRef) ref() {}

// A Value is an inlined constant.
type Value struct {
	syntax.Location
	Value value.Value
}

// A StackRef refers to the value Offset slots below the top of the
// value stack at the point of reference; 0 is the top.
type StackRef struct {
	syntax.Location
	Offset int
}

// A CaptureRef refers to element Index of the current closure's captures.
type CaptureRef struct {
	syntax.Location
	Index int
}

// A Block pushes the value of each statement, evaluates Result and
// pops the statements' values.
type Block struct {
	syntax.Location
	Statements []*Assign
	Result     Node
}

// A Call applies Fn to Args.
type Call struct {
	syntax.Location
	Fn   Node
	Args []Node
}

// A Lambda creates a closure. Captures are evaluated where the lambda
// is created, in the enclosing scope, and stored in the closure; Body
// refers to them by CaptureRef and to its parameters by StackRef.
type Lambda struct {
	syntax.Location
	Name       string // may be empty
	Parameters []Parameter
	Captures   []Ref
	Body       Node
}

// A Parameter is a formal parameter of a Lambda, optionally with a
// domain annotation compiled in the enclosing scope.
type Parameter struct {
	Name       string
	Annotation Node // may be nil
}

// A Ternary evaluates Condition and then one of its branches.
type Ternary struct {
	syntax.Location
	Condition Node
	IfTrue    Node
	IfFalse   Node
}

// An Array constructs a list.
type Array struct {
	syntax.Location
	Elements []Node
}

// A Dict constructs a dictionary.
type Dict struct {
	syntax.Location
	Pairs []Pair
}

// A Pair is a key and value of a Dict.
type Pair struct {
	Key, Value Node
}

// An Assign pushes the value of Right onto the stack.
// Left is the bound name, kept for diagnostics and bindings.
type Assign struct {
	syntax.Location
	Left  string
	Right Node
}

// A Program is the root of a compiled unit.
type Program struct {
	syntax.Location
	Statements []*Assign
	Result     Node // may be nil
	Exports    []string

	// Bindings maps each top-level name to the offset of its value
	// from the top of the stack after the last statement.
	Bindings map[string]int
}
