// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bytes"
	"fmt"
	"log"
	"reflect"
	"strings"
	"testing"

	"github.com/squiggle-lang/squiggle-go/syntax"
)

func TestWalk(t *testing.T) {
	const src = `
statements:
  - type: LetStatement
    variable: x
    unit: {type: InfixUnitType, op: "/", args: [meters, seconds]}
    value: {type: UnitValue, value: 5, unit: k}
  - type: DefunStatement
    variable: f
    decorators: [{name: doc, args: ["adds"]}]
    value:
      type: Lambda
      args: [{variable: a, annotation: {type: Array, elements: [0, 1]}}]
      body: {type: InfixCall, op: "+", args: [a, x]}
result:
  type: Ternary
  condition: true
  trueExpression: {type: Call, fn: f, args: [1]}
  falseExpression: {type: DotLookup, arg: {type: Dict, elements: [x]}, key: x}
`
	prog, err := syntax.Decode("walk.yaml", []byte(src))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	var depth int
	syntax.Walk(prog, func(n syntax.Node) bool {
		if n == nil {
			depth--
			return true
		}
		fmt.Fprintf(&buf, "%s%s\n",
			strings.Repeat("  ", depth),
			strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax."))
		depth++
		return true
	})
	got := buf.String()
	want := `
Program
  LetStatement
    Identifier
    UnitTypeSignature
      InfixUnitType
        Identifier
        Identifier
    UnitValue
      Float
  DefunStatement
    Decorator
      Identifier
      String
    Identifier
    Lambda
      LambdaParameter
        Array
          Float
          Float
      InfixCall
        Identifier
        Identifier
  Ternary
    Boolean
    Call
      Identifier
      Float
    DotLookup
      Dict
        Identifier`
	got = strings.TrimSpace(got)
	want = strings.TrimSpace(want)
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestWalkPrune(t *testing.T) {
	prog, err := syntax.Decode("prune.yaml", []byte(`
result:
  type: Lambda
  args: [a]
  body: {type: InfixCall, op: "*", args: [a, b]}
`))
	if err != nil {
		t.Fatal(err)
	}
	var kinds []string
	syntax.Walk(prog, func(n syntax.Node) bool {
		if n == nil {
			return true
		}
		kinds = append(kinds, strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax."))
		_, isLambda := n.(*syntax.Lambda)
		return !isLambda
	})
	if got, want := strings.Join(kinds, " "), "Program Lambda"; got != want {
		t.Errorf("visited %s, want %s", got, want)
	}
}

// ExampleWalk demonstrates the use of Walk to
// enumerate the identifiers in a syntax tree.
func ExampleWalk() {
	const src = `
statements:
  - {type: LetStatement, variable: a, value: b}
  - type: DefunStatement
    variable: c
    value: {type: Lambda, args: [d], body: {type: Pipe, leftArg: e, fn: f, rightArgs: [g]}}
result: {type: BracketLookup, arg: h, key: {type: UnaryCall, op: "-", arg: i}}
`
	prog, err := syntax.Decode("example.yaml", []byte(src))
	if err != nil {
		log.Fatal(err)
	}

	var idents []string
	syntax.Walk(prog, func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Identifier); ok {
			idents = append(idents, id.Value)
		}
		return true
	})
	fmt.Println(strings.Join(idents, " "))

	// Parameter names are strings, not identifiers, so d is absent.

	// Output:
	// a b c e f g h i
}
