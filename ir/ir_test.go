// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/squiggle-lang/squiggle-go/ir"
	"github.com/squiggle-lang/squiggle-go/syntax"
	"github.com/squiggle-lang/squiggle-go/value"
)

func loc(line, col int32) syntax.Location {
	p := syntax.MakePosition(line, col)
	return syntax.Location{Start: p, End: p}
}

func num(x float64) *ir.Value { return &ir.Value{Value: value.Number(x)} }

// sample is the IR of
//
//	a = 1
//	f(x: [0, 1]) = { y = x; [y, a] }
//	export g = {"k": f(a)}
//	a > 0 ? "pos" : ()
func sample() *ir.Program {
	gt := &ir.Value{Value: value.NewBuiltin("larger")}
	return &ir.Program{
		Location: loc(1, 1),
		Statements: []*ir.Assign{
			{Location: loc(1, 1), Left: "a", Right: num(1)},
			{Location: loc(2, 1), Left: "f", Right: &ir.Lambda{
				Location: loc(2, 1),
				Name:     "f",
				Parameters: []ir.Parameter{
					{Name: "x", Annotation: &ir.Array{Elements: []ir.Node{num(0), num(1)}}},
				},
				Captures: []ir.Ref{&ir.StackRef{Offset: 0}},
				Body: &ir.Block{
					Statements: []*ir.Assign{{Left: "y", Right: &ir.StackRef{Offset: 0}}},
					Result:     &ir.Array{Elements: []ir.Node{&ir.StackRef{Offset: 0}, &ir.CaptureRef{Index: 0}}},
				},
			}},
			{Location: loc(3, 1), Left: "g", Right: &ir.Dict{Pairs: []ir.Pair{{
				Key:   &ir.Value{Value: value.String("k")},
				Value: &ir.Call{Fn: &ir.StackRef{Offset: 0}, Args: []ir.Node{&ir.StackRef{Offset: 1}}},
			}}}},
		},
		Result: &ir.Ternary{
			Location:  loc(4, 1),
			Condition: &ir.Call{Fn: gt, Args: []ir.Node{&ir.StackRef{Offset: 2}, num(0)}},
			IfTrue:    &ir.Value{Value: value.String("pos")},
			IfFalse:   &ir.Value{Value: value.Void{}},
		},
		Exports:  []string{"g"},
		Bindings: map[string]int{"g": 0, "f": 1, "a": 2},
	}
}

func TestString(t *testing.T) {
	want := `(Program (Assign a 1) ` +
		`(Assign f (Lambda f ((x (Array 0 1))) (Captures (StackRef 0)) (Block (Assign y (StackRef 0)) (Array (StackRef 0) (CaptureRef 0))))) ` +
		`(Assign g (Dict ("k" (Call (StackRef 0) (StackRef 1))))) ` +
		`(Result (Ternary (Call <builtin larger> (StackRef 2) 0) "pos" ())) ` +
		`(Exports g) ` +
		`(Bindings a=2 f=1 g=0))`
	if got := ir.String(sample()); got != want {
		t.Errorf("String =\n%s\nwant\n%s", got, want)
	}
}

func TestProto(t *testing.T) {
	got, err := ir.Proto(sample().Result)
	if err != nil {
		t.Fatal(err)
	}
	want, err := structpb.NewValue(map[string]interface{}{
		"type":     "Ternary",
		"location": "4:1",
		"condition": map[string]interface{}{
			"type":     "Call",
			"location": "0:0",
			"fn": map[string]interface{}{
				"type":     "Value",
				"location": "0:0",
				"value":    map[string]interface{}{"builtin": "larger"},
			},
			"args": []interface{}{
				map[string]interface{}{"type": "StackRef", "location": "0:0", "offset": 2},
				map[string]interface{}{"type": "Value", "location": "0:0", "value": 0},
			},
		},
		"ifTrue":  map[string]interface{}{"type": "Value", "location": "0:0", "value": "pos"},
		"ifFalse": map[string]interface{}{"type": "Value", "location": "0:0", "value": nil},
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got, protocmp.Transform()); diff != "" {
		t.Errorf("Proto mismatch (-want +got):\n%s", diff)
	}
}

func TestProtoProgram(t *testing.T) {
	v, err := ir.Proto(sample())
	if err != nil {
		t.Fatal(err)
	}
	fields := v.GetStructValue().GetFields()
	if got := fields["type"].GetStringValue(); got != "Program" {
		t.Errorf("type = %q, want Program", got)
	}
	if got := len(fields["statements"].GetListValue().GetValues()); got != 3 {
		t.Errorf("%d statements, want 3", got)
	}
	bindings := fields["bindings"].GetStructValue().GetFields()
	if got := bindings["a"].GetNumberValue(); got != 2 {
		t.Errorf("bindings[a] = %v, want 2", got)
	}
	lambda := fields["statements"].GetListValue().GetValues()[1].GetStructValue().GetFields()["right"]
	params := lambda.GetStructValue().GetFields()["parameters"].GetListValue().GetValues()
	if len(params) != 1 || params[0].GetStructValue().GetFields()["name"].GetStringValue() != "x" {
		t.Errorf("parameters = %v", params)
	}
}
