// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file decodes the tree emitted by the external parser.
//
// A node is a mapping whose "type" field names its kind and whose
// other fields hold its children, for example
//
//	type: InfixCall
//	op: "+"
//	args: [a, {type: Float, value: 1}]
//
// Scalars abbreviate leaf expressions: a plain string is an Identifier,
// a quoted string a String, a number a Float, true/false a Boolean and
// null a Void. An explicit "location" field gives the node's source
// range; without one the node is located at its own line and column in
// the YAML (or JSON) document.

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Decode decodes a program from a YAML or JSON document.
func Decode(filename string, src []byte) (*Program, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, &Error{Kind: StructuralError, Path: filename, Msg: err.Error()}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &Error{Kind: StructuralError, Path: filename, Msg: "empty document"}
	}
	d := &decoder{path: filename}
	prog, err := d.program(doc.Content[0])
	if err != nil {
		return nil, err
	}
	prog.Path = filename
	return prog, nil
}

type decoder struct {
	path string
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...interface{}) error {
	pos := MakePosition(int32(n.Line), int32(n.Column))
	return &Error{
		Kind:     StructuralError,
		Path:     d.path,
		Location: Location{Start: pos, End: pos},
		Msg:      fmt.Sprintf(format, args...),
	}
}

// A node is the decoded form of one mapping.
type node struct {
	kind   string
	loc    Location
	fields map[string]*yaml.Node
	y      *yaml.Node
}

func (d *decoder) mapping(y *yaml.Node) (*node, error) {
	if y.Kind != yaml.MappingNode {
		return nil, d.errorf(y, "expected a node, got %s", kindName(y))
	}
	n := &node{y: y, fields: make(map[string]*yaml.Node)}
	for i := 0; i+1 < len(y.Content); i += 2 {
		n.fields[y.Content[i].Value] = y.Content[i+1]
	}
	if t, ok := n.fields["type"]; ok {
		n.kind = t.Value
	}
	pos := MakePosition(int32(y.Line), int32(y.Column))
	n.loc = Location{Start: pos, End: pos}
	if l, ok := n.fields["location"]; ok {
		loc, err := d.location(l)
		if err != nil {
			return nil, err
		}
		n.loc = loc
	}
	return n, nil
}

func (d *decoder) location(y *yaml.Node) (Location, error) {
	var raw struct {
		Start struct{ Line, Column, Offset int32 }
		End   struct{ Line, Column, Offset int32 }
	}
	if err := y.Decode(&raw); err != nil {
		return Location{}, d.errorf(y, "bad location: %v", err)
	}
	return Location{
		Start: Position{Line: raw.Start.Line, Col: raw.Start.Column, Offset: raw.Start.Offset},
		End:   Position{Line: raw.End.Line, Col: raw.End.Column, Offset: raw.End.Offset},
	}, nil
}

func (n *node) has(field string) bool {
	y, ok := n.fields[field]
	return ok && !(y.Kind == yaml.ScalarNode && y.Tag == "!!null")
}

func (d *decoder) require(n *node, field string) (*yaml.Node, error) {
	y, ok := n.fields[field]
	if !ok {
		return nil, d.errorf(n.y, "%s node has no %q field", n.kind, field)
	}
	return y, nil
}

func (d *decoder) program(y *yaml.Node) (*Program, error) {
	n, err := d.mapping(y)
	if err != nil {
		return nil, err
	}
	if n.kind != "Program" && n.kind != "" {
		return nil, d.errorf(y, "expected Program, got %q", n.kind)
	}
	prog := &Program{Location: n.loc}
	if prog.Statements, err = d.stmts(n); err != nil {
		return nil, err
	}
	if n.has("result") {
		if prog.Result, err = d.expr(n.fields["result"]); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

func (d *decoder) stmts(n *node) ([]Stmt, error) {
	y, ok := n.fields["statements"]
	if !ok {
		return nil, nil
	}
	if y.Kind != yaml.SequenceNode {
		return nil, d.errorf(y, "statements: expected a list, got %s", kindName(y))
	}
	var stmts []Stmt
	for _, s := range y.Content {
		stmt, err := d.stmt(s)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (d *decoder) stmt(y *yaml.Node) (Stmt, error) {
	n, err := d.mapping(y)
	if err != nil {
		return nil, err
	}
	if n.kind != "LetStatement" && n.kind != "DefunStatement" {
		return nil, d.errorf(y, "expected a statement, got %q", n.kind)
	}
	variable, err := d.requiredIdent(n, "variable")
	if err != nil {
		return nil, err
	}
	exported, err := d.boolField(n, "exported")
	if err != nil {
		return nil, err
	}
	decorators, err := d.decorators(n)
	if err != nil {
		return nil, err
	}
	v, err := d.require(n, "value")
	if err != nil {
		return nil, err
	}

	switch n.kind {
	case "LetStatement":
		let := &LetStatement{Location: n.loc, Variable: variable, Exported: exported, Decorators: decorators}
		if let.Value, err = d.expr(v); err != nil {
			return nil, err
		}
		if n.has("unit") {
			if let.Unit, err = d.signature(n.fields["unit"]); err != nil {
				return nil, err
			}
		}
		return let, nil

	case "DefunStatement":
		fn, err := d.expr(v)
		if err != nil {
			return nil, err
		}
		lambda, ok := fn.(*Lambda)
		if !ok {
			return nil, d.errorf(v, "DefunStatement value must be a Lambda")
		}
		if lambda.Name == "" {
			lambda.Name = variable.Value
		}
		return &DefunStatement{Location: n.loc, Variable: variable, Value: lambda, Exported: exported, Decorators: decorators}, nil
	}
	panic(n.kind)
}

func (d *decoder) decorators(n *node) ([]*Decorator, error) {
	y, ok := n.fields["decorators"]
	if !ok {
		return nil, nil
	}
	var decorators []*Decorator
	for _, dy := range y.Content {
		dn, err := d.mapping(dy)
		if err != nil {
			return nil, err
		}
		name, err := d.requiredIdent(dn, "name")
		if err != nil {
			return nil, err
		}
		args, err := d.exprList(dn, "args")
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, &Decorator{Location: dn.loc, Name: name, Args: args})
	}
	return decorators, nil
}

func (d *decoder) requiredIdent(n *node, field string) (*Identifier, error) {
	y, err := d.require(n, field)
	if err != nil {
		return nil, err
	}
	e, err := d.expr(y)
	if err != nil {
		return nil, err
	}
	switch e := e.(type) {
	case *Identifier:
		return e, nil
	case *String:
		return &Identifier{Location: e.Location, Value: e.Value}, nil
	}
	return nil, d.errorf(y, "%s: expected an Identifier", field)
}

func (d *decoder) boolField(n *node, field string) (bool, error) {
	y, ok := n.fields[field]
	if !ok {
		return false, nil
	}
	var b bool
	if err := y.Decode(&b); err != nil {
		return false, d.errorf(y, "%s: %v", field, err)
	}
	return b, nil
}

func (d *decoder) stringField(n *node, field string) (string, error) {
	y, err := d.require(n, field)
	if err != nil {
		return "", err
	}
	if y.Kind != yaml.ScalarNode {
		return "", d.errorf(y, "%s: expected a string", field)
	}
	return y.Value, nil
}

func (d *decoder) exprList(n *node, field string) ([]Expr, error) {
	y, ok := n.fields[field]
	if !ok {
		return nil, nil
	}
	if y.Kind != yaml.SequenceNode {
		return nil, d.errorf(y, "%s: expected a list, got %s", field, kindName(y))
	}
	var list []Expr
	for _, ey := range y.Content {
		e, err := d.expr(ey)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, nil
}

func (d *decoder) exprField(n *node, field string) (Expr, error) {
	y, err := d.require(n, field)
	if err != nil {
		return nil, err
	}
	return d.expr(y)
}

func (d *decoder) pair(n *node, field string) ([2]Expr, error) {
	var pair [2]Expr
	list, err := d.exprList(n, field)
	if err != nil {
		return pair, err
	}
	if len(list) != 2 {
		return pair, d.errorf(n.y, "%s: want 2 operands, got %d", n.kind, len(list))
	}
	copy(pair[:], list)
	return pair, nil
}

func (d *decoder) scalar(y *yaml.Node) (Expr, error) {
	pos := MakePosition(int32(y.Line), int32(y.Column))
	loc := Location{Start: pos, End: pos}
	if y.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		return &String{Location: loc, Value: y.Value}, nil
	}
	switch y.Tag {
	case "!!int", "!!float":
		f, err := strconv.ParseFloat(y.Value, 64)
		if err != nil {
			return nil, d.errorf(y, "bad number %q", y.Value)
		}
		return &Float{Location: loc, Value: f}, nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, d.errorf(y, "bad boolean %q", y.Value)
		}
		return &Boolean{Location: loc, Value: b}, nil
	case "!!null":
		return &Void{Location: loc}, nil
	}
	return &Identifier{Location: loc, Value: y.Value}, nil
}

func (d *decoder) expr(y *yaml.Node) (Expr, error) {
	if y.Kind == yaml.ScalarNode {
		return d.scalar(y)
	}
	n, err := d.mapping(y)
	if err != nil {
		return nil, err
	}

	switch n.kind {
	case "Identifier":
		value, err := d.stringField(n, "value")
		return &Identifier{Location: n.loc, Value: value}, err

	case "Float":
		var f float64
		v, err := d.require(n, "value")
		if err != nil {
			return nil, err
		}
		if err := v.Decode(&f); err != nil {
			return nil, d.errorf(v, "bad number: %v", err)
		}
		return &Float{Location: n.loc, Value: f}, nil

	case "String":
		value, err := d.stringField(n, "value")
		return &String{Location: n.loc, Value: value}, err

	case "Boolean":
		value, err := d.boolField(n, "value")
		return &Boolean{Location: n.loc, Value: value}, err

	case "Void":
		return &Void{Location: n.loc}, nil

	case "UnitValue":
		v, err := d.exprField(n, "value")
		if err != nil {
			return nil, err
		}
		f, ok := v.(*Float)
		if !ok {
			return nil, d.errorf(y, "UnitValue value must be a number")
		}
		unit, err := d.stringField(n, "unit")
		return &UnitValue{Location: n.loc, Value: f, Unit: unit}, err

	case "Block":
		block := &Block{Location: n.loc}
		if block.Statements, err = d.stmts(n); err != nil {
			return nil, err
		}
		block.Result, err = d.exprField(n, "result")
		return block, err

	case "Array":
		elements, err := d.exprList(n, "elements")
		return &Array{Location: n.loc, Elements: elements}, err

	case "Dict":
		return d.dict(n)

	case "Call":
		fn, err := d.exprField(n, "fn")
		if err != nil {
			return nil, err
		}
		args, err := d.exprList(n, "args")
		return &Call{Location: n.loc, Fn: fn, Args: args}, err

	case "InfixCall":
		op, err := d.stringField(n, "op")
		if err != nil {
			return nil, err
		}
		args, err := d.pair(n, "args")
		return &InfixCall{Location: n.loc, Op: op, Args: args}, err

	case "UnaryCall":
		op, err := d.stringField(n, "op")
		if err != nil {
			return nil, err
		}
		arg, err := d.exprField(n, "arg")
		return &UnaryCall{Location: n.loc, Op: op, Arg: arg}, err

	case "Pipe":
		left, err := d.exprField(n, "leftArg")
		if err != nil {
			return nil, err
		}
		fn, err := d.exprField(n, "fn")
		if err != nil {
			return nil, err
		}
		args, err := d.exprList(n, "rightArgs")
		return &Pipe{Location: n.loc, Left: left, Fn: fn, RightArgs: args}, err

	case "DotLookup":
		arg, err := d.exprField(n, "arg")
		if err != nil {
			return nil, err
		}
		key, err := d.stringField(n, "key")
		return &DotLookup{Location: n.loc, Arg: arg, Key: key}, err

	case "BracketLookup":
		arg, err := d.exprField(n, "arg")
		if err != nil {
			return nil, err
		}
		key, err := d.exprField(n, "key")
		return &BracketLookup{Location: n.loc, Arg: arg, Key: key}, err

	case "Ternary":
		cond, err := d.exprField(n, "condition")
		if err != nil {
			return nil, err
		}
		t, err := d.exprField(n, "trueExpression")
		if err != nil {
			return nil, err
		}
		f, err := d.exprField(n, "falseExpression")
		return &Ternary{Location: n.loc, Condition: cond, TrueExpression: t, FalseExpression: f}, err

	case "Lambda":
		return d.lambda(n)

	case "UnitTypeSignature":
		return d.signature(y)
	}
	return nil, d.errorf(y, "expected an expression, got %q", n.kind)
}

func (d *decoder) dict(n *node) (Expr, error) {
	dict := &Dict{Location: n.loc}
	y, ok := n.fields["elements"]
	if !ok {
		return dict, nil
	}
	for _, ey := range y.Content {
		if ey.Kind == yaml.ScalarNode {
			e, err := d.scalar(ey)
			if err != nil {
				return nil, err
			}
			id, ok := e.(*Identifier)
			if !ok {
				return nil, d.errorf(ey, "dict shorthand entry must be an identifier")
			}
			dict.Elements = append(dict.Elements, id)
			continue
		}
		en, err := d.mapping(ey)
		if err != nil {
			return nil, err
		}
		switch en.kind {
		case "KeyValue":
			key, err := d.exprField(en, "key")
			if err != nil {
				return nil, err
			}
			value, err := d.exprField(en, "value")
			if err != nil {
				return nil, err
			}
			dict.Elements = append(dict.Elements, &KeyValue{Location: en.loc, Key: key, Value: value})
		case "Identifier":
			e, err := d.expr(ey)
			if err != nil {
				return nil, err
			}
			dict.Elements = append(dict.Elements, e.(*Identifier))
		default:
			return nil, d.errorf(ey, "expected a dict entry, got %q", en.kind)
		}
	}
	return dict, nil
}

func (d *decoder) lambda(n *node) (*Lambda, error) {
	lambda := &Lambda{Location: n.loc}
	if name, ok := n.fields["name"]; ok {
		lambda.Name = name.Value
	}
	if y, ok := n.fields["args"]; ok {
		for _, py := range y.Content {
			param, err := d.param(py)
			if err != nil {
				return nil, err
			}
			lambda.Args = append(lambda.Args, param)
		}
	}
	var err error
	if lambda.Body, err = d.exprField(n, "body"); err != nil {
		return nil, err
	}
	if n.has("returnUnit") {
		if lambda.ReturnUnit, err = d.signature(n.fields["returnUnit"]); err != nil {
			return nil, err
		}
	}
	return lambda, nil
}

func (d *decoder) param(y *yaml.Node) (*LambdaParameter, error) {
	if y.Kind == yaml.ScalarNode {
		pos := MakePosition(int32(y.Line), int32(y.Column))
		return &LambdaParameter{Location: Location{Start: pos, End: pos}, Variable: y.Value}, nil
	}
	n, err := d.mapping(y)
	if err != nil {
		return nil, err
	}
	param := &LambdaParameter{Location: n.loc}
	if param.Variable, err = d.stringField(n, "variable"); err != nil {
		return nil, err
	}
	if n.has("annotation") {
		if param.Annotation, err = d.expr(n.fields["annotation"]); err != nil {
			return nil, err
		}
	}
	if n.has("unit") {
		if param.Unit, err = d.signature(n.fields["unit"]); err != nil {
			return nil, err
		}
	}
	return param, nil
}

// signature decodes a unit annotation. The UnitTypeSignature wrapper
// may be omitted, in which case the node is the signature body.
func (d *decoder) signature(y *yaml.Node) (*UnitTypeSignature, error) {
	if y.Kind == yaml.MappingNode {
		n, err := d.mapping(y)
		if err != nil {
			return nil, err
		}
		if n.kind == "UnitTypeSignature" {
			body, err := d.unitType(n.fields["body"])
			if err != nil {
				return nil, err
			}
			return &UnitTypeSignature{Location: n.loc, Body: body}, nil
		}
	}
	body, err := d.unitType(y)
	if err != nil {
		return nil, err
	}
	return &UnitTypeSignature{Location: LocationOf(body), Body: body}, nil
}

func (d *decoder) unitType(y *yaml.Node) (UnitTypeExpr, error) {
	if y == nil {
		return nil, &Error{Kind: StructuralError, Path: d.path, Msg: "unit type signature has no body"}
	}
	if y.Kind == yaml.ScalarNode {
		e, err := d.scalar(y)
		if err != nil {
			return nil, err
		}
		switch e := e.(type) {
		case *Identifier:
			return e, nil
		case *String:
			// JSON quotes every string.
			return &Identifier{Location: e.Location, Value: e.Value}, nil
		case *Float:
			return e, nil
		}
		return nil, d.errorf(y, "malformed unit type %q", y.Value)
	}
	n, err := d.mapping(y)
	if err != nil {
		return nil, err
	}
	switch n.kind {
	case "Identifier", "Float":
		e, err := d.expr(y)
		if err != nil {
			return nil, err
		}
		return e.(UnitTypeExpr), nil

	case "InfixUnitType":
		op, err := d.stringField(n, "op")
		if err != nil {
			return nil, err
		}
		if op != "*" && op != "/" {
			return nil, d.errorf(y, "malformed unit type operator %q", op)
		}
		args, ok := n.fields["args"]
		if !ok || args.Kind != yaml.SequenceNode || len(args.Content) != 2 {
			return nil, d.errorf(y, "InfixUnitType: want 2 operands")
		}
		x := &InfixUnitType{Location: n.loc, Op: op}
		for i, a := range args.Content {
			if x.Args[i], err = d.unitType(a); err != nil {
				return nil, err
			}
		}
		return x, nil

	case "ExponentialUnitType":
		base, err := d.unitType(n.fields["base"])
		if err != nil {
			return nil, err
		}
		ey, err := d.require(n, "exponent")
		if err != nil {
			return nil, err
		}
		var exp float64
		if err := ey.Decode(&exp); err != nil {
			return nil, d.errorf(ey, "bad exponent: %v", err)
		}
		return &ExponentialUnitType{Location: n.loc, Base: base, Exponent: exp}, nil
	}
	return nil, d.errorf(y, "expected a unit type, got %q", n.kind)
}

func kindName(y *yaml.Node) string {
	switch y.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		return strconv.Quote(y.Value)
	case yaml.AliasNode:
		return "alias"
	}
	return "document"
}
