// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"fmt"

	"github.com/squiggle-lang/squiggle-go/value"
	"google.golang.org/protobuf/types/known/structpb"
)

// Proto encodes n as a protocol message, for consumers that do not
// link this package. Each node becomes a Struct with a "type" field
// naming its kind.
func Proto(n Node) (*structpb.Value, error) {
	return structpb.NewValue(encode(n))
}

func encodeList(nodes []Node) []interface{} {
	list := make([]interface{}, len(nodes))
	for i, n := range nodes {
		list[i] = encode(n)
	}
	return list
}

func encodeAssigns(stmts []*Assign) []interface{} {
	list := make([]interface{}, len(stmts))
	for i, stmt := range stmts {
		list[i] = encode(stmt)
	}
	return list
}

func encode(n Node) interface{} {
	if n == nil {
		return nil
	}
	start, _ := n.Span()
	m := map[string]interface{}{
		"type":     nodeType(n),
		"location": fmt.Sprintf("%d:%d", start.Line, start.Col),
	}
	switch n := n.(type) {
	case *Value:
		m["value"] = encodeValue(n.Value)
	case *StackRef:
		m["offset"] = n.Offset
	case *CaptureRef:
		m["index"] = n.Index
	case *Block:
		m["statements"] = encodeAssigns(n.Statements)
		m["result"] = encode(n.Result)
	case *Call:
		m["fn"] = encode(n.Fn)
		m["args"] = encodeList(n.Args)
	case *Lambda:
		params := make([]interface{}, len(n.Parameters))
		for i, param := range n.Parameters {
			params[i] = map[string]interface{}{
				"name":       param.Name,
				"annotation": encode(param.Annotation),
			}
		}
		captures := make([]interface{}, len(n.Captures))
		for i, c := range n.Captures {
			captures[i] = encode(c)
		}
		m["name"] = n.Name
		m["parameters"] = params
		m["captures"] = captures
		m["body"] = encode(n.Body)
	case *Ternary:
		m["condition"] = encode(n.Condition)
		m["ifTrue"] = encode(n.IfTrue)
		m["ifFalse"] = encode(n.IfFalse)
	case *Array:
		m["elements"] = encodeList(n.Elements)
	case *Dict:
		pairs := make([]interface{}, len(n.Pairs))
		for i, pair := range n.Pairs {
			pairs[i] = []interface{}{encode(pair.Key), encode(pair.Value)}
		}
		m["pairs"] = pairs
	case *Assign:
		m["left"] = n.Left
		m["right"] = encode(n.Right)
	case *Program:
		exports := make([]interface{}, len(n.Exports))
		for i, name := range n.Exports {
			exports[i] = name
		}
		bindings := make(map[string]interface{}, len(n.Bindings))
		for name, offset := range n.Bindings {
			bindings[name] = offset
		}
		m["statements"] = encodeAssigns(n.Statements)
		m["result"] = encode(n.Result)
		m["exports"] = exports
		m["bindings"] = bindings
	}
	return m
}

func encodeValue(v value.Value) interface{} {
	switch v := v.(type) {
	case value.Number:
		return float64(v)
	case value.String:
		return string(v)
	case value.Bool:
		return bool(v)
	case value.Void:
		return nil
	case *value.Builtin:
		return map[string]interface{}{"builtin": v.Name()}
	case *value.Module:
		var members []interface{}
		for _, name := range v.AttrNames() {
			members = append(members, name)
		}
		return map[string]interface{}{"module": v.Name, "members": members}
	case value.Placeholder:
		return map[string]interface{}{"placeholder": v.Name}
	}
	return map[string]interface{}{"opaque": v.String()}
}

func nodeType(n Node) string {
	switch n.(type) {
	case *Value:
		return "Value"
	case *StackRef:
		return "StackRef"
	case *CaptureRef:
		return "CaptureRef"
	case *Block:
		return "Block"
	case *Call:
		return "Call"
	case *Lambda:
		return "Lambda"
	case *Ternary:
		return "Ternary"
	case *Array:
		return "Array"
	case *Dict:
		return "Dict"
	case *Assign:
		return "Assign"
	case *Program:
		return "Program"
	}
	panic(fmt.Sprintf("unexpected IR node %T", n))
}
