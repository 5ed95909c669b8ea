// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"fmt"
	"sort"
	"strings"
)

// String returns a one-line S-expression rendering of n, e.g.
//
//	(Program (Assign a 5) (Call <builtin add> (StackRef 0) 1))
//
// The rendering is deterministic.
func String(n Node) string {
	var p printer
	p.node(n)
	return p.buf.String()
}

type printer struct {
	buf strings.Builder
}

func (p *printer) open(kind string) {
	p.buf.WriteByte('(')
	p.buf.WriteString(kind)
}

func (p *printer) close() { p.buf.WriteByte(')') }

func (p *printer) space() { p.buf.WriteByte(' ') }

func (p *printer) list(kind string, nodes []Node) {
	p.open(kind)
	for _, n := range nodes {
		p.space()
		p.node(n)
	}
	p.close()
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case *Value:
		p.buf.WriteString(n.Value.String())

	case *StackRef:
		fmt.Fprintf(&p.buf, "(StackRef %d)", n.Offset)

	case *CaptureRef:
		fmt.Fprintf(&p.buf, "(CaptureRef %d)", n.Index)

	case *Block:
		p.open("Block")
		for _, stmt := range n.Statements {
			p.space()
			p.node(stmt)
		}
		p.space()
		p.node(n.Result)
		p.close()

	case *Call:
		p.open("Call ")
		p.node(n.Fn)
		for _, arg := range n.Args {
			p.space()
			p.node(arg)
		}
		p.close()

	case *Lambda:
		p.open("Lambda")
		if n.Name != "" {
			p.space()
			p.buf.WriteString(n.Name)
		}
		p.buf.WriteString(" (")
		for i, param := range n.Parameters {
			if i > 0 {
				p.space()
			}
			if param.Annotation != nil {
				p.buf.WriteString("(" + param.Name + " ")
				p.node(param.Annotation)
				p.close()
			} else {
				p.buf.WriteString(param.Name)
			}
		}
		p.buf.WriteString(") ")
		captures := make([]Node, len(n.Captures))
		for i, c := range n.Captures {
			captures[i] = c
		}
		p.list("Captures", captures)
		p.space()
		p.node(n.Body)
		p.close()

	case *Ternary:
		p.list("Ternary", []Node{n.Condition, n.IfTrue, n.IfFalse})

	case *Array:
		p.list("Array", n.Elements)

	case *Dict:
		p.open("Dict")
		for _, pair := range n.Pairs {
			p.buf.WriteString(" (")
			p.node(pair.Key)
			p.space()
			p.node(pair.Value)
			p.close()
		}
		p.close()

	case *Assign:
		p.open("Assign " + n.Left + " ")
		p.node(n.Right)
		p.close()

	case *Program:
		p.open("Program")
		for _, stmt := range n.Statements {
			p.space()
			p.node(stmt)
		}
		if n.Result != nil {
			p.buf.WriteString(" (Result ")
			p.node(n.Result)
			p.close()
		}
		if len(n.Exports) > 0 {
			p.buf.WriteString(" (Exports " + strings.Join(n.Exports, " ") + ")")
		}
		if len(n.Bindings) > 0 {
			names := make([]string, 0, len(n.Bindings))
			for name := range n.Bindings {
				names = append(names, name)
			}
			sort.Strings(names)
			p.buf.WriteString(" (Bindings")
			for _, name := range names {
				fmt.Fprintf(&p.buf, " %s=%d", name, n.Bindings[name])
			}
			p.close()
		}
		p.close()

	default:
		panic(fmt.Sprintf("unexpected IR node %T", n))
	}
}
