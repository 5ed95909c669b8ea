// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"sort"
	"strings"
	"unicode"

	"github.com/squiggle-lang/squiggle-go/internal/spell"
	"github.com/squiggle-lang/squiggle-go/ir"
	"github.com/squiggle-lang/squiggle-go/syntax"
	"github.com/squiggle-lang/squiggle-go/value"
)

type scopeKind uint8

const (
	blockScope scopeKind = iota
	functionScope
)

// A scope is one frame of the compile-time scope stack.
//
// A block scope owns a run of slots on the evaluator's value stack.
// A function scope additionally owns the capture list of the closure
// being compiled; captures are added the first time the body refers
// to a name bound outside the function.
type scope struct {
	kind  scopeKind
	stack map[string]int // name -> slot of its latest definition
	size  int            // slots defined so far

	captures     []ir.Ref       // functionScope only
	captureIndex map[string]int // name -> index in captures
}

// A CompileContext holds the scope stack of one compilation.
// It is not safe for concurrent use; the externals table is only read.
type CompileContext struct {
	scopes    []*scope
	externals value.StringDict
}

func newContext(externals value.StringDict) *CompileContext {
	return &CompileContext{externals: externals}
}

// withScope calls f inside a new block scope.
// The scope is popped however f returns.
func (c *CompileContext) withScope(f func() error) error {
	c.scopes = append(c.scopes, &scope{kind: blockScope, stack: make(map[string]int)})
	defer c.finishScope()
	return f()
}

// withFunctionScope calls f inside a new function scope.
// The scope is popped however f returns.
func (c *CompileContext) withFunctionScope(f func(s *scope) error) error {
	s := &scope{
		kind:         functionScope,
		stack:        make(map[string]int),
		captureIndex: make(map[string]int),
	}
	c.scopes = append(c.scopes, s)
	defer c.finishScope()
	return f(s)
}

func (c *CompileContext) finishScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// defineLocal allocates the next slot of the innermost scope to name.
// An earlier definition of the same name keeps its slot; references
// compiled after this point see the new one.
func (c *CompileContext) defineLocal(name string) {
	s := c.scopes[len(c.scopes)-1]
	s.stack[name] = s.size
	s.size++
}

// resolveName resolves a reference to name made at node n.
func (c *CompileContext) resolveName(n syntax.Node, name string) (ir.Ref, error) {
	return c.resolveFrom(n, name, len(c.scopes)-1)
}

// resolveFrom resolves name starting at scopes[depth] and moving
// outwards. offset accumulates the sizes of the block scopes already
// passed, so that a hit in any of them is a single StackRef relative
// to the top of the stack.
//
// At a function boundary the name is resolved recursively from just
// outside the function. Externals are returned as they are; anything
// else becomes a capture of the function, so a closure nested two
// levels deep captures a capture of its parent.
func (c *CompileContext) resolveFrom(n syntax.Node, name string, depth int) (ir.Ref, error) {
	loc := syntax.LocationOf(n)
	offset := 0
	for i := depth; i >= 0; i-- {
		s := c.scopes[i]
		if slot, ok := s.stack[name]; ok {
			return &ir.StackRef{Location: loc, Offset: offset + s.size - 1 - slot}, nil
		}
		offset += s.size

		if s.kind == functionScope {
			if index, ok := s.captureIndex[name]; ok {
				return &ir.CaptureRef{Location: loc, Index: index}, nil
			}
			outer, err := c.resolveFrom(n, name, i-1)
			if err != nil {
				return nil, err
			}
			if v, ok := outer.(*ir.Value); ok {
				return v, nil // externals are never captured
			}
			index := len(s.captures)
			s.captures = append(s.captures, outer)
			s.captureIndex[name] = index
			return &ir.CaptureRef{Location: loc, Index: index}, nil
		}
	}

	if v, ok := c.externals[name]; ok {
		return &ir.Value{Location: loc, Value: v}, nil
	}
	if near := spell.Nearest(name, c.visibleNames(), foldName); near != "" {
		return nil, syntax.Errorf(syntax.UndefinedNameError, n, "%s is not defined (did you mean %s?)", name, near)
	}
	return nil, syntax.Errorf(syntax.UndefinedNameError, n, "%s is not defined", name)
}

// foldName ignores case and underscores when matching misspelled names.
func foldName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}

// visibleNames returns, in sorted order, every name a reference in the
// innermost scope could resolve to.
func (c *CompileContext) visibleNames() []string {
	seen := make(map[string]bool)
	for _, s := range c.scopes {
		for name := range s.stack {
			seen[name] = true
		}
	}
	for name := range c.externals {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// localsOffsets returns the offset from the top of the stack of each
// name bound in the innermost scope.
func (c *CompileContext) localsOffsets() map[string]int {
	s := c.scopes[len(c.scopes)-1]
	offsets := make(map[string]int, len(s.stack))
	for name, slot := range s.stack {
		offsets[name] = s.size - 1 - slot
	}
	return offsets
}
