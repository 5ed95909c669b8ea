// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/squiggle-lang/squiggle-go/ir"
	"github.com/squiggle-lang/squiggle-go/syntax"
	"github.com/squiggle-lang/squiggle-go/value"
)

var at = &syntax.Identifier{Value: "ref"}

func TestScopesPoppedOnError(t *testing.T) {
	c := newContext(nil)
	err := c.withScope(func() error {
		c.defineLocal("a")
		return c.withFunctionScope(func(*scope) error {
			return c.withScope(func() error {
				_, err := c.resolveName(at, "missing")
				return err
			})
		})
	})
	if err == nil {
		t.Fatal("resolving an undefined name succeeded")
	}
	if len(c.scopes) != 0 {
		t.Errorf("%d scopes left after error", len(c.scopes))
	}
}

// TestCaptureChain resolves a name bound two functions out and checks
// that each function on the way captures it exactly once.
func TestCaptureChain(t *testing.T) {
	c := newContext(value.StringDict{"ext": value.Number(1)})
	var outer, inner *scope
	var refs []ir.Ref
	err := c.withScope(func() error {
		c.defineLocal("a")
		c.defineLocal("b")
		return c.withFunctionScope(func(s *scope) error {
			outer = s
			c.defineLocal("p")
			return c.withScope(func() error {
				c.defineLocal("q")
				return c.withFunctionScope(func(s *scope) error {
					inner = s
					for _, name := range []string{"a", "a", "p", "q", "ext"} {
						r, err := c.resolveName(at, name)
						if err != nil {
							return err
						}
						refs = append(refs, r)
					}
					return nil
				})
			})
		})
	})
	if err != nil {
		t.Fatal(err)
	}

	str := func(refs []ir.Ref) []string {
		var out []string
		for _, r := range refs {
			out = append(out, ir.String(r))
		}
		return out
	}
	for _, test := range []struct {
		what string
		got  []string
		want []string
	}{
		{"refs", str(refs), []string{"(CaptureRef 0)", "(CaptureRef 0)", "(CaptureRef 1)", "(CaptureRef 2)", "1"}},
		{"inner captures", str(inner.captures), []string{"(CaptureRef 0)", "(StackRef 1)", "(StackRef 0)"}},
		{"outer captures", str(outer.captures), []string{"(StackRef 1)"}},
	} {
		if diff := cmp.Diff(test.want, test.got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", test.what, diff)
		}
	}
}

func TestStackOffsets(t *testing.T) {
	c := newContext(nil)
	var got []int
	resolve := func(name string) {
		r, err := c.resolveName(at, name)
		if err != nil {
			t.Fatal(err)
		}
		ref, ok := r.(*ir.StackRef)
		if !ok {
			t.Fatalf("%s resolved to %s, want a StackRef", name, ir.String(r))
		}
		got = append(got, ref.Offset)
	}
	c.withScope(func() error {
		c.defineLocal("a")
		c.defineLocal("b")
		return c.withScope(func() error {
			c.defineLocal("c")
			resolve("a")
			resolve("b")
			resolve("c")
			c.defineLocal("a")
			resolve("a")
			resolve("c")
			return nil
		})
	})
	if diff := cmp.Diff([]int{2, 1, 0, 0, 1}, got); diff != "" {
		t.Errorf("offsets mismatch (-want +got):\n%s", diff)
	}
}
