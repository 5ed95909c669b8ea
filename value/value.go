// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value defines the values that compiled programs refer to:
// constants inlined by the compiler and the bindings of the externals
// table (standard library functions and imported modules).
//
// The values themselves are produced and interpreted by the evaluator
// and the distribution engine; this package gives the compiler just
// enough of their shape to inline them and print them.
package value // import "github.com/squiggle-lang/squiggle-go/value"

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is a value that may be inlined into compiled code.
type Value interface {
	// String returns the string representation of the value.
	String() string

	// Type returns a short string describing the value's type.
	Type() string
}

var (
	_ Value = Number(0)
	_ Value = String("")
	_ Value = Bool(false)
	_ Value = Void{}
	_ Value = (*Builtin)(nil)
	_ Value = (*Module)(nil)
	_ Value = Placeholder{}
)

// Number is a floating-point number.
type Number float64

func (x Number) String() string { return strconv.FormatFloat(float64(x), 'g', -1, 64) }
func (x Number) Type() string   { return "Number" }

// String is a string.
type String string

func (s String) String() string   { return strconv.Quote(string(s)) }
func (s String) GoString() string { return string(s) }
func (s String) Type() string     { return "String" }

// Bool is true or false.
type Bool bool

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (b Bool) Type() string   { return "Bool" }

// Void is the empty value.
type Void struct{}

func (Void) String() string { return "()" }
func (Void) Type() string   { return "Void" }

// A Builtin is a function implemented by the host.
// The compiler only needs its name.
type Builtin struct {
	name string
}

// NewBuiltin returns a new builtin function value with the given name.
func NewBuiltin(name string) *Builtin { return &Builtin{name} }

func (b *Builtin) Name() string   { return b.name }
func (b *Builtin) String() string { return fmt.Sprintf("<builtin %s>", b.name) }
func (b *Builtin) Type() string   { return "Lambda" }

// A Placeholder stands for a value that exists only once the program
// that defines it has been evaluated, such as a member of an imported
// module. The compiler inlines it like any other value.
type Placeholder struct {
	Name string
}

func (p Placeholder) String() string { return "<" + p.Name + ">" }
func (p Placeholder) Type() string   { return "Unknown" }

// A StringDict is a mapping from names to values, and represents
// an environment such as the externals of a compilation unit.
// It is not a true value.Value.
type StringDict map[string]Value

// Keys returns a new sorted slice of d's keys.
func (d StringDict) Keys() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d StringDict) String() string {
	var buf strings.Builder
	buf.WriteByte('{')
	sep := ""
	for _, name := range d.Keys() {
		buf.WriteString(sep)
		buf.WriteString(name)
		buf.WriteString(": ")
		buf.WriteString(d[name].String())
		sep = ", "
	}
	buf.WriteByte('}')
	return buf.String()
}

// Has reports whether the dictionary contains the specified key.
func (d StringDict) Has(key string) bool { _, ok := d[key]; return ok }

// Merge returns a new dictionary holding the bindings of d overlaid
// with those of each of others in turn.
func (d StringDict) Merge(others ...StringDict) StringDict {
	merged := make(StringDict, len(d))
	for k, v := range d {
		merged[k] = v
	}
	for _, other := range others {
		for k, v := range other {
			merged[k] = v
		}
	}
	return merged
}
