// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "fmt"

// A Module is the exported bindings of an already compiled and
// evaluated import. Imports reach the compiler as Module values in
// the externals table.
type Module struct {
	Name    string
	Members StringDict
}

// Attr returns the named member of m.
func (m *Module) Attr(name string) (Value, bool) {
	v, ok := m.Members[name]
	return v, ok
}

func (m *Module) AttrNames() []string { return m.Members.Keys() }
func (m *Module) String() string      { return fmt.Sprintf("<module %q>", m.Name) }
func (m *Module) Type() string        { return "Dict" }
