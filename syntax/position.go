// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "fmt"

// A Position describes the location of a rune of input.
type Position struct {
	Line   int32 // 1-based line number; 0 if line unknown
	Col    int32 // 1-based column (rune) number; 0 if column unknown
	Offset int32 // 0-based byte offset
}

// MakePosition returns position with the specified components.
func MakePosition(line, col int32) Position { return Position{Line: line, Col: col} }

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.Line >= 1 }

func (p Position) String() string {
	if p.Line > 0 {
		if p.Col > 0 {
			return fmt.Sprintf("%d:%d", p.Line, p.Col)
		}
		return fmt.Sprintf("%d", p.Line)
	}
	return "?"
}
