// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "fmt"

// An Error is a compile error with a message and a source range.
// It is the only error type the unit checker and the compiler report
// for problems in the program being compiled; any other error they
// return indicates a bug.
type Error struct {
	Kind     ErrorKind
	Path     string
	Location Location
	Msg      string
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%s: %s", e.Path, e.Location.Start, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Location.Start, e.Msg)
}

// Errorf returns a new *Error of the given kind located at n.
func Errorf(kind ErrorKind, n Node, format string, args ...interface{}) *Error {
	var loc Location
	if n != nil {
		loc = LocationOf(n)
	}
	return &Error{Kind: kind, Location: loc, Msg: fmt.Sprintf(format, args...)}
}

// The ErrorKind of an Error classifies the problem.
type ErrorKind uint8

const (
	StructuralError   ErrorKind = iota // construct used where it is not allowed
	UndefinedNameError                 // identifier resolves nowhere
	UnitConflictError                  // inconsistent unit derivations
)

var errorKindNames = [...]string{
	StructuralError:    "structural",
	UndefinedNameError: "undefined name",
	UnitConflictError:  "unit conflict",
}

func (kind ErrorKind) String() string { return errorKindNames[kind] }
