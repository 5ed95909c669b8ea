// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntaxtest defines utilities for testing passes over
// Squiggle syntax trees.
package syntaxtest // import "github.com/squiggle-lang/squiggle-go/syntax/syntaxtest"

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/squiggle-lang/squiggle-go/internal/chunkedfile"
	"github.com/squiggle-lang/squiggle-go/syntax"
)

// A Reporter is a value to which errors may be reported.
// It is satisfied by *testing.T.
type Reporter interface {
	Helper()
	Fatalf(format string, args ...interface{})
}

// DataFile returns the effective filename of the specified
// test data resource, relative to the root of the module.
var DataFile = func(pkgdir, filename string) string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Dir(filepath.Dir(filepath.Dir(file)))
	return filepath.Join(root, pkgdir, filename)
}

// Decode decodes a program written as an indented YAML literal,
// failing the test on error. Leading tabs are removed so that the
// document may be indented along with the Go code around it.
func Decode(t Reporter, src string) *syntax.Program {
	t.Helper()
	prog, err := syntax.Decode("test.yaml", []byte(Dedent(src)))
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	return prog
}

// Dedent removes the longest common prefix of tabs from the lines of s
// and drops a leading newline.
func Dedent(s string) string {
	s = strings.TrimPrefix(s, "\n")
	lines := strings.Split(s, "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, "\t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return s
	}
	for i, line := range lines {
		if len(line) >= indent {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, "\t")
		}
	}
	return strings.Join(lines, "\n")
}

// RunChunks decodes every chunk of a chunked YAML file and passes the
// program to build. Decoding errors and the error returned by build
// are matched against the chunk's expectations by line.
func RunChunks(filename string, report chunkedfile.Reporter, build func(prog *syntax.Program) error) {
	for _, chunk := range chunkedfile.Read(filename, report) {
		prog, err := syntax.Decode(filename, []byte(chunk.Source))
		if err == nil {
			err = build(prog)
		}
		if err != nil {
			if err, ok := err.(*syntax.Error); ok {
				chunk.GotError(int(err.Location.Start.Line), err.Msg)
			} else {
				chunk.GotError(chunk.Line, err.Error())
			}
		}
		chunk.Done()
	}
}
