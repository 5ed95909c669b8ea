// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunkedfile provides utilities for testing that errors in
// Squiggle programs are reported in the appropriate places.
//
// A chunked file consists of several YAML syntax trees separated by
// "---" lines. Each chunk is one program. A YAML comment of the form
// ### "regexp" states that an error whose message matches the quoted
// regular expression is expected at that line. Because YAML ignores
// comments, a chunk is decoded as is.
//
// Example:
//
//	statements:
//	  - type: LetStatement
//	    variable: x
//	    value: y ### "y is not defined"
//	---
//	result: 1
//
// A client test decodes and builds each chunk, then calls
// chunk.GotError for each error that actually occurred. Any discrepancy
// between the actual and expected errors is reported using the client's
// reporter, which is typically a testing.T.
package chunkedfile // import "github.com/squiggle-lang/squiggle-go/internal/chunkedfile"

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

const debug = false

// A Chunk is a portion of a source file.
// It contains a set of expected errors.
type Chunk struct {
	Source   string
	Line     int // line of the first line of the chunk
	filename string
	report   Reporter
	wantErrs map[int]*regexp.Regexp
}

// Reporter is implemented by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// Read parses a chunked file and returns its chunks.
// It reports failures using the reporter.
//
// Each chunk's source is padded with newlines so that line numbers
// reported by the decoder match the original file.
func Read(filename string, report Reporter) (chunks []Chunk) {
	data, err := os.ReadFile(filename)
	if err != nil {
		report.Errorf("%s", err)
		return
	}
	eol := "\n"
	if runtime.GOOS == "windows" {
		eol = "\r\n"
	}
	return readBytes(filename, data, report, eol)
}

func readBytes(filename string, data []byte, report Reporter, eol string) (chunks []Chunk) {
	linenum := 1
	for i, chunk := range strings.Split(string(data), eol+"---"+eol) {
		if debug {
			fmt.Printf("chunk %d at line %d: %s\n", i, linenum, chunk)
		}
		first := linenum
		src := strings.Repeat("\n", linenum-1) + chunk

		wantErrs := make(map[int]*regexp.Regexp)
		lines := strings.Split(chunk, "\n")
		for j := 0; j < len(lines); j, linenum = j+1, linenum+1 {
			line := lines[j]
			hashes := strings.Index(line, "###")
			if hashes < 0 {
				continue
			}
			rest := strings.TrimSpace(line[hashes+len("###"):])
			pattern, err := strconv.Unquote(rest)
			if err != nil {
				report.Errorf("\n%s:%d: not a quoted regexp: %s", filename, linenum, rest)
				continue
			}
			rx, err := regexp.Compile(pattern)
			if err != nil {
				report.Errorf("\n%s:%d: %v", filename, linenum, err)
				continue
			}
			wantErrs[linenum] = rx
			if debug {
				fmt.Printf("\t%d\t%s\n", linenum, rx)
			}
		}
		linenum++ // the separator

		chunks = append(chunks, Chunk{
			Source:   src,
			Line:     first,
			filename: filename,
			report:   report,
			wantErrs: wantErrs,
		})
	}
	return chunks
}

// WantsError reports whether the chunk expects any error.
func (chunk *Chunk) WantsError() bool { return len(chunk.wantErrs) > 0 }

// GotError should be called by the client to report an error at a particular line.
// GotError reports unexpected errors to the chunk's reporter.
func (chunk *Chunk) GotError(linenum int, msg string) {
	if rx, ok := chunk.wantErrs[linenum]; ok {
		delete(chunk.wantErrs, linenum)
		if !rx.MatchString(msg) {
			chunk.report.Errorf("\n%s:%d: error %q does not match pattern %q", chunk.filename, linenum, msg, rx)
		}
	} else {
		chunk.report.Errorf("\n%s:%d: unexpected error: %v", chunk.filename, linenum, msg)
	}
}

// Done should be called by the client to indicate that the chunk has no more errors.
// Done reports expected errors that did not occur to the chunk's reporter,
// in line order.
func (chunk *Chunk) Done() {
	var lines []int
	for linenum := range chunk.wantErrs {
		lines = append(lines, linenum)
	}
	sort.Ints(lines)
	for _, linenum := range lines {
		chunk.report.Errorf("\n%s:%d: expected error matching %q", chunk.filename, linenum, chunk.wantErrs[linenum])
	}
}
