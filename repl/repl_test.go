// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package repl_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	squiggle "github.com/squiggle-lang/squiggle-go"
	"github.com/squiggle-lang/squiggle-go/repl"
	"github.com/squiggle-lang/squiggle-go/value"
)

const lib = `statements:
  - {type: LetStatement, variable: g, unit: {type: InfixUnitType, op: "/", args: [meters, {type: ExponentialUnitType, base: seconds, exponent: 2}]}, value: 9.8, exported: true}
`

const fall = `statements:
  - {type: LetStatement, variable: t, unit: seconds, value: 3}
  - {type: LetStatement, variable: h, value: {type: InfixCall, op: "*", args: [{type: DotLookup, arg: physics, key: g}, {type: InfixCall, op: "*", args: [t, t]}]}}
  - {type: LetStatement, variable: v, value: {type: InfixCall, op: "/", args: [h, t]}}
result: v
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSession(t *testing.T) {
	dir := t.TempDir()
	libPath := writeFile(t, dir, "lib.yaml", lib)
	fallPath := writeFile(t, dir, "fall.yaml", fall)

	s := repl.NewSession(value.Universe, squiggle.Options{CheckUnits: true})
	ctx := context.Background()
	run := func(line string) string {
		t.Helper()
		var buf bytes.Buffer
		require.NoError(t, s.Exec(ctx, &buf, line))
		return buf.String()
	}

	err := s.Exec(ctx, &bytes.Buffer{}, "ir")
	require.EqualError(t, err, "no program loaded")

	require.Equal(t, "physics: g\n", run("import physics "+libPath))
	require.Equal(t, fallPath+": 3 bindings, 0 exports\n", run("load "+fallPath))
	require.Equal(t, "h\t(StackRef 1)\nt\t(StackRef 2)\nv\t(StackRef 0)\n", run("bindings"))
	require.Equal(t, "t :: seconds\t(StackRef 2)\n", run("t"))

	// Member units of an import are unknown, so h is unconstrained.
	require.Equal(t, "h :: ?\t(StackRef 1)\n", run("h"))
	require.Equal(t, "physics\texternal <module \"physics\">\n", run("physics"))
	require.Contains(t, run("ir"), `(Call <builtin $_atIndex_$> <module "physics"> "g")`)
	require.Equal(t, fallPath+":2:36\tt :: seconds\n", run("units"))

	require.EqualError(t, s.Exec(ctx, &bytes.Buffer{}, "nothing"), "nothing is not defined")
	require.EqualError(t, s.Exec(ctx, &bytes.Buffer{}, "frob a b"), `unknown command "frob"`)
	require.Empty(t, run("   "))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "result: {type: InfixCall, op: \"+\", args: [1, nope]}\n")
	s := repl.NewSession(value.Universe, squiggle.Options{})

	var buf bytes.Buffer
	err := s.Exec(context.Background(), &buf, "load "+bad)
	require.EqualError(t, err, bad+" failed to compile")
	require.Equal(t, bad+":1:46: nope is not defined\n", buf.String())

	err = s.Exec(context.Background(), &buf, "load "+filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading ")
}
