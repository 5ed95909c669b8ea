// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/squiggle-lang/squiggle-go/compile"
	"github.com/squiggle-lang/squiggle-go/ir"
	"github.com/squiggle-lang/squiggle-go/syntax/syntaxtest"
	"github.com/squiggle-lang/squiggle-go/value"
)

func TestImportFlag(t *testing.T) {
	for _, test := range []struct {
		arg     string
		wantErr string
	}{
		{"physics=physics.yaml", ""},
		{"m=a=b.yaml", ""}, // the file name may contain '='
		{"physics", `want name=file, got "physics"`},
		{"=physics.yaml", `want name=file, got "=physics.yaml"`},
		{"physics=", `want name=file, got "physics="`},
	} {
		var f importFlag
		err := f.Set(test.arg)
		if test.wantErr != "" {
			require.EqualError(t, err, test.wantErr, test.arg)
			require.Empty(t, f, test.arg)
			continue
		}
		require.NoError(t, err, test.arg)
		require.Equal(t, test.arg, f.String())
	}

	var f importFlag
	require.NoError(t, f.Set("a=a.yaml"))
	require.NoError(t, f.Set("b=b.yaml"))
	require.Equal(t, "a=a.yaml,b=b.yaml", f.String())
	require.Equal(t, "b", f[1].name)
	require.Equal(t, "b.yaml", f[1].file)
}

func TestWrite(t *testing.T) {
	prog, err := compile.Compile(syntaxtest.Decode(t, `
		statements:
		  - {type: LetStatement, variable: a, value: 1, exported: true}
		result: {type: InfixCall, op: "*", args: [a, 2]}
	`), value.Universe)
	require.NoError(t, err)
	want, err := ir.Proto(prog)
	require.NoError(t, err)

	for _, test := range []struct {
		format string
		decode func([]byte, *structpb.Value) error
	}{
		{"json", func(b []byte, m *structpb.Value) error { return protojson.Unmarshal(b, m) }},
		{"text", func(b []byte, m *structpb.Value) error { return prototext.Unmarshal(b, m) }},
		{"wire", func(b []byte, m *structpb.Value) error { return proto.Unmarshal(b, m) }},
	} {
		var buf bytes.Buffer
		require.NoError(t, write(&buf, prog, test.format), test.format)
		got := new(structpb.Value)
		require.NoError(t, test.decode(buf.Bytes(), got), test.format)
		if diff := cmp.Diff(want, got, protocmp.Transform()); diff != "" {
			t.Errorf("%s: output mismatch (-want +got):\n%s", test.format, diff)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, write(&buf, prog, "ir"))
	require.Equal(t, ir.String(prog)+"\n", buf.String())

	buf.Reset()
	require.EqualError(t, write(&buf, prog, "yaml"), `unsupported output format "yaml"`)
	require.Zero(t, buf.Len())
}
