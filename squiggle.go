// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package squiggle is the front end of the Squiggle language:
// it checks a decoded syntax tree for consistent physical units and
// lowers it to IR with every name resolved.
//
// The syntax tree comes from an external parser (see syntax.Decode).
// Build runs the compiler and then, if requested, the unit checker.
// The compiler goes first so that a name that is not defined anywhere
// is reported as such rather than silently treated as unconstrained
// by the unit checker.
package squiggle // import "github.com/squiggle-lang/squiggle-go"

import (
	"context"
	"sort"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/squiggle-lang/squiggle-go/compile"
	"github.com/squiggle-lang/squiggle-go/ir"
	"github.com/squiggle-lang/squiggle-go/syntax"
	"github.com/squiggle-lang/squiggle-go/unitcheck"
	"github.com/squiggle-lang/squiggle-go/value"
)

// Options controls a build.
type Options struct {
	CheckUnits bool // run the unit checker after compiling
}

// A Result is the outcome of building one program.
//
// Exactly one of Program and Err is set. Units is set when the
// program compiled, units were checked, and no conflict was found.
type Result struct {
	Program *ir.Program
	Units   *unitcheck.Result
	Err     *syntax.Error
}

// Build compiles prog against externals and optionally checks its units.
//
// Problems in the program itself are reported in Result.Err; a non-nil
// error indicates a failure of the build machinery.
func Build(prog *syntax.Program, externals value.StringDict, opts Options) (*Result, error) {
	if glog.V(1) {
		glog.Infof("building %s (%d statements)", prog.Path, len(prog.Statements))
	}

	program, err := compile.Compile(prog, externals)
	if err != nil {
		return failed(err)
	}
	res := &Result{Program: program}

	if opts.CheckUnits {
		u, err := unitcheck.Check(prog)
		if err != nil {
			return failed(err)
		}
		res.Units = u
		if glog.V(1) {
			glog.Infof("%s: solved %d variables, %d functions", prog.Path, len(u.Variables), len(u.Functions))
		}
	}
	return res, nil
}

func failed(err error) (*Result, error) {
	if err, ok := err.(*syntax.Error); ok {
		if glog.V(1) {
			glog.Infof("%s error: %v", err.Kind, err)
		}
		return &Result{Err: err}, nil
	}
	return nil, err
}

// BuildAll builds several independent programs concurrently, keyed by
// name. The externals table is shared by all of them and only read.
//
// The first build failure cancels the rest and is returned; program
// errors do not count as failures and are reported per program.
func BuildAll(ctx context.Context, progs map[string]*syntax.Program, externals value.StringDict, opts Options) (map[string]*Result, error) {
	names := make([]string, 0, len(progs))
	for name := range progs {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]*Result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, prog := i, progs[name]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Build(prog, externals, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*Result, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out, nil
}

// ModuleOf returns the module that importing prog under name yields:
// one member per export. Members are placeholders for values that
// exist only once prog has been evaluated.
func ModuleOf(name string, prog *ir.Program) *value.Module {
	m := &value.Module{Name: name, Members: make(value.StringDict, len(prog.Exports))}
	for _, export := range prog.Exports {
		m.Members[export] = value.Placeholder{Name: name + "." + export}
	}
	return m
}
