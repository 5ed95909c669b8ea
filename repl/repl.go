// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides an interactive shell for inspecting how
// Squiggle programs compile.
//
// It supports readline-style command editing,
// and interrupts through Control-C.
//
// Commands:
//
//	load FILE...         build the syntax trees in FILEs; the last becomes current
//	import NAME FILE     build FILE and make its exports available as module NAME
//	units                print the solved unit types of the current program
//	ir                   print the IR of the current program
//	bindings             print the stack offset of each top-level binding
//	NAME                 print the unit type and offset of a top-level binding
package repl // import "github.com/squiggle-lang/squiggle-go/repl"

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"

	squiggle "github.com/squiggle-lang/squiggle-go"
	"github.com/squiggle-lang/squiggle-go/ir"
	"github.com/squiggle-lang/squiggle-go/syntax"
	"github.com/squiggle-lang/squiggle-go/value"
)

var interrupted = make(chan os.Signal, 1)

// A Session is the state of one shell: the externals that programs
// are compiled against and the program most recently loaded.
type Session struct {
	Externals value.StringDict
	Options   squiggle.Options

	path    string
	current *squiggle.Result
}

// NewSession returns a session compiling against externals.
func NewSession(externals value.StringDict, opts squiggle.Options) *Session {
	return &Session{Externals: externals, Options: opts}
}

// REPL executes a read, eval, print loop.
//
// Each command gets a context.Context that is cancelled by a SIGINT
// (Control-C), which abandons a load of several files.
func REPL(s *Session) {
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	rl, err := readline.New(">>> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()
	for {
		if err := rep(rl, s); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, executes, and prints one command.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed. Command errors are printed.
func rep(rl *readline.Instance, s *Session) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-interrupted:
			cancel()
		case <-ctx.Done():
		}
	}()

	line, err := rl.Readline()
	if err != nil {
		return err
	}
	if err := s.Exec(ctx, os.Stdout, line); err != nil {
		PrintError(err)
	}
	return nil
}

// Exec executes one command line, writing its output to w.
func (s *Session) Exec(ctx context.Context, w io.Writer, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch cmd, args := fields[0], fields[1:]; cmd {
	case "load":
		if len(args) == 0 {
			return errors.New("usage: load FILE...")
		}
		return s.load(ctx, w, args)

	case "import":
		if len(args) != 2 {
			return errors.New("usage: import NAME FILE")
		}
		return s.importFile(w, args[0], args[1])

	case "units":
		res, err := s.program()
		if err != nil {
			return err
		}
		if res.Units == nil {
			return errors.New("units were not checked")
		}
		for _, v := range res.Units.Variables {
			fmt.Fprintf(w, "%s:%s\t%s :: %s\n", s.path, v.Ident.Location.Start, v.Name, v.Units)
		}
		for _, fn := range res.Units.Functions {
			fmt.Fprintln(w, fn)
		}
		return nil

	case "ir":
		res, err := s.program()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, ir.String(res.Program))
		return nil

	case "bindings":
		res, err := s.program()
		if err != nil {
			return err
		}
		names := make([]string, 0, len(res.Program.Bindings))
		for name := range res.Program.Bindings {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "%s\t(StackRef %d)\n", name, res.Program.Bindings[name])
		}
		return nil
	}

	if len(fields) != 1 {
		return errors.Errorf("unknown command %q", fields[0])
	}
	return s.describe(w, fields[0])
}

func (s *Session) program() (*squiggle.Result, error) {
	if s.current == nil {
		return nil, errors.New("no program loaded")
	}
	return s.current, nil
}

func decodeFile(filename string) (*syntax.Program, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	return syntax.Decode(filename, data)
}

func (s *Session) load(ctx context.Context, w io.Writer, files []string) error {
	progs := make(map[string]*syntax.Program, len(files))
	for _, file := range files {
		prog, err := decodeFile(file)
		if err != nil {
			return err
		}
		progs[file] = prog
	}
	results, err := squiggle.BuildAll(ctx, progs, s.Externals, s.Options)
	if err != nil {
		return errors.Wrap(err, "load")
	}

	var failed error
	for _, file := range files {
		res := results[file]
		if res.Err != nil {
			fmt.Fprintln(w, res.Err)
			if failed == nil {
				failed = errors.Errorf("%s failed to compile", file)
			}
			continue
		}
		fmt.Fprintf(w, "%s: %d bindings, %d exports\n", file, len(res.Program.Bindings), len(res.Program.Exports))
	}
	last := files[len(files)-1]
	if res := results[last]; res.Err == nil {
		s.path, s.current = last, res
	}
	return failed
}

func (s *Session) importFile(w io.Writer, name, file string) error {
	prog, err := decodeFile(file)
	if err != nil {
		return err
	}
	res, err := squiggle.Build(prog, s.Externals, squiggle.Options{})
	if err != nil {
		return err
	}
	if res.Err != nil {
		return res.Err
	}
	m := squiggle.ModuleOf(name, res.Program)
	s.Externals = s.Externals.Merge(value.StringDict{name: m})
	fmt.Fprintf(w, "%s: %s\n", name, strings.Join(m.AttrNames(), " "))
	return nil
}

// describe prints what is known about a top-level binding.
func (s *Session) describe(w io.Writer, name string) error {
	res, err := s.program()
	if err != nil {
		return err
	}
	offset, ok := res.Program.Bindings[name]
	if !ok {
		if v, ok := s.Externals[name]; ok {
			fmt.Fprintf(w, "%s\texternal %s\n", name, v)
			return nil
		}
		return errors.Errorf("%s is not defined", name)
	}
	unit := "?"
	if res.Units != nil {
		if u, ok := res.Units.Lookup(name); ok {
			unit = u.String()
		}
	}
	fmt.Fprintf(w, "%s :: %s\t(StackRef %d)\n", name, unit, offset)
	return nil
}

// PrintError prints the error to stderr.
func PrintError(err error) {
	fmt.Fprintln(os.Stderr, err)
}
