// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The squiggle command compiles Squiggle syntax trees and prints the
// resulting IR. With no arguments and a terminal on standard input,
// it starts an interactive shell; otherwise a tree is read from
// standard input.
package main // import "github.com/squiggle-lang/squiggle-go/cmd/squiggle"

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/term"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"

	squiggle "github.com/squiggle-lang/squiggle-go"
	"github.com/squiggle-lang/squiggle-go/compile"
	"github.com/squiggle-lang/squiggle-go/ir"
	"github.com/squiggle-lang/squiggle-go/repl"
	"github.com/squiggle-lang/squiggle-go/syntax"
	"github.com/squiggle-lang/squiggle-go/value"
)

// flags
var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	output     = flag.String("output", "ir", "output format: ir, json, text or wire")
	showUnits  = flag.Bool("units", false, "print the solved unit type of each variable")
	noUnits    = flag.Bool("nounits", false, "do not check units")
	imports    = importFlag{}
)

func init() {
	flag.BoolVar(&compile.Disassemble, "disassemble", compile.Disassemble, "log the IR of each compiled program")
	flag.Var(&imports, "import", "make the exports of `name=file` available as module name (repeatable)")
}

// importFlag collects -import name=file flags in order.
type importFlag []struct{ name, file string }

func (f *importFlag) String() string {
	var parts []string
	for _, imp := range *f {
		parts = append(parts, imp.name+"="+imp.file)
	}
	return strings.Join(parts, ",")
}

func (f *importFlag) Set(s string) error {
	name, file, ok := strings.Cut(s, "=")
	if !ok || name == "" || file == "" {
		return errors.Errorf("want name=file, got %q", s)
	}
	*f = append(*f, struct{ name, file string }{name, file})
	return nil
}

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("squiggle: ")
	log.SetFlags(0)
	flag.Parse()
	defer glog.Flush()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}

	opts := squiggle.Options{CheckUnits: !*noUnits}
	externals, err := loadImports(value.Universe)
	if err != nil {
		log.Print(err)
		return 1
	}

	switch {
	case flag.NArg() == 0 && term.IsTerminal(int(os.Stdin.Fd())):
		fmt.Println("Welcome to Squiggle (github.com/squiggle-lang/squiggle-go)")
		repl.REPL(repl.NewSession(externals, opts))
		return 0

	case flag.NArg() == 0:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Print(errors.Wrap(err, "reading standard input"))
			return 1
		}
		prog, err := syntax.Decode("<stdin>", data)
		if err != nil {
			log.Print(err)
			return 1
		}
		return run(map[string]*syntax.Program{"<stdin>": prog}, []string{"<stdin>"}, externals, opts)

	default:
		progs := make(map[string]*syntax.Program)
		for _, file := range flag.Args() {
			prog, err := decodeFile(file)
			if err != nil {
				log.Print(err)
				return 1
			}
			progs[file] = prog
		}
		return run(progs, flag.Args(), externals, opts)
	}
}

func decodeFile(filename string) (*syntax.Program, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	return syntax.Decode(filename, data)
}

// loadImports builds each -import file in turn, so that later imports
// may use earlier ones, and adds its module to externals.
func loadImports(externals value.StringDict) (value.StringDict, error) {
	for _, imp := range imports {
		prog, err := decodeFile(imp.file)
		if err != nil {
			return nil, err
		}
		res, err := squiggle.Build(prog, externals, squiggle.Options{})
		if err != nil {
			return nil, errors.Wrapf(err, "import %s", imp.name)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		glog.V(1).Infof("import %s: exports %v", imp.name, res.Program.Exports)
		externals = externals.Merge(value.StringDict{imp.name: squiggle.ModuleOf(imp.name, res.Program)})
	}
	return externals, nil
}

// run builds progs and prints the results in the order of files.
func run(progs map[string]*syntax.Program, files []string, externals value.StringDict, opts squiggle.Options) int {
	results, err := squiggle.BuildAll(context.Background(), progs, externals, opts)
	if err != nil {
		log.Print(err)
		return 1
	}
	status := 0
	for _, file := range files {
		res := results[file]
		if res.Err != nil {
			fmt.Fprintln(os.Stderr, res.Err)
			status = 1
			continue
		}
		if err := write(os.Stdout, res.Program, *output); err != nil {
			log.Print(err)
			return 1
		}
		if *showUnits && res.Units != nil {
			for _, v := range res.Units.Variables {
				fmt.Fprintf(os.Stderr, "%s:%s: %s :: %s\n", file, v.Ident.Location.Start, v.Name, v.Units)
			}
			for _, fn := range res.Units.Functions {
				fmt.Fprintf(os.Stderr, "%s: %s\n", file, fn)
			}
		}
	}
	return status
}

// write prints prog to w in the given output format.
func write(w io.Writer, prog *ir.Program, format string) error {
	if format == "ir" {
		_, err := fmt.Fprintln(w, ir.String(prog))
		return err
	}

	msg, err := ir.Proto(prog)
	if err != nil {
		return err
	}
	var data []byte
	switch format {
	case "json":
		data, err = protojson.MarshalOptions{Multiline: true, Indent: "\t"}.Marshal(msg)
		data = append(data, '\n')
	case "text":
		data, err = prototext.MarshalOptions{Multiline: true, Indent: "\t"}.Marshal(msg)
	case "wire":
		data, err = proto.Marshal(msg)
	default:
		return errors.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
