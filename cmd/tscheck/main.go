// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command tscheck type-checks TypeScript-subset source files and
// reports diagnostics. With no arguments it starts an interactive
// session that prints the type of each entered expression.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"tscheck.io/tsc/binder"
	"tscheck.io/tsc/diag"
	"tscheck.io/tsc/format"
	"tscheck.io/tsc/parser"
	"tscheck.io/tsc/syntax/stmt"
	"tscheck.io/tsc/typecheck"
	"tscheck.io/tsc/types"
)

const usageLine = "tscheck [options] [programfile ...]"

func usage(w io.Writer) {
	fmt.Fprintf(w, `tscheck - TypeScript subset type checker

Usage:
	%s

Options:
`, usageLine)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the testable entry point: it returns the process exit code
// instead of calling os.Exit.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tscheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		usage(stderr)
		fs.PrintDefaults()
	}
	flagE := fs.String("e", "", "program passed as a string")
	flagConfig := fs.String("config", "", "path to a tsconfig-style JSON file")
	flagDebug := fs.Bool("debug", false, "dump unhandled syntax nodes")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	opts := typecheck.Options{
		StrictNullChecks: true,
		NoImplicitThis:   true,
		Debug:            *flagDebug,
	}
	if *flagConfig != "" {
		if err := loadConfig(*flagConfig, &opts); err != nil {
			fmt.Fprintf(stderr, "tscheck: %v\n", err)
			return 2
		}
	}

	if *flagE != "" {
		diags := checkSource("tscheck-arg", []byte(*flagE), opts)
		printDiags(stderr, diags)
		if len(diags) > 0 {
			return 1
		}
		return 0
	}

	if fs.NArg() == 0 {
		return repl(opts, stdout, stderr)
	}

	code := 0
	for _, path := range fs.Args() {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "tscheck: %v\n", err)
			code = 1
			continue
		}
		diags := checkSource(path, source, opts)
		printDiags(stderr, diags)
		if len(diags) > 0 {
			code = 1
		}
	}
	return code
}

// tsconfig is the subset of tsconfig.json the checker honors. Pointer
// fields distinguish absent keys from explicit false.
type tsconfig struct {
	CompilerOptions struct {
		Strict           *bool `json:"strict"`
		StrictNullChecks *bool `json:"strictNullChecks"`
		NoImplicitThis   *bool `json:"noImplicitThis"`
	} `json:"compilerOptions"`
}

func loadConfig(path string, opts *typecheck.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var cfg tsconfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("%s: %v", path, err)
	}
	co := cfg.CompilerOptions
	if co.Strict != nil {
		opts.StrictNullChecks = *co.Strict
		opts.NoImplicitThis = *co.Strict
	}
	if co.StrictNullChecks != nil {
		opts.StrictNullChecks = *co.StrictNullChecks
	}
	if co.NoImplicitThis != nil {
		opts.NoImplicitThis = *co.NoImplicitThis
	}
	return nil
}

// checkSource runs the parse, bind, check pipeline over one file and
// returns every diagnostic produced.
func checkSource(filename string, source []byte, opts typecheck.Options) []diag.Diagnostic {
	file, errs := parser.ParseFile(filename, source)
	var sink diag.List
	for _, err := range errs {
		if d, ok := err.(diag.Diagnostic); ok {
			sink.Report(d)
		} else {
			sink.Report(diag.Diagnostic{Msg: err.Error(), Code: 1005})
		}
	}
	table := binder.Bind(file, &sink)
	c := typecheck.New(types.NewStore(), &sink, opts)
	c.Check(file, table)
	return sink.Diags
}

var errColor = color.New(color.FgRed)

func printDiags(w io.Writer, diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s: %s %s\n", d.Pos, errColor.Sprintf("error TS%d:", d.Code), d.Msg)
	}
}

// repl reads statements interactively, carrying declarations forward,
// and prints the type of each entered expression.
func repl(opts typecheck.Options, stdout, stderr io.Writer) int {
	opts.Script = true
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	var prelude []string
	for {
		data, err := line.Prompt("ts> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(stdout)
				return 0
			}
			fmt.Fprintf(stderr, "tscheck: %v\n", err)
			return 1
		}
		if strings.TrimSpace(data) == "" {
			continue
		}
		line.AppendHistory(data)

		source := strings.Join(append(prelude[:len(prelude):len(prelude)], data), "\n")
		newLine := int32(len(prelude) + 1)

		file, errs := parser.ParseFile("tscheck-interactive", []byte(source))
		var sink diag.List
		for _, err := range errs {
			sink.Report(diag.Diagnostic{Msg: err.Error(), Code: 1005})
		}
		table := binder.Bind(file, &sink)
		c := typecheck.New(types.NewStore(), &sink, opts)
		c.Check(file, table)

		// Earlier lines already reported their problems.
		bad := false
		for _, d := range sink.Diags {
			if d.Pos.Line >= newLine || d.Pos.Line == 0 {
				printDiags(stderr, []diag.Diagnostic{d})
				bad = true
			}
		}
		if bad {
			continue
		}
		prelude = append(prelude, data)
		if last := lastExpr(file); last != nil {
			fmt.Fprintln(stdout, format.Type(c.Store, c.TypeOf(last.Expr)))
		}
	}
}

func lastExpr(file *stmt.File) *stmt.Simple {
	for i := len(file.Stmts) - 1; i >= 0; i-- {
		if s, ok := file.Stmts[i].(*stmt.Simple); ok {
			return s
		}
		break
	}
	return nil
}
