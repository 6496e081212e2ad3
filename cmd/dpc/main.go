// cmd/dpc is the command-line compiler front-end: it compiles a .dp file
// (and its import closure) from the filesystem and prints diagnostics.
//
// What lives here
//   - Subcommand dispatch (compile, version) following the teacher's
//     cmd/msg main.go pattern: switch on os.Args[1], each cmdX(args) int.
//   - A filesystem Resolver implementation (spec §6's "CLI ... provides a
//     filesystem resolver").
//
// What does NOT live here
//   - No lexing/parsing/IR logic: that's entirely dp's job. This file only
//     calls dp.CompilationSession.Compile and renders the result.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/curefate/DialoguePlus-Extension/dp"
	"github.com/curefate/DialoguePlus-Extension/internal/dplog"
	"github.com/curefate/DialoguePlus-Extension/internal/projectcfg"
)

const appName = "dpc"

var (
	errorStyle = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	warnStyle  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	infoStyle  = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "compile":
		os.Exit(cmdCompile(os.Args[2:]))
	case "version":
		fmt.Println("dpc 0.1")
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`DialoguePlus compiler front-end

Usage:
  %s compile <file.dp>   Compile a file and its imports, print diagnostics.
  %s version             Print the compiled version.

`, appName, appName)
}

func cmdCompile(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s compile <file.dp>\n", appName)
		return 2
	}
	file := args[0]
	dir := filepath.Dir(file)

	manifest, err := projectcfg.Load(dir)
	if err != nil {
		errorStyle.Print(" Config Error ")
		pterm.FgRed.Println(" " + err.Error())
		return 1
	}

	dplog.Init(dplog.FromEnv())

	resolver := newFSResolver(manifest.ImportRoots)
	sess := dp.NewCompilationSessionWithOptions(resolver, dp.SessionOptions{
		EntranceLabel: manifest.EntranceLabel,
		CacheLimit:    manifest.CacheLimit,
	})

	dplog.CompileStart(file)
	result, err := sess.Compile(context.Background(), file)
	if err != nil {
		dplog.ResolveFailure(file, err)
		errorStyle.Print(" Compile Error ")
		pterm.FgRed.Println(" " + err.Error())
		return 1
	}

	errCount, warnCount := 0, 0
	for _, d := range result.Diagnostics {
		printDiagnostic(file, d)
		switch d.Severity {
		case dp.SeverityError:
			errCount++
		case dp.SeverityWarning:
			warnCount++
		}
	}
	dplog.CompileEnd(file, result.Success, errCount, warnCount)

	if result.Success {
		infoStyle.Print(" OK ")
		pterm.FgGreen.Printf(" %d label(s) compiled, %d warning(s)\n", len(result.Labels.Labels), warnCount)
		return 0
	}
	errorStyle.Print(" FAILED ")
	pterm.FgRed.Printf(" %d error(s), %d warning(s)\n", errCount, warnCount)
	return 1
}

func printDiagnostic(file string, d dp.Diagnostic) {
	src, readErr := os.ReadFile(file)
	var rendered string
	if readErr == nil {
		rendered = dp.RenderDiagnostic(d, filepath.Base(file), string(src))
	} else {
		rendered = fmt.Sprintf("%s:%d:%d: %s", file, d.Line, d.Column, d.Message)
	}

	switch d.Severity {
	case dp.SeverityError:
		errorStyle.Print(" Error ")
	case dp.SeverityWarning:
		warnStyle.Print(" Warning ")
	default:
		infoStyle.Print(" Info ")
	}
	fmt.Println()
	fmt.Println(rendered)
}
