// Command tarantula runs the interpreter, either over a script file or as
// an interactive prompt.
//
//	tarantula            start the prompt; each line runs against one
//	                     persistent global scope
//	tarantula script.tt  execute a file as a single unit
//
// Exit codes: 64 usage error, 65 lexical or syntax failure, 66 unreadable
// input file, 70 runtime failure.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"

	tarantula "github.com/MatthewKosloski/truncated-tarantula"
	"github.com/MatthewKosloski/truncated-tarantula/internal/logging"
)

const (
	appName     = "tarantula"
	prompt      = "> "
	historyFile = ".tarantula_history"

	exitOK      = 0
	exitUsage   = 64
	exitSyntax  = 65
	exitNoInput = 66
	exitRuntime = 70
)

var (
	flagDebug     = flag.Bool("debug", false, "enable pipeline trace logging")
	flagLogFile   = flag.String("log-file", "", "append logs to this file as well")
	flagNoHistory = flag.Bool("no-history", false, "do not load or save prompt history")
	flagVersion   = flag.Bool("version", false, "print the version and exit")
)

// app bundles the collaborators the driver needs, so file execution can be
// exercised in tests with an in-memory filesystem and buffers.
type app struct {
	fs     afero.Fs
	out    io.Writer // program output (print/println)
	errOut io.Writer // diagnostics
	log    *slog.Logger
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *flagVersion {
		fmt.Println(tarantula.Version)
		return
	}

	if *flagDebug {
		logging.SetDebug()
	}
	logger, closer, err := logging.New(*flagLogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(exitUsage)
	}
	if closer != nil {
		defer closer.Close()
	}

	a := &app{
		fs:     afero.NewOsFs(),
		out:    os.Stdout,
		errOut: os.Stderr,
		log:    logger,
	}

	args := flag.Args()
	switch len(args) {
	case 0:
		os.Exit(a.runPrompt(*flagNoHistory))
	case 1:
		os.Exit(a.runFile(args[0]))
	default:
		usage()
		os.Exit(exitUsage)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [script]\n", appName)
	flag.PrintDefaults()
}

// runFile reads and executes one file as a single unit, mapping the error
// kind to the process exit code.
func (a *app) runFile(path string) int {
	src, err := afero.ReadFile(a.fs, path)
	if err != nil {
		fmt.Fprintf(a.errOut, "%s: %v\n", appName,
			errors.Wrapf(err, "cannot read %s", path))
		return exitNoInput
	}

	a.log.Debug("run file", "path", path, "bytes", len(src))

	ip := tarantula.NewInterpreter(a.out)
	return a.run(ip, string(src), filepath.Base(path))
}

// run lexes, parses, and evaluates one unit of input. filename is empty in
// interactive mode, which switches the diagnostic header to its bare-column
// form.
func (a *app) run(ip *tarantula.Interpreter, source, filename string) int {
	started := time.Now()

	lexer := tarantula.NewLexer(source)
	tokens, err := lexer.Tokenize()
	if err != nil {
		a.report(err, lexer, filename)
		return exitSyntax
	}

	parser := tarantula.NewParser(tokens)
	expressions, err := parser.Parse()
	if err != nil {
		a.report(err, lexer, filename)
		return exitSyntax
	}

	a.log.Debug("parsed",
		"tokens", len(tokens),
		"expressions", len(expressions),
		"elapsed", time.Since(started))

	if err := ip.Interpret(expressions); err != nil {
		a.report(err, lexer, filename)
		return exitRuntime
	}

	a.log.Debug("evaluated", "elapsed", time.Since(started))
	return exitOK
}

// report writes one diagnostic to the error stream, quoting the offending
// source line from the lexer's line table.
func (a *app) report(err error, lexer *tarantula.Lexer, filename string) {
	diag, ok := err.(tarantula.SourceError)
	if !ok {
		fmt.Fprintln(a.errOut, err)
		return
	}
	line := lexer.Line(diag.Pos().Line)
	fmt.Fprint(a.errOut, tarantula.FormatDiagnostic(diag, filename, line))
}

// runPrompt runs the interactive loop. Each line is lexed, parsed, and
// evaluated independently against one persistent interpreter, so bindings in
// the global scope survive across lines. Errors abort only the current line.
func (a *app) runPrompt(noHistory bool) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var histPath string
	if !noHistory {
		if home, err := os.UserHomeDir(); err == nil {
			histPath = filepath.Join(home, historyFile)
			if f, err := os.Open(histPath); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	ip := tarantula.NewInterpreter(a.out)

	for {
		code, err := ln.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			// Ctrl+C cancels the current line only.
			continue
		}
		if err != nil {
			// io.EOF (Ctrl+D) or a closed terminal ends the session.
			fmt.Fprintln(a.out)
			return exitOK
		}

		if code == "" {
			continue
		}

		a.run(ip, code, "")
		ln.AppendHistory(code)
	}
}
