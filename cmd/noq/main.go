package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	noq "github.com/frexsdev/noq"
)

const (
	appName     = "noq"
	promptMain  = "noq> "
	promptShape = "> "
	promptDebug = "expr> "
)

var colorEnabled = true

func red(s string) string {
	if !colorEnabled {
		return s
	}
	return "\x1b[31m" + s + "\x1b[0m"
}

func blue(s string) string {
	if !colorEnabled {
		return s
	}
	return "\x1b[94m" + s + "\x1b[0m"
}

func usage() {
	fmt.Printf(`noq %s (built %s)

Usage:
  %s                  Start the interactive REPL (or read commands from a pipe).
  %s <file.noq>       Interpret a source file.
  %s --debug-parser   Start the expression parser debugger.
  %s --version        Print the version.
`, noq.Version, noq.BuildDate, appName, appName, appName, appName)
}

func main() {
	var filePath string
	debugParser := false

	for _, arg := range os.Args[1:] {
		switch arg {
		case "--debug-parser":
			debugParser = true
		case "--version":
			fmt.Println(noq.Version)
			return
		case "-h", "--help":
			usage()
			return
		default:
			if strings.HasPrefix(arg, "-") {
				fmt.Fprintf(os.Stderr, "%s: unknown flag %q\n", appName, arg)
				usage()
				os.Exit(2)
			}
			if filePath != "" {
				fmt.Fprintf(os.Stderr, "%s: file path already provided; interpreting several files is not supported\n", appName)
				os.Exit(2)
			}
			filePath = arg
		}
	}

	cfg := loadConfig()
	switch cfg.Color {
	case "always":
		colorEnabled = true
	case "never":
		colorEnabled = false
	default:
		colorEnabled = isatty.IsTerminal(os.Stdout.Fd())
	}

	switch {
	case debugParser:
		os.Exit(cmdDebugParser())
	case filePath != "":
		os.Exit(cmdRunFile(filePath, cfg))
	case isatty.IsTerminal(os.Stdin.Fd()):
		os.Exit(cmdRepl(cfg))
	default:
		// Piped input: treat stdin as a batch source.
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read stdin: %v\n", appName, err)
			os.Exit(1)
		}
		os.Exit(runSource("<stdin>", string(src), cfg))
	}
}

// -----------------------------------------------------------------------------
// batch
// -----------------------------------------------------------------------------

func cmdRunFile(path string, cfg config) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return 1
	}
	return runSource(path, string(src), cfg)
}

// runSource parses the whole source first (all-or-nothing), then executes
// command by command, stopping at the first error or a top-level quit.
func runSource(name, src string, cfg config) int {
	cmds, err := noq.ParseProgram(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(noq.WrapErrorWithName(err, name, src).Error()))
		return 1
	}

	ctx := noq.NewContext()
	ctx.Engine.DeepLimit = cfg.DeepLimit
	ctx.Out = os.Stdout

	if err := ctx.RunProgram(cmds); err != nil {
		fmt.Fprintln(os.Stderr, red(noq.WrapErrorWithName(err, name, src).Error()))
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(cfg config) int {
	fmt.Printf("noq %s\nCtrl+C cancels input, Ctrl+D exits. Type quit to exit.\n", noq.Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.HistoryFile
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	ctx := noq.NewContext()
	ctx.Engine.DeepLimit = cfg.DeepLimit
	ctx.Out = os.Stdout

	for !ctx.Quitting() {
		prompt := promptMain
		if ctx.Shaping() {
			prompt = promptShape
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		cmd, perr := noq.ParseCommand(line)
		if perr != nil {
			fmt.Fprintln(os.Stderr, red(noq.WrapErrorWithSource(perr, line).Error()))
			continue
		}
		if rerr := ctx.Run(cmd); rerr != nil {
			fmt.Fprintln(os.Stderr, red(noq.WrapErrorWithSource(rerr, line).Error()))
			continue
		}
	}

	return 0
}

// -----------------------------------------------------------------------------
// parser debugger
// -----------------------------------------------------------------------------

// cmdDebugParser reads one expression per line and prints its canonical
// rendering next to the raw tree shape.
func cmdDebugParser() int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	for {
		line, err := ln.Prompt(promptDebug)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		expr, perr := noq.ParseExpr(line)
		if perr != nil {
			fmt.Fprintln(os.Stderr, red(noq.WrapErrorWithSource(perr, line).Error()))
			continue
		}
		fmt.Printf("  Display: %s\n", blue(noq.FormatExpr(expr)))
		fmt.Printf("  Tree:    %s\n", dumpExpr(expr))
	}
}

// dumpExpr renders the raw tree shape for the parser debugger.
func dumpExpr(e *noq.Expr) string {
	switch e.Kind {
	case noq.ExprSym:
		return fmt.Sprintf("Sym(%s)", e.Name)
	case noq.ExprVar:
		return fmt.Sprintf("Var(%s)", e.Name)
	default:
		var b strings.Builder
		b.WriteString("Fun(")
		b.WriteString(dumpExpr(e.Head))
		for _, a := range e.Args {
			b.WriteString(", ")
			b.WriteString(dumpExpr(a))
		}
		b.WriteString(")")
		return b.String()
	}
}
