// Command golox runs Lox programs.
//
//	golox            start the interactive REPL
//	golox <script>   run a file
//
// Exit codes: 64 usage, 65 static (lex/parse/resolve) error, 70 runtime
// error, 0 clean.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	lox "github.com/hln33/golox"
)

const (
	appName     = "golox"
	historyFile = ".golox_history"
	prompt      = "> "
)

const (
	exitUsage   = 64
	exitStatic  = 65
	exitRuntime = 70
	exitIOErr   = 74
)

var banner = "golox REPL\nCtrl+C cancels input, Ctrl+D exits."

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	switch len(os.Args) {
	case 1:
		os.Exit(repl())
	case 2:
		os.Exit(runFile(os.Args[1]))
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [script]\n", appName)
		os.Exit(exitUsage)
	}
}

// -----------------------------------------------------------------------------
// run a file
// -----------------------------------------------------------------------------

func runFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return exitIOErr
	}

	ip := lox.NewInterpreter()
	if err := ip.Run(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		if _, ok := err.(*lox.RuntimeError); ok {
			return exitRuntime
		}
		return exitStatic
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func repl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

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

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	// One interpreter for the whole session: globals persist across lines,
	// and a runtime error leaves them intact.
	ip := lox.NewInterpreter()

	for {
		line, err := ln.Prompt(prompt)
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

		runLine(ip, line)
	}
}

// runLine executes one REPL line. A bare expression (no trailing ';') is
// evaluated and its value echoed; anything else goes through the full
// statement pipeline. Errors print and the session continues.
func runLine(ip *lox.Interpreter, line string) {
	if v, ok, err := tryExpression(ip, line); ok {
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return
		}
		fmt.Println(lox.FormatValue(v))
		return
	}

	if err := ip.Run(line); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
	}
}

// tryExpression evaluates line as a single expression statement when it
// parses as one with the ';' supplied. ok=false means "not an expression;
// run it as a program instead".
func tryExpression(ip *lox.Interpreter, line string) (lox.Value, bool, error) {
	if strings.HasSuffix(strings.TrimSpace(line), ";") {
		return lox.Nil, false, nil
	}
	stmts, err := lox.ParseSource(line + ";")
	if err != nil || len(stmts) != 1 {
		return lox.Nil, false, nil
	}
	es, ok := stmts[0].(*lox.ExprStmt)
	if !ok {
		return lox.Nil, false, nil
	}
	if err := lox.NewResolver(ip).ResolveProgram(stmts); err != nil {
		return lox.Nil, true, err
	}
	v, err := ip.Evaluate(es.Expression)
	return v, true, err
}
