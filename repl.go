package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const (
	historyFile = ".brainknot_history"
	promptMain  = "bk> "
	promptCont  = "... "
)

const replHelp = `Brainknot Interactive Compiler
How to use:
 - Enter Brainknot code line by line.
 - Press Enter on an empty line to compile the code entered so far.
 - Type 'exit' or ':quit' to quit.
`

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }

func replCommand(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	quiet := fs.Bool("q", false, "Print only the target code, not tokens and AST")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	fmt.Print(replHelp)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
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

	var buffer []string
	for {
		prompt := promptMain
		if len(buffer) > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			buffer = buffer[:0]
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "exit", ":quit":
			fmt.Println("Exiting.")
			return 0
		case "":
			if len(buffer) == 0 {
				continue
			}
			source := strings.Join(buffer, "\n")
			buffer = buffer[:0]
			ln.AppendHistory(strings.ReplaceAll(source, "\n", " "))
			replCompile(os.Stdout, os.Stderr, source, *quiet)
		default:
			buffer = append(buffer, line)
		}
	}
}

// replCompile compiles one buffered chunk and reports the outcome. Errors
// never carry state over to the next chunk.
func replCompile(stdout, stderr io.Writer, source string, quiet bool) {
	unit, err := CompileUnit(source)
	if err != nil {
		fmt.Fprintln(stderr, red("Error: "+err.Error()))
		return
	}
	if !quiet {
		fmt.Fprintln(stdout, "Tokens:", len(unit.Tokens))
		fmt.Fprintln(stdout, "AST:", ProgramToSExpr(unit.Program))
	}
	fmt.Fprintln(stdout, "Output:", green(unit.Target))
}
