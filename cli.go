package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	sourceExt = ".bk"
	targetExt = ".bkt"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `Brainknot - a bit/stack language compiler

Usage:
    brainknot <command> [arguments]

Commands:
    build <file>... Compile .bk files to target code
    eval <code>     Compile inline Brainknot code and print the target code
    check <file>    Parse and translate a .bk file without writing output
    tokens <file>   Print the token stream of a .bk file
    repl            Start the interactive compiler
    help            Show this help message

Examples:
    brainknot build -o program.bkt hello.bk
    brainknot build a.bk b.bk c.bk
    brainknot eval 'binary b = input(); output(not b);'
    brainknot check -v myfile.bk

Use "brainknot <command> -h" for more information about a command.
`)
}

func buildCommand(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("o", "", "Output file path (default: <filename>"+targetExt+"), single input only")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: brainknot build [-o output] [-v] <file>...\n")
		fmt.Fprintf(os.Stderr, "Compile .bk files to target code; several files compile in parallel\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: expected at least one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	if *output != "" && fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: -o requires exactly one file argument\n")
		os.Exit(1)
	}

	results, err := buildFiles(fs.Args(), *output, *verbose, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}
	for _, r := range results {
		fmt.Printf("Generated %s (%d bytes)\n", r.Output, r.Size)
	}
}

type buildResult struct {
	Source string
	Output string
	Size   int
}

// outputPath derives the target file name from a source file name.
func outputPath(filename string) string {
	return strings.TrimSuffix(filename, sourceExt) + targetExt
}

// buildFiles compiles every file concurrently. Each compilation owns its
// own tables, so the only coordination is collecting results. Results keep
// the order of filenames.
func buildFiles(filenames []string, output string, verbose bool, log io.Writer) ([]buildResult, error) {
	results := make([]buildResult, len(filenames))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, filename := range filenames {
		g.Go(func() error {
			outputFile := output
			if outputFile == "" {
				outputFile = outputPath(filename)
			}

			if verbose {
				fmt.Fprintf(log, "Compiling %s to %s...\n", filename, outputFile)
			}

			sourceBytes, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("reading file %s: %w", filename, err)
			}

			target, err := Compile(string(sourceBytes))
			if err != nil {
				return fmt.Errorf("%s: %w", filename, err)
			}

			if err := os.WriteFile(outputFile, []byte(target), 0644); err != nil {
				return fmt.Errorf("writing file %s: %w", outputFile, err)
			}

			results[i] = buildResult{Source: filename, Output: outputFile, Size: len(target)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func evalCommand(args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: brainknot eval [-v] <code>\n")
		fmt.Fprintf(os.Stderr, "Compile inline Brainknot code and print the target code\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one code argument\n")
		fs.Usage()
		os.Exit(1)
	}

	code := fs.Arg(0)

	if *verbose {
		fmt.Printf("Evaluating: %s\n", code)
	}

	unit, err := CompileUnit(code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		printUnit(os.Stdout, unit)
	}
	fmt.Println(unit.Target)
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose checking details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: brainknot check [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Parse and translate a .bk file without writing output\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	filename := fs.Arg(0)

	if *verbose {
		fmt.Printf("Checking %s...\n", filename)
	}

	sourceBytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}

	unit, err := CompileUnit(string(sourceBytes))
	if err != nil {
		fmt.Printf("Errors in %s:\n%v\n", filename, err)
		os.Exit(1)
	}

	fmt.Printf("%s: no errors found\n", filename)

	if *verbose {
		printUnit(os.Stdout, unit)
	}
}

func tokensCommand(args []string) {
	fs := flag.NewFlagSet("tokens", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: brainknot tokens <file>\n")
		fmt.Fprintf(os.Stderr, "Print the token stream of a .bk file\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	filename := fs.Arg(0)
	sourceBytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}

	tokens, err := Lex(string(sourceBytes))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Lex error: %v\n", err)
		os.Exit(1)
	}
	for _, tok := range tokens {
		fmt.Println(tok)
	}
}

// printUnit writes the intermediate results of a compilation.
func printUnit(w io.Writer, unit *Unit) {
	fmt.Fprintf(w, "AST: %s\n", ProgramToSExpr(unit.Program))
	for _, name := range unit.Identifiers.Names() {
		if n, ok := unit.Binaries[name]; ok {
			fmt.Fprintf(w, "binary %s -> %d\n", name, n)
		}
		if n, ok := unit.Stacks[name]; ok {
			fmt.Fprintf(w, "stack %s -> %d\n", name, n)
		}
	}
	fmt.Fprintf(w, "Generated %d bytes of target code\n", len(unit.Target))
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		buildCommand(args)
	case "eval":
		evalCommand(args)
	case "check":
		checkCommand(args)
	case "tokens":
		tokensCommand(args)
	case "repl":
		os.Exit(replCommand(args))
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
