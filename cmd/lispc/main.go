// Command lispc translates a Lisp-style arithmetic expression into C.
//
//	lispc '(+ (* 2 3) (/ 10 5))'          # C program on stdout
//	echo '(+ 1 2.5)' | lispc -o out.c     # read stdin, write a file
//	lispc -json '(% 3 4)'                 # outcome JSON, exit 1
//	lispc -ast -eval '(- 10 4)'           # AST dump and the printed value
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/kr/pretty"

	"github.com/sandrolain/lispc"
	"github.com/sandrolain/lispc/pkg/evaluator"
	"github.com/sandrolain/lispc/pkg/parser"
	"github.com/sandrolain/lispc/pkg/transpiler"
)

func main() {
	var (
		output   = flag.String("o", "", "Write the generated C to this file instead of stdout")
		jsonOut  = flag.Bool("json", false, "Print the outcome as JSON ({\"output\": ...} or {\"error\": ...})")
		dumpAST  = flag.Bool("ast", false, "Dump the parsed AST to stderr")
		evaluate = flag.Bool("eval", false, "Print the value the generated program prints instead of the program")
		debug    = flag.Bool("debug", false, "Enable debug logging")
		version  = flag.Bool("version", false, "Print the version and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [expression]\n\nReads the expression from stdin when none is given.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Println(lispc.Version())
		return
	}

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	source, err := readSource(flag.Args(), os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dumpAST {
		ast, err := parser.Parse(source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		pretty.Fprintf(os.Stderr, "%# v\n", ast)
	}

	if *evaluate {
		v, err := lispc.Evaluate(source, evaluator.WithLogger(logger), evaluator.WithDebug(*debug))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(v)
		return
	}

	out := lispc.Transpile(source, transpiler.WithLogger(logger), transpiler.WithDebug(*debug))

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(out)
		if !out.OK() {
			os.Exit(1)
		}
		return
	}

	if !out.OK() {
		fmt.Fprintf(os.Stderr, "%s: %v\n", out.Err.Kind(), out.Err)
		os.Exit(1)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(out.Output), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Print(out.Output)
}

// readSource joins the positional arguments, or reads stdin when there
// are none.
func readSource(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	// One byte past the character limit is enough for the parser to
	// report LimitExceeded; a rune is at most 4 bytes.
	data, err := io.ReadAll(io.LimitReader(stdin, 4*parser.MaxInputLength+1))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
