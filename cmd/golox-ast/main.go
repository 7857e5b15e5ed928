// Command golox-ast inspects the front half of the pipeline: it prints the
// token stream or the parsed AST for a Lox source file. Development tool;
// the language driver is cmd/golox.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	lox "github.com/hln33/golox"
)

func main() {
	app := &cli.App{
		Name:  "golox-ast",
		Usage: "dump golox tokens and syntax trees",
		Commands: []*cli.Command{
			{
				Name:      "tokens",
				Usage:     "lex a file and print its token stream",
				ArgsUsage: "<file>",
				Action:    cmdTokens,
			},
			{
				Name:      "ast",
				Usage:     "parse a file and dump its AST",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "print the parenthesized expression form instead of the node dump",
					},
				},
				Action: cmdAst,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readSource(c *cli.Context) (string, string, error) {
	file := c.Args().First()
	if file == "" {
		return "", "", cli.Exit("no input file provided", 64)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		tracerr.PrintSourceColor(tracerr.Wrap(err))
		return "", "", cli.Exit("", 1)
	}
	return file, string(data), nil
}

func cmdTokens(c *cli.Context) error {
	file, src, err := readSource(c)
	if err != nil {
		return err
	}

	toks, lerr := lox.NewLexer(src).Scan()
	for _, t := range toks {
		fmt.Printf("%4d:%-3d %s\n", t.Line, t.Col+1, t)
	}
	if lerr != nil {
		fmt.Fprintln(os.Stderr, lox.WrapErrorWithName(lerr, file, src))
		return cli.Exit("", 65)
	}
	return nil
}

func cmdAst(c *cli.Context) error {
	file, src, err := readSource(c)
	if err != nil {
		return err
	}

	stmts, perr := lox.ParseSource(src)
	if perr != nil {
		fmt.Fprintln(os.Stderr, lox.WrapErrorWithName(perr, file, src))
		return cli.Exit("", 65)
	}

	if c.Bool("pretty") {
		for _, s := range stmts {
			printPretty(s, "")
		}
		return nil
	}
	repr.Println(stmts)
	return nil
}

// printPretty renders statements one per line, expressions in the
// parenthesized prefix form from lox.FormatExpr.
func printPretty(s lox.Stmt, indent string) {
	switch st := s.(type) {
	case *lox.ExprStmt:
		fmt.Println(indent + lox.FormatExpr(st.Expression))
	case *lox.PrintStmt:
		fmt.Println(indent + "(print " + lox.FormatExpr(st.Expression) + ")")
	case *lox.VarStmt:
		if st.Initializer != nil {
			fmt.Println(indent + "(var " + st.Name.Lexeme + " " + lox.FormatExpr(st.Initializer) + ")")
		} else {
			fmt.Println(indent + "(var " + st.Name.Lexeme + ")")
		}
	case *lox.BlockStmt:
		fmt.Println(indent + "(block")
		for _, inner := range st.Statements {
			printPretty(inner, indent+"  ")
		}
		fmt.Println(indent + ")")
	case *lox.IfStmt:
		fmt.Println(indent + "(if " + lox.FormatExpr(st.Condition))
		printPretty(st.ThenBranch, indent+"  ")
		if st.ElseBranch != nil {
			printPretty(st.ElseBranch, indent+"  ")
		}
		fmt.Println(indent + ")")
	case *lox.WhileStmt:
		fmt.Println(indent + "(while " + lox.FormatExpr(st.Condition))
		printPretty(st.Body, indent+"  ")
		fmt.Println(indent + ")")
	case *lox.FunctionStmt:
		fmt.Println(indent + "(fun " + st.Name.Lexeme)
		for _, inner := range st.Body {
			printPretty(inner, indent+"  ")
		}
		fmt.Println(indent + ")")
	case *lox.ReturnStmt:
		if st.Value != nil {
			fmt.Println(indent + "(return " + lox.FormatExpr(st.Value) + ")")
		} else {
			fmt.Println(indent + "(return)")
		}
	case *lox.ClassStmt:
		header := "(class " + st.Name.Lexeme
		if st.Superclass != nil {
			header += " < " + st.Superclass.Name.Lexeme
		}
		fmt.Println(indent + header)
		for _, m := range st.Methods {
			printPretty(m, indent+"  ")
		}
		fmt.Println(indent + ")")
	}
}
