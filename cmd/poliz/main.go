// Command poliz is the reference driver for the lexer/parser/analyzer/
// bytecode/VM toolchain in pkg/: it reads a source file, optionally
// dumps each stage's output, and (if every stage succeeds) executes.
package main

import (
	"log"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/vsvsvsvsvsvs/polizvm/pkg/driver"
)

func main() {
	app := cli.NewApp()
	app.Name = "poliz"
	app.Usage = "compile and run programs against the POLIZ stack VM"
	app.ArgsUsage = "<source file>"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "TOML configuration file"},
		cli.BoolFlag{Name: "show-tokens", Usage: "dump the token stream"},
		cli.BoolFlag{Name: "show-ast", Usage: "dump the syntax tree"},
		cli.BoolFlag{Name: "show-bytecode", Usage: "dump the generated bytecode"},
		cli.BoolFlag{Name: "no-run", Usage: "compile only; don't execute"},
		cli.StringFlag{Name: "input", Usage: "file to use as the VM's standard input"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return pkgerrors.New("usage: poliz [flags] <source file>")
	}

	cfg := fileConfig{}
	if path := c.String("config"); path != "" {
		loaded, err := loadConfig(path)
		if err != nil {
			return pkgerrors.Wrap(err, "loading config")
		}
		cfg = loaded
	}
	if c.Bool("show-tokens") {
		cfg.ShowTokens = true
	}
	if c.Bool("show-ast") {
		cfg.ShowAST = true
	}
	if c.Bool("show-bytecode") {
		cfg.ShowBytecode = true
	}
	if c.Bool("no-run") {
		cfg.NoRun = true
	}
	if in := c.String("input"); in != "" {
		cfg.InputFile = in
	}

	fullPath, err := filepath.Abs(c.Args().Get(0))
	if err != nil {
		return pkgerrors.Wrap(err, "resolving source path")
	}
	src, err := os.ReadFile(fullPath)
	if err != nil {
		log.Fatalf("failed to read source file: %v", err)
	}

	result := driver.Compile(string(src))

	if cfg.ShowTokens {
		dumpTokens(result.Tokens)
	}
	if !result.ParseDiags.Ok() {
		dumpDiagnostics("PARSE ERRORS", result.ParseDiags)
		os.Exit(1)
	}

	if cfg.ShowAST {
		dumpAST(result.AST)
	}
	if !result.SemaDiags.Ok() {
		dumpDiagnostics("SEMANTIC ERRORS", result.SemaDiags)
		os.Exit(1)
	}

	if cfg.ShowBytecode {
		dumpBytecode(result.Code)
	}

	if cfg.NoRun {
		return nil
	}

	in := os.Stdin
	if cfg.InputFile != "" {
		f, err := os.Open(cfg.InputFile)
		if err != nil {
			log.Fatalf("failed to open input file: %v", err)
		}
		defer f.Close()
		in = f
	}

	if err := driver.Run(result, in, os.Stdout); err != nil {
		log.Fatalf("runtime error: %v", err)
	}
	return nil
}
