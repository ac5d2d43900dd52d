// Package driver wires the four pipeline stages end to end: lexer,
// parser, semantic analyzer, bytecode generator, and (on success) the
// VM. Each stage only runs if the previous one's diagnostics are empty.
package driver

import (
	"fmt"
	"io"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/vsvsvsvsvsvs/polizvm/pkg/ast"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/bytecode"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/diag"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/lexer"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/parser"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/sema"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/token"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/vm"
)

// Result carries every stage's output so a CLI can dump whichever
// sections a run was asked for, regardless of where the pipeline
// stopped.
type Result struct {
	Tokens     []token.Token
	AST        *ast.Node
	ParseDiags diag.List
	SemaDiags  diag.List
	Code       []bytecode.Instruction
}

// Compile lexes, parses, and (if parsing produced no diagnostics)
// analyzes and lowers source. Each stage short-circuits the next on a
// non-empty diagnostic list, per the pipeline's short-circuit contract.
func Compile(source string) *Result {
	toks := lexer.New(source).Tokenize()
	astRoot, parseDiags := parser.ParseProgram(toks)

	res := &Result{Tokens: toks, AST: astRoot, ParseDiags: parseDiags}
	if !parseDiags.Ok() {
		return res
	}

	res.SemaDiags = sema.Analyze(astRoot)
	if !res.SemaDiags.Ok() {
		return res
	}

	res.Code = bytecode.Generate(astRoot)
	return res
}

// Ok reports whether every stage that ran produced no diagnostics.
func (r *Result) Ok() bool {
	return r.ParseDiags.Ok() && r.SemaDiags.Ok()
}

// Diagnostics concatenates every stage's diagnostics in pipeline order.
func (r *Result) Diagnostics() diag.List {
	all := make(diag.List, 0, len(r.ParseDiags)+len(r.SemaDiags))
	all = append(all, r.ParseDiags...)
	all = append(all, r.SemaDiags...)
	return all
}

// Run executes r's bytecode on a fresh VM bound to in/out. It refuses to
// run a pipeline that stopped short with diagnostics.
func Run(r *Result, in io.Reader, out io.Writer) error {
	if !r.Ok() {
		return pkgerrors.New("cannot run: pipeline stopped with diagnostics")
	}
	machine := vm.New(r.Code, in, out)
	if err := machine.Run(); err != nil {
		return pkgerrors.Wrap(err, "vm execution failed")
	}
	return nil
}

// FormatTokens renders tokens one per line as "Line <l>:<c>  <kind>  '<text>'".
func FormatTokens(tokens []token.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		fmt.Fprintf(&sb, "Line %d:%d  %s  '%s'\n", t.Line, t.Column, t.Kind, t.Text)
	}
	return sb.String()
}

// FormatBytecode renders code one instruction per line as "<index>: <OP> [<arg>]".
func FormatBytecode(code []bytecode.Instruction) string {
	var sb strings.Builder
	for i, ins := range code {
		if ins.Arg == "" {
			fmt.Fprintf(&sb, "%d: %s\n", i, ins.Op)
		} else {
			fmt.Fprintf(&sb, "%d: %s %s\n", i, ins.Op, ins.Arg)
		}
	}
	return sb.String()
}

// FormatDiagnostics renders one diagnostic per line using its own
// Line/col/message format.
func FormatDiagnostics(diags diag.List) string {
	var sb strings.Builder
	for _, d := range diags {
		fmt.Fprintln(&sb, d.String())
	}
	return sb.String()
}
