package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/vsvsvsvsvsvs/polizvm/pkg/ast"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/bytecode"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/diag"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/driver"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/token"
)

var isTerminal = isatty.IsTerminal(os.Stdout.Fd())

func header(title string) {
	color.New(color.FgCyan, color.Bold).Fprintf(os.Stdout, "== %s ==\n", title)
}

func dumpTokens(tokens []token.Token) {
	header("TOKENS")
	if !isTerminal {
		fmt.Print(driver.FormatTokens(tokens))
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Line", "Col", "Kind", "Text"})
	for _, t := range tokens {
		table.Append([]string{strconv.Itoa(t.Line), strconv.Itoa(t.Column), t.Kind.String(), t.Text})
	}
	table.Render()
}

func dumpBytecode(code []bytecode.Instruction) {
	header("BYTECODE")
	if !isTerminal {
		fmt.Print(driver.FormatBytecode(code))
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Index", "Op", "Arg"})
	for i, ins := range code {
		table.Append([]string{strconv.Itoa(i), ins.Op.String(), ins.Arg})
	}
	table.Render()
}

func dumpAST(root *ast.Node) {
	header("AST")
	var sb strings.Builder
	writeNode(&sb, root, 0)
	fmt.Print(sb.String())
}

func writeNode(sb *strings.Builder, n *ast.Node, depth int) {
	if n == nil {
		fmt.Fprintf(sb, "%s<absent>\n", strings.Repeat("  ", depth))
		return
	}
	fmt.Fprintf(sb, "%s%s %q\n", strings.Repeat("  ", depth), n.Kind, n.Text)
	for _, c := range n.Children {
		writeNode(sb, c, depth+1)
	}
}

func dumpDiagnostics(title string, diags diag.List) {
	header(title)
	red := color.New(color.FgRed)
	for _, d := range diags {
		red.Fprintln(os.Stdout, d.String())
	}
}
