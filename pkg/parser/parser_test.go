package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vsvsvsvsvsvs/polizvm/pkg/ast"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/lexer"
)

func parse(t *testing.T, src string) (*ast.Node, []string) {
	t.Helper()
	toks := lexer.New(src).Tokenize()
	root, diags := ParseProgram(toks)
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.Message
	}
	return root, msgs
}

func TestParseMinimalFunction(t *testing.T) {
	root, diags := parse(t, "fn int main() { return 0; }")
	require.Empty(t, diags)
	require.Equal(t, ast.Program, root.Kind)
	require.Len(t, root.Children, 1)

	fn := root.Children[0]
	require.Equal(t, ast.Function, fn.Kind)
	require.Equal(t, "main", fn.Text)
	// At least ret type and body per the Function-node invariant.
	require.GreaterOrEqual(t, len(fn.Children), 2)
	require.Equal(t, ast.TypeNode, fn.Child(0).Kind)
	require.Equal(t, ast.Block, fn.Children[len(fn.Children)-1].Kind)
}

func TestParseFunctionArgs(t *testing.T) {
	root, diags := parse(t, "fn int add(int a, double b[]) { return a; }")
	require.Empty(t, diags)
	fn := root.Children[0]
	require.Len(t, fn.Children, 4) // ret type, a, b, body
	argA, argB := fn.Children[1], fn.Children[2]
	require.Equal(t, ast.FuncArg, argA.Kind)
	require.False(t, argA.IsArray)
	require.True(t, argB.IsArray)
}

func TestForNodeAlwaysHasFourChildren(t *testing.T) {
	root, diags := parse(t, "fn int main() { for(;;) { } return 0; }")
	require.Empty(t, diags)
	forNode := root.Children[0].Children[len(root.Children[0].Children)-1].Children[0]
	require.Equal(t, ast.For, forNode.Kind)
	require.Len(t, forNode.Children, 4)
	require.Nil(t, forNode.Child(0))
	require.Nil(t, forNode.Child(1))
	require.Nil(t, forNode.Child(2))
}

func TestCallArgsAreFlatChildren(t *testing.T) {
	root, _ := parse(t, "fn int main() { printInt(1, 2, 3); return 0; }")
	block := root.Children[0].Children[len(root.Children[0].Children)-1]
	callExpr := block.Children[0].Child(0)
	require.Equal(t, ast.Call, callExpr.Kind)
	require.Len(t, callExpr.Children, 4) // callee + 3 args
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	root, diags := parse(t, "fn int main() { int a; int b; a = b = 1; return 0; }")
	require.Empty(t, diags)
	block := root.Children[0].Children[len(root.Children[0].Children)-1]
	assignStmt := block.Children[2].Child(0)
	require.Equal(t, ast.Assign, assignStmt.Kind)
	require.Equal(t, "a", assignStmt.Child(0).Text)
	rhs := assignStmt.Child(1)
	require.Equal(t, ast.Assign, rhs.Kind)
	require.Equal(t, "b", rhs.Child(0).Text)
}

func TestPrecedenceClimbing(t *testing.T) {
	root, diags := parse(t, "fn int main() { return 1+2*3; }")
	require.Empty(t, diags)
	block := root.Children[0].Children[len(root.Children[0].Children)-1]
	retExpr := block.Children[0].Child(0)
	require.Equal(t, "+", retExpr.Text)
	require.Equal(t, ast.Number, retExpr.Child(0).Kind)
	mul := retExpr.Child(1)
	require.Equal(t, "*", mul.Text)
}

func TestMissingSemicolonRecordsDiagnosticAndRecovers(t *testing.T) {
	_, diags := parse(t, "fn int main() { int a = 1 return a; }")
	require.NotEmpty(t, diags)
}

func TestUnexpectedTokenInExpressionSubstitutesZero(t *testing.T) {
	root, diags := parse(t, "fn int main() { return ); }")
	require.NotEmpty(t, diags)
	block := root.Children[0].Children[len(root.Children[0].Children)-1]
	retExpr := block.Children[0].Child(0)
	require.Equal(t, ast.Number, retExpr.Kind)
	require.Equal(t, "0", retExpr.Text)
}

func TestIndexAndCallChain(t *testing.T) {
	root, diags := parse(t, "fn int main() { return f(1)[0]; }")
	require.Empty(t, diags)
	block := root.Children[0].Children[len(root.Children[0].Children)-1]
	retExpr := block.Children[0].Child(0)
	require.Equal(t, ast.Index, retExpr.Kind)
	require.Equal(t, ast.Call, retExpr.Child(0).Kind)
}

func TestVarDeclListMultipleDeclarators(t *testing.T) {
	root, diags := parse(t, "fn int main() { int a=1, b, c=3; return 0; }")
	require.Empty(t, diags)
	block := root.Children[0].Children[len(root.Children[0].Children)-1]
	declList := block.Children[0]
	require.Equal(t, ast.VarDeclList, declList.Kind)
	require.Len(t, declList.Children, 4) // type + 3 decls
}
