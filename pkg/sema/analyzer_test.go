package sema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vsvsvsvsvsvs/polizvm/pkg/lexer"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/parser"
)

func analyze(t *testing.T, src string) []string {
	t.Helper()
	toks := lexer.New(src).Tokenize()
	root, parseDiags := parser.ParseProgram(toks)
	require.Empty(t, parseDiags)
	diags := Analyze(root)
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.Message
	}
	return msgs
}

func TestWellTypedProgramHasNoDiagnostics(t *testing.T) {
	diags := analyze(t, `fn int main() { int x = 1; printInt(x); return 0; }`)
	require.Empty(t, diags)
}

func TestBuiltinsArePredeclared(t *testing.T) {
	diags := analyze(t, `fn int main() { printInt(1); printDouble(1.5); printStr("a"); return 0; }`)
	require.Empty(t, diags)
}

func TestAssignmentTypeMismatchMessage(t *testing.T) {
	diags := analyze(t, `fn int main() { int x = 1; string y = "a"; x = y; return 0; }`)
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d == "Assignment type mismatch" {
			found = true
		}
	}
	require.True(t, found)
}

func TestImplicitIntToDoublePromotion(t *testing.T) {
	diags := analyze(t, `fn int main() { double d = 1; return 0; }`)
	require.Empty(t, diags)
}

func TestDuplicateDeclarationInSameScope(t *testing.T) {
	diags := analyze(t, `fn int main() { int a; int a; return 0; }`)
	require.NotEmpty(t, diags)
}

func TestShadowingInNestedBlockIsAllowed(t *testing.T) {
	diags := analyze(t, `fn int main() { int a = 1; { int a = 2; printInt(a); } return 0; }`)
	require.Empty(t, diags)
}

func TestUndeclaredIdentifier(t *testing.T) {
	diags := analyze(t, `fn int main() { printInt(x); return 0; }`)
	require.NotEmpty(t, diags)
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	diags := analyze(t, `fn int main() { break; return 0; }`)
	require.NotEmpty(t, diags)
}

func TestBreakInsideLoopIsFine(t *testing.T) {
	diags := analyze(t, `fn int main() { while(1) { break; } return 0; }`)
	require.Empty(t, diags)
}

func TestReturnOutsideFunctionIsError(t *testing.T) {
	diags := analyze(t, `return 1;`)
	require.NotEmpty(t, diags)
}

func TestReturnTypeMustMatchWithPromotion(t *testing.T) {
	require.Empty(t, analyze(t, `fn double f() { return 1; }`))
	require.NotEmpty(t, analyze(t, `fn int f() { return 1.5; }`))
}

func TestArrayIndexingNonArrayIsError(t *testing.T) {
	diags := analyze(t, `fn int main() { int a = 1; printInt(a[0]); return 0; }`)
	require.NotEmpty(t, diags)
}

func TestArrayDeclarationAndIndexing(t *testing.T) {
	diags := analyze(t, `fn int main() { int a[3]; a[0] = 1; printInt(a[0]); return 0; }`)
	require.Empty(t, diags)
}

func TestCallArgumentCountMismatch(t *testing.T) {
	diags := analyze(t, `fn int f(int a) { return a; } fn int main() { printInt(f(1, 2)); return 0; }`)
	require.NotEmpty(t, diags)
}

func TestCallArgumentImplicitPromotion(t *testing.T) {
	diags := analyze(t, `fn double f(double a) { return a; } fn int main() { printDouble(f(1)); return 0; }`)
	require.Empty(t, diags)
}

func TestStringConcatenation(t *testing.T) {
	diags := analyze(t, `fn int main() { string s = "a" + "b"; printStr(s); return 0; }`)
	require.Empty(t, diags)
}

func TestConditionMustBeInt(t *testing.T) {
	diags := analyze(t, `fn int main() { if ("x") { } return 0; } `)
	require.NotEmpty(t, diags)
}
