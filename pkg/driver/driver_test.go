package driver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func runSource(t *testing.T, src, stdin string) (*Result, string) {
	t.Helper()
	res := Compile(src)
	require.True(t, res.Ok(), "compile diagnostics: %v", res.Diagnostics())
	var out bytes.Buffer
	err := Run(res, strings.NewReader(stdin), &out)
	require.NoError(t, err)
	return res, out.String()
}

func TestArithmeticPrecedence(t *testing.T) {
	_, out := runSource(t, `fn int main() { printInt(1+2*3); return 0; }`, "")
	require.Equal(t, "7", out)
}

func TestForLoopAccumulation(t *testing.T) {
	_, out := runSource(t, `
		fn int main() {
			int s=0;
			for(int i=1;i<=5;i=i+1){s=s+i;}
			printInt(s);
			return 0;
		}
	`, "")
	require.Equal(t, "15", out)
}

func TestArrayStoreAndSum(t *testing.T) {
	_, out := runSource(t, `
		fn int main() {
			int a[3];
			a[0]=10; a[1]=20; a[2]=30;
			printInt(a[0]+a[1]+a[2]);
			return 0;
		}
	`, "")
	require.Equal(t, "60", out)
}

func TestRecursiveFactorial(t *testing.T) {
	_, out := runSource(t, `
		fn int fact(int n){ if(n<=1){return 1;} return n*fact(n-1); }
		fn int main(){ printInt(fact(5)); return 0; }
	`, "")
	require.Equal(t, "120", out)
}

func TestStringConcatenationAcrossCalls(t *testing.T) {
	_, out := runSource(t, `
		fn int main(){ string s="hi"; printStr(s+" "+"there"); return 0; }
	`, "")
	require.Equal(t, "hi there", out)
}

func TestAssignmentTypeMismatchStopsBeforeBytecode(t *testing.T) {
	res := Compile(`fn int main(){ int x=1; string y="a"; x=y; return 0; }`)
	require.False(t, res.Ok())
	require.Empty(t, res.Code)
	found := false
	for _, d := range res.SemaDiags {
		if d.Message == "Assignment type mismatch" {
			found = true
		}
	}
	require.True(t, found)
}

func TestRunRefusesAPipelineThatStoppedWithDiagnostics(t *testing.T) {
	res := Compile(`fn int main(){ return ; )`)
	require.False(t, res.Ok())
	var out bytes.Buffer
	err := Run(res, strings.NewReader(""), &out)
	require.Error(t, err)
}

func TestFormatTokensIncludesLineColumnAndText(t *testing.T) {
	res := Compile(`fn int main() { return 0; }`)
	out := FormatTokens(res.Tokens)
	require.Contains(t, out, "Line 1:1")
	require.Contains(t, out, "'fn'")
}

func TestFormatBytecodeIncludesIndexOpAndArg(t *testing.T) {
	res := Compile(`fn int main() { int x = 1; return 0; }`)
	out := FormatBytecode(res.Code)
	require.Contains(t, out, "0: LABEL main")
	require.Contains(t, out, "1: PUSH_INT 1")
}

func TestFormatDiagnosticsRendersEachOnOwnLine(t *testing.T) {
	res := Compile(`fn int main() { int x = ; return 0; }`)
	out := FormatDiagnostics(res.Diagnostics())
	require.NotEmpty(t, out)
	require.True(t, strings.Contains(out, "\n"))
}
