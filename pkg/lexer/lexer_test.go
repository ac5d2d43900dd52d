package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vsvsvsvsvsvs/polizvm/pkg/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeBasic(t *testing.T) {
	toks := New("fn int main() { return 0; }").Tokenize()
	require.Equal(t, []token.Kind{
		token.KwFn, token.KwInt, token.Identifier, token.LParen, token.RParen,
		token.LBrace, token.KwReturn, token.Number, token.Semicolon, token.RBrace,
		token.EndOfFile,
	}, kinds(toks))
}

func TestTokenizeEndsWithExactlyOneEOF(t *testing.T) {
	toks := New("x").Tokenize()
	require.Equal(t, token.EndOfFile, toks[len(toks)-1].Kind)
	eofCount := 0
	for _, tok := range toks {
		if tok.Kind == token.EndOfFile {
			eofCount++
		}
	}
	require.Equal(t, 1, eofCount)
}

func TestTwoCharOperatorsTakePrecedence(t *testing.T) {
	toks := New("== != <= >= = < >").Tokenize()
	require.Equal(t, []token.Kind{
		token.Equals, token.NotEquals, token.LessEq, token.GreaterEq,
		token.Assign, token.Less, token.Greater, token.EndOfFile,
	}, kinds(toks))
}

func TestBareBangIsUnknown(t *testing.T) {
	toks := New("!").Tokenize()
	require.Equal(t, token.Unknown, toks[0].Kind)
	require.Equal(t, "!", toks[0].Text)
}

func TestNumberRequiresDigitAfterDot(t *testing.T) {
	toks := New("3.14 3. 3").Tokenize()
	require.Equal(t, "3.14", toks[0].Text)
	// "3." has no digit after the dot, so only "3" is consumed as the number.
	require.Equal(t, "3", toks[1].Text)
	require.Equal(t, token.Number, toks[1].Kind)
}

func TestUnterminatedStringEndsAtEOF(t *testing.T) {
	toks := New(`"hello`).Tokenize()
	require.Equal(t, token.StringLiteral, toks[0].Kind)
	require.Equal(t, "hello", toks[0].Text)
	require.Equal(t, token.EndOfFile, toks[1].Kind)
}

func TestStringLiteralStripsQuotes(t *testing.T) {
	toks := New(`"hi there"`).Tokenize()
	require.Equal(t, "hi there", toks[0].Text)
}

func TestLineColumnTracking(t *testing.T) {
	toks := New("int\nx").Tokenize()
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 1, toks[0].Column)
	require.Equal(t, 2, toks[1].Line)
	require.Equal(t, 1, toks[1].Column)
}

func TestPeekTokenDoesNotAdvance(t *testing.T) {
	l := New("a b")
	first := l.PeekToken()
	second := l.PeekToken()
	require.Equal(t, first, second)
	require.Equal(t, first, l.NextToken())
	require.Equal(t, "b", l.NextToken().Text)
}

func TestKeywordTrieRejectsPrefixMatch(t *testing.T) {
	toks := New("intx").Tokenize()
	require.Equal(t, token.Identifier, toks[0].Kind)
	require.Equal(t, "intx", toks[0].Text)
}
