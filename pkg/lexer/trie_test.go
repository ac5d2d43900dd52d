package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vsvsvsvsvsvs/polizvm/pkg/token"
)

func TestTrieMatch(t *testing.T) {
	kind, ok := defaultTrie.match("while")
	require.True(t, ok)
	require.Equal(t, token.KwWhile, kind)
}

func TestTrieMissNeverPartiallyMatches(t *testing.T) {
	_, ok := defaultTrie.match("wh")
	require.False(t, ok)
	_, ok = defaultTrie.match("whiletrue")
	require.False(t, ok)
}
