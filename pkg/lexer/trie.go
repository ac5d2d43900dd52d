package lexer

import "github.com/vsvsvsvsvsvs/polizvm/pkg/token"

// trieNode is one byte-keyed node of the keyword trie. Children are keyed
// by the raw byte that follows the prefix this node represents; kind is
// set only on a node that terminates a keyword.
type trieNode struct {
	children [256]*trieNode
	kind     token.Kind
	terminal bool
}

// keywordTrie owns every node reachable from its root. Built once at
// package init and never mutated afterward, so lookups need no locking.
type keywordTrie struct {
	root *trieNode
}

func newKeywordTrie(keywords map[string]token.Kind) *keywordTrie {
	t := &keywordTrie{root: &trieNode{}}
	for text, kind := range keywords {
		t.insert(text, kind)
	}
	return t
}

func (t *keywordTrie) insert(text string, kind token.Kind) {
	n := t.root
	for i := 0; i < len(text); i++ {
		b := text[i]
		if n.children[b] == nil {
			n.children[b] = &trieNode{}
		}
		n = n.children[b]
	}
	n.kind = kind
	n.terminal = true
}

// match walks text to its end; it returns the keyword's Kind and true on
// an exact full-length match, or (Identifier, false) otherwise. Partial
// prefix matches that don't consume the whole identifier are not hits.
func (t *keywordTrie) match(text string) (token.Kind, bool) {
	n := t.root
	for i := 0; i < len(text); i++ {
		n = n.children[text[i]]
		if n == nil {
			return token.Identifier, false
		}
	}
	if n.terminal {
		return n.kind, true
	}
	return token.Identifier, false
}

var keywords = map[string]token.Kind{
	"if":       token.KwIf,
	"else":     token.KwElse,
	"while":    token.KwWhile,
	"do":       token.KwDo,
	"for":      token.KwFor,
	"fn":       token.KwFn,
	"int":      token.KwInt,
	"char":     token.KwChar,
	"double":   token.KwDouble,
	"string":   token.KwString,
	"return":   token.KwReturn,
	"break":    token.KwBreak,
	"continue": token.KwContinue,
}

var defaultTrie = newKeywordTrie(keywords)
