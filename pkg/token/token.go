// Package token defines the lexical tokens produced by pkg/lexer and
// consumed by pkg/parser.
package token

import "fmt"

// Kind identifies the category of a lexed Token. The set is closed: every
// byte the Lexer can see maps to exactly one Kind, with Unknown absorbing
// anything that matches no production.
type Kind int

const (
	EndOfFile Kind = iota
	Unknown

	Identifier
	Number
	StringLiteral

	// Keywords
	KwIf
	KwElse
	KwWhile
	KwDo
	KwFor
	KwFn
	KwInt
	KwChar
	KwDouble
	KwString
	KwReturn
	KwBreak
	KwContinue

	// Punctuation / operators
	Plus
	Minus
	Star
	Slash
	Percent
	Assign
	Equals
	NotEquals
	Less
	Greater
	LessEq
	GreaterEq
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semicolon
)

var names = [...]string{
	EndOfFile:     "end_of_file",
	Unknown:       "unknown",
	Identifier:    "identifier",
	Number:        "number",
	StringLiteral: "string_literal",
	KwIf:          "if",
	KwElse:        "else",
	KwWhile:       "while",
	KwDo:          "do",
	KwFor:         "for",
	KwFn:          "fn",
	KwInt:         "int",
	KwChar:        "char",
	KwDouble:      "double",
	KwString:      "string",
	KwReturn:      "return",
	KwBreak:       "break",
	KwContinue:    "continue",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Assign:        "=",
	Equals:        "==",
	NotEquals:     "!=",
	Less:          "<",
	Greater:       ">",
	LessEq:        "<=",
	GreaterEq:     ">=",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	LBracket:      "[",
	RBracket:      "]",
	Comma:         ",",
	Semicolon:     ";",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsTypeKeyword reports whether k introduces a variable/parameter/return
// type (int, char, double, string).
func (k Kind) IsTypeKeyword() bool {
	switch k {
	case KwInt, KwChar, KwDouble, KwString:
		return true
	default:
		return false
	}
}

// Token is a single lexical unit: its kind, the raw source text that
// produced it (quotes stripped for string literals), and its one-based
// source position.
type Token struct {
	Kind   Kind
	Text   string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("Line %d:%d  %s  %q", t.Line, t.Column, t.Kind, t.Text)
}
