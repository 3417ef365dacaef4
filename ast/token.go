// Package ast defines the token types, source locations and syntax tree nodes
// shared by the Tern lexer and parser.
//
// Tokens are the smallest meaningful units of a Tern source file. Every token
// carries its kind, the exact text it was scanned from, and the location of its
// first character. Locations are 0-based: the first character of a file is at
// Line 0, Col 0, Index 0.
package ast

import (
	"fmt"
	"strings"
)

// Kind identifies the category of a scanned token.
type Kind int

const (
	// Keyword is one of the reserved words listed in [Keywords].
	Keyword Kind = iota
	// Syntax is a punctuation token: ; = ( ) ,
	Syntax
	// Identifier is a name: [a-zA-Z_][a-zA-Z0-9_]*
	Identifier
	// Number is a run of decimal digits.
	Number
	// Operator is a binary operator: + - * / <
	Operator
)

var kindNames = [...]string{
	Keyword:    "keyword",
	Syntax:     "syntax",
	Identifier: "identifier",
	Number:     "number",
	Operator:   "operator",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords is the set of reserved words. The lexer consults it when it
// finishes scanning an identifier.
var Keywords = map[string]bool{
	"function": true,
	"end":      true,
	"if":       true,
	"then":     true,
	"local":    true,
	"return":   true,
}

// Location is the position of the first character of a token.
type Location struct {
	Line  int // 0-based line
	Col   int // 0-based column, in runes
	Index int // 0-based rune offset into the source
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line+1, l.Col+1)
}

// Debug renders msg followed by the source line containing l and a caret
// pointing at l's column:
//
//	Expected semicolon after expression:
//
//	local x = 1
//	           ^ Near here
func (l Location) Debug(raw []rune, msg string) string {
	var line strings.Builder
	n := 0
	for _, c := range raw {
		if c == '\n' {
			n++
			if n > l.Line {
				break
			}
			continue
		}
		if n == l.Line {
			line.WriteRune(c)
		}
	}

	src := []rune(strings.TrimSuffix(line.String(), "\r"))

	// Tabs in the source line are repeated in the padding so the caret
	// lines up however the terminal expands them.
	pad := make([]rune, l.Col)
	for i := range pad {
		pad[i] = ' '
		if i < len(src) && src[i] == '\t' {
			pad[i] = '\t'
		}
	}

	return fmt.Sprintf("%s\n\n%s\n%s^ Near here", msg, string(src), string(pad))
}

// Token is a single lexical unit produced by the Tern lexer. Tokens are small
// values and are copied freely; the parser never mutates one.
type Token struct {
	Kind  Kind
	Value string
	Loc   Location
}

// String returns the token's source text.
func (t Token) String() string {
	return t.Value
}

// End returns the location just past the token's last character. It is used
// to point diagnostics at the end of the stream.
func (t Token) End() Location {
	n := len([]rune(t.Value))
	return Location{Line: t.Loc.Line, Col: t.Loc.Col + n, Index: t.Loc.Index + n}
}
