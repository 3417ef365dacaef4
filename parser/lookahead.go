package parser

import "github.com/metaphox/tern/ast"

// The expect helpers test the token at index without consuming it. An index
// past the end of the stream is never an error, only a non-match, so callers
// may look ahead freely.

// expectKind reports whether tokens[index] exists and has kind k.
func expectKind(tokens []ast.Token, index int, k ast.Kind) bool {
	return index >= 0 && index < len(tokens) && tokens[index].Kind == k
}

// expectKeyword reports whether tokens[index] is the keyword value.
func expectKeyword(tokens []ast.Token, index int, value string) bool {
	return expectKind(tokens, index, ast.Keyword) && tokens[index].Value == value
}

// expectSyntax reports whether tokens[index] is the syntax token value.
func expectSyntax(tokens []ast.Token, index int, value string) bool {
	return expectKind(tokens, index, ast.Syntax) && tokens[index].Value == value
}

// expectIdentifier reports whether tokens[index] is an identifier.
func expectIdentifier(tokens []ast.Token, index int) bool {
	return expectKind(tokens, index, ast.Identifier)
}

// expectLiteral reports whether tokens[index] is a Number or an Identifier,
// the two terminal values of the language.
func expectLiteral(tokens []ast.Token, index int) bool {
	return expectKind(tokens, index, ast.Number) || expectKind(tokens, index, ast.Identifier)
}
