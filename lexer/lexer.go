// Package lexer implements the Tern lexer (tokeniser).
//
// The lexer converts Tern source into a flat slice of [ast.Token] values. Most
// callers want [Lex]; [New] and [Lexer.NextToken] give a streaming view of the
// same scan.
//
// Design notes:
//   - Single-pass, rune-by-rune scanning using a read position cursor.
//   - No global state; every [Lexer] is independent.
//   - Line, column and rune offset are tracked for every token (0-based).
//   - Comments (-- …) are consumed silently; no token is emitted.
//   - Identifiers are scanned first and then classified as keywords via
//     [ast.Keywords]; this keeps the main switch statement small.
package lexer

import (
	"github.com/metaphox/tern/ast"
)

// Error reports a character the lexer does not recognise.
type Error struct {
	Msg    string
	Loc    ast.Location
	Detail string // Msg rendered against the source by ast.Location.Debug
}

func (e *Error) Error() string { return e.Detail }

// Lexer holds all state required to tokenise a single Tern source.
// Create one with [New]; never copy a Lexer after first use.
type Lexer struct {
	input []rune
	pos   int  // index of ch
	ch    rune // current character under examination, 0 at end of input

	line int
	col  int
}

// New creates a [Lexer] positioned at the first character of input.
func New(input []rune) *Lexer {
	l := &Lexer{input: input, pos: -1, col: -1}
	l.readChar()
	return l
}

// Lex tokenises the whole of raw. On an unrecognised character it returns the
// tokens scanned so far along with an *Error located at that character.
func Lex(raw []rune) ([]ast.Token, error) {
	l := New(raw)
	var tokens []ast.Token
	for {
		tok, ok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// NextToken returns the next token from the input. ok is false once the input
// is exhausted, and stays false on every subsequent call.
//
// Whitespace and comments are skipped before each token.
func (l *Lexer) NextToken() (tok ast.Token, ok bool, err error) {
	l.skipWhitespaceAndComments()

	switch {
	case l.atEnd():
		return ast.Token{}, false, nil
	case isLetter(l.ch):
		return l.readIdentifier(), true, nil
	case isDigit(l.ch):
		return l.readNumber(), true, nil
	}

	switch l.ch {
	case ';', '=', '(', ')', ',':
		tok = l.makeToken(ast.Syntax, string(l.ch))
	case '+', '-', '*', '/', '<':
		tok = l.makeToken(ast.Operator, string(l.ch))
	default:
		loc := l.loc()
		msg := "Unrecognized character while lexing:"
		return ast.Token{}, false, &Error{Msg: msg, Loc: loc, Detail: loc.Debug(l.input, msg)}
	}

	l.readChar() // advance past the single-character token
	return tok, true, nil
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// readChar advances the lexer by one rune. When the input is exhausted l.ch is
// set to 0. Newlines bump the line counter and reset the column.
func (l *Lexer) readChar() {
	if l.pos >= 0 && l.pos < len(l.input) && l.input[l.pos] == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	l.pos++
	if l.pos >= len(l.input) {
		l.ch = 0
		return
	}
	l.ch = l.input[l.pos]
}

// peekChar returns the next rune without consuming it, or 0 at end of input.
func (l *Lexer) peekChar() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.input) }

func (l *Lexer) loc() ast.Location {
	return ast.Location{Line: l.line, Col: l.col, Index: l.pos}
}

// makeToken constructs a token at the current position. It does NOT advance
// the cursor.
func (l *Lexer) makeToken(kind ast.Kind, value string) ast.Token {
	return ast.Token{Kind: kind, Value: value, Loc: l.loc()}
}

// skipWhitespaceAndComments advances past whitespace and -- line comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			for !l.atEnd() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readIdentifier scans an identifier or keyword. The cursor is left on the
// first rune after it.
func (l *Lexer) readIdentifier() ast.Token {
	loc := l.loc()
	start := l.pos
	for !l.atEnd() && (isLetter(l.ch) || isDigit(l.ch)) {
		l.readChar()
	}

	value := string(l.input[start:l.pos])
	kind := ast.Identifier
	if ast.Keywords[value] {
		kind = ast.Keyword
	}
	return ast.Token{Kind: kind, Value: value, Loc: loc}
}

// readNumber scans a run of decimal digits. The cursor is left on the first
// rune after it.
func (l *Lexer) readNumber() ast.Token {
	loc := l.loc()
	start := l.pos
	for !l.atEnd() && isDigit(l.ch) {
		l.readChar()
	}
	return ast.Token{Kind: ast.Number, Value: string(l.input[start:l.pos]), Loc: loc}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
