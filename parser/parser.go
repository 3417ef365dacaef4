// Package parser implements the Tern trial-based recursive-descent parser.
//
// The parser reads the flat token slice produced by the lexer and builds an
// [ast.Program]. Each statement form is a trial parser: it either does not
// match at a position, matches and reports where it stopped, or fails once its
// leading shape has committed it to the production. The dispatcher tries the
// forms in a fixed order and takes the first match.
//
// Usage:
//
//	raw := []rune(source)
//	tokens, err := lexer.Lex(raw)
//	...
//	prog, err := parser.Parse(raw, tokens)
//
// Error handling: there is no recovery. Parsing stops at the first failure and
// returns a single *Error whose message shows the offending source line.
package parser

import (
	"errors"
	"io"
	"log/slog"

	"github.com/metaphox/tern/ast"
)

// DefaultMaxDepth bounds how deeply blocks and call arguments may nest when
// Options.MaxDepth is zero.
const DefaultMaxDepth = 200

// Options configures a [Parser].
type Options struct {
	// MaxDepth is the deepest nesting of body blocks and call argument lists
	// accepted before parsing fails. Zero means DefaultMaxDepth.
	MaxDepth int
	// Logger receives debug records about each parse. Nil discards them.
	Logger *slog.Logger
}

// Error is a parse failure located at a token, or just past the last token
// when the stream ended early.
type Error struct {
	Msg    string       // short message, e.g. "Expected semicolon after expression:"
	Index  int          // token index the failure refers to
	Loc    ast.Location // source location of that token
	Token  ast.Token    // the offending token; zero when AtEOF
	AtEOF  bool         // the failure is at the end of the token stream
	Detail string       // Msg rendered against the source by ast.Location.Debug
}

func (e *Error) Error() string { return e.Detail }

// Parser parses token streams with a fixed set of options. A Parser holds no
// per-parse state and may be used from several goroutines.
type Parser struct {
	maxDepth int
	logger   *slog.Logger
}

// New creates a Parser from opts, applying defaults for zero fields.
func New(opts Options) *Parser {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Parser{
		maxDepth: opts.MaxDepth,
		logger:   opts.Logger.With(slog.String("component", "parser")),
	}
}

var defaultParser = New(Options{})

// Parse parses tokens with default options. raw is the source the tokens were
// scanned from; it is only used to render diagnostics.
func Parse(raw []rune, tokens []ast.Token) (*ast.Program, error) {
	return defaultParser.Parse(raw, tokens)
}

// Parse builds the program for tokens. On failure no partial tree is returned.
func (p *Parser) Parse(raw []rune, tokens []ast.Token) (*ast.Program, error) {
	s := &state{
		raw:      raw,
		tokens:   tokens,
		maxDepth: p.maxDepth,
		logger:   p.logger,
	}
	p.logger.Debug("parse started", slog.Int("tokens", len(tokens)))

	prog := &ast.Program{}
	index := 0
	for index < len(tokens) {
		stmt, next, err := s.parseStatement(index)
		if err == nil && stmt == nil {
			err = s.errorAt(index, "Invalid token while parsing:")
		}
		if err != nil {
			p.logger.Debug("parse failed",
				slog.Int("index", index),
				slog.String("error", message(err)))
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		index = next
	}

	p.logger.Debug("parse finished", slog.Int("statements", len(prog.Statements)))
	return prog, nil
}

// ── Per-parse state ───────────────────────────────────────────────────────────

// state is shared by every trial parser during one Parse call. Only depth
// changes, and it is always restored on return.
type state struct {
	raw      []rune
	tokens   []ast.Token
	depth    int
	maxDepth int
	logger   *slog.Logger
}

// errorAt builds an *Error for the token at index. An index past the end is
// located one column after the last token.
func (s *state) errorAt(index int, msg string) *Error {
	e := &Error{Msg: msg, Index: index}
	switch {
	case index < len(s.tokens):
		e.Token = s.tokens[index]
		e.Loc = e.Token.Loc
	case len(s.tokens) > 0:
		e.AtEOF = true
		e.Loc = s.tokens[len(s.tokens)-1].End()
	default:
		e.AtEOF = true
	}
	e.Detail = e.Loc.Debug(s.raw, msg)
	return e
}

// enter records one more level of nesting, failing at the token at index when
// the limit is exceeded. Every successful enter must be paired with leave.
func (s *state) enter(index int) error {
	if s.depth >= s.maxDepth {
		return s.errorAt(index, "Maximum nesting depth exceeded:")
	}
	s.depth++
	return nil
}

func (s *state) leave() { s.depth-- }

// message returns the short message of a parse error, or err's text.
func message(err error) string {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Msg
	}
	return err.Error()
}
