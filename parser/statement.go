package parser

import (
	"log/slog"

	"github.com/metaphox/tern/ast"
)

// ── Statement forms ───────────────────────────────────────────────────────────

// StatementForm is one grammar production for a statement. tryParse follows
// the same three-outcome contract as parseExpression: no match, match, or a
// committed failure once the form's leading shape has been recognised.
type StatementForm interface {
	Name() string
	tryParse(s *state, index int) (ast.Statement, int, error)
}

// statementForms is the dispatch order. The first form that matches wins, so
// the order is part of the grammar.
var statementForms = []StatementForm{
	ifForm{},
	expressionForm{},
	returnForm{},
	functionForm{},
	localForm{},
}

// FormNames returns the names of the statement forms in dispatch order.
func FormNames() []string {
	names := make([]string, len(statementForms))
	for i, f := range statementForms {
		names[i] = f.Name()
	}
	return names
}

// parseStatement tries every form at index in order and returns the first
// match. A committed failure does not stop the search: later forms still get
// their chance, and the failure is only returned when none of them match.
func (s *state) parseStatement(index int) (ast.Statement, int, error) {
	var failed error
	for _, form := range statementForms {
		stmt, next, err := form.tryParse(s, index)
		if err != nil {
			if failed == nil {
				failed = err
			}
			continue
		}
		if stmt != nil {
			if failed != nil {
				s.logger.Debug("abandoned diagnostic",
					slog.String("form", form.Name()),
					slog.Int("index", index),
					slog.String("error", message(failed)))
			}
			return stmt, next, nil
		}
	}
	return nil, index, failed
}

// parseBody parses statements from index up to and including the keyword
// `end`. msg is reported when a statement cannot be parsed.
func (s *state) parseBody(index int, msg string) ([]ast.Statement, int, error) {
	if err := s.enter(index); err != nil {
		return nil, index, err
	}
	defer s.leave()

	var body []ast.Statement
	next := index
	for !expectKeyword(s.tokens, next, "end") {
		stmt, after, err := s.parseStatement(next)
		if err != nil {
			return nil, index, err
		}
		if stmt == nil {
			return nil, index, s.errorAt(next, msg)
		}
		body = append(body, stmt)
		next = after
	}
	return body, next + 1, nil
}

// expressionForm parses `expr ;`.
type expressionForm struct{}

func (expressionForm) Name() string { return "expression" }

func (expressionForm) tryParse(s *state, index int) (ast.Statement, int, error) {
	expr, next, err := s.parseExpression(index)
	if err != nil || expr == nil {
		return nil, index, err
	}
	if !expectSyntax(s.tokens, next, ";") {
		return nil, index, s.errorAt(next, "Expected semicolon after expression:")
	}
	return &ast.ExpressionStmt{Expr: expr}, next + 1, nil
}

// ifForm parses `if expr then stmts end`.
type ifForm struct{}

func (ifForm) Name() string { return "if" }

func (ifForm) tryParse(s *state, index int) (ast.Statement, int, error) {
	if !expectKeyword(s.tokens, index, "if") {
		return nil, index, nil
	}

	next := index + 1
	test, next, err := s.parseExpression(next)
	if err != nil {
		return nil, index, err
	}
	if test == nil {
		return nil, index, s.errorAt(next, "Expected valid expression for if test:")
	}

	if !expectKeyword(s.tokens, next, "then") {
		return nil, index, s.errorAt(next, "Expected then after if test:")
	}

	body, next, err := s.parseBody(next+1, "Expected valid statement in if body:")
	if err != nil {
		return nil, index, err
	}
	return &ast.IfStmt{Test: test, Body: body}, next, nil
}

// returnForm parses `return expr ;`.
type returnForm struct{}

func (returnForm) Name() string { return "return" }

func (returnForm) tryParse(s *state, index int) (ast.Statement, int, error) {
	if !expectKeyword(s.tokens, index, "return") {
		return nil, index, nil
	}

	next := index + 1
	expr, next, err := s.parseExpression(next)
	if err != nil {
		return nil, index, err
	}
	if expr == nil {
		return nil, index, s.errorAt(next, "Expected valid expression in return statement:")
	}

	if !expectSyntax(s.tokens, next, ";") {
		return nil, index, s.errorAt(next, "Expected semicolon after return statement:")
	}
	return &ast.ReturnStmt{Expr: expr}, next + 1, nil
}

// functionForm parses `function name(a, b) stmts end`.
type functionForm struct{}

func (functionForm) Name() string { return "function" }

func (functionForm) tryParse(s *state, index int) (ast.Statement, int, error) {
	if !expectKeyword(s.tokens, index, "function") {
		return nil, index, nil
	}

	next := index + 1
	if !expectIdentifier(s.tokens, next) {
		return nil, index, s.errorAt(next, "Expected valid identifier for function name:")
	}
	name := s.tokens[next]
	next++

	if !expectSyntax(s.tokens, next, "(") {
		return nil, index, s.errorAt(next, "Expected open parenthesis in function declaration:")
	}
	next++

	var parameters []ast.Token
	for !expectSyntax(s.tokens, next, ")") {
		if len(parameters) > 0 {
			if !expectSyntax(s.tokens, next, ",") {
				return nil, index, s.errorAt(next, "Expected comma or close parenthesis after parameter in function declaration:")
			}
			next++ // skip past comma
		}

		if !expectIdentifier(s.tokens, next) {
			return nil, index, s.errorAt(next, "Expected valid identifier for parameter name:")
		}
		parameters = append(parameters, s.tokens[next])
		next++
	}
	next++ // skip past closing paren

	body, next, err := s.parseBody(next, "Expected valid statement in function declaration:")
	if err != nil {
		return nil, index, err
	}
	return &ast.FunctionDecl{Name: name, Parameters: parameters, Body: body}, next, nil
}

// localForm parses `local name = expr ;`.
type localForm struct{}

func (localForm) Name() string { return "local" }

func (localForm) tryParse(s *state, index int) (ast.Statement, int, error) {
	if !expectKeyword(s.tokens, index, "local") {
		return nil, index, nil
	}

	next := index + 1
	if !expectIdentifier(s.tokens, next) {
		return nil, index, s.errorAt(next, "Expected valid identifier for local name:")
	}
	name := s.tokens[next]
	next++

	if !expectSyntax(s.tokens, next, "=") {
		return nil, index, s.errorAt(next, "Expected = syntax after local name:")
	}
	next++

	expr, next, err := s.parseExpression(next)
	if err != nil {
		return nil, index, err
	}
	if expr == nil {
		return nil, index, s.errorAt(next, "Expected valid expression in local declaration:")
	}

	if !expectSyntax(s.tokens, next, ";") {
		return nil, index, s.errorAt(next, "Expected semicolon after local declaration:")
	}
	return &ast.LocalStmt{Name: name, Expr: expr}, next + 1, nil
}
