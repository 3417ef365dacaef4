package parser

import "github.com/metaphox/tern/ast"

// parseExpression parses one expression starting at index.
//
// It has three outcomes:
//   - no match (nil, index, nil): the token at index cannot start an
//     expression, so the caller may try another production.
//   - match (expr, next, nil): next is just past the consumed tokens.
//   - committed failure (nil, index, *Error): an expression started but its
//     continuation is malformed.
//
// The grammar is flat: a literal, a call, or a literal followed by one
// operator and one literal. There is no precedence and no chaining, so
// `a + b + c` stops after `a + b`.
func (s *state) parseExpression(index int) (ast.Expression, int, error) {
	if !expectLiteral(s.tokens, index) {
		return nil, index, nil
	}
	left := &ast.Literal{Token: s.tokens[index]}
	next := index + 1

	if expectSyntax(s.tokens, next, "(") {
		return s.parseCall(index, next+1)
	}

	if !expectKind(s.tokens, next, ast.Operator) {
		return left, next, nil
	}
	op := s.tokens[next]
	next++ // skip past operator

	if !expectLiteral(s.tokens, next) {
		return nil, index, s.errorAt(next, "Expected valid right hand side binary operand:")
	}
	right := &ast.Literal{Token: s.tokens[next]}
	next++

	return &ast.BinaryOperation{Operator: op, Left: left, Right: right}, next, nil
}

// parseCall parses the argument list of a call whose name is at nameIndex.
// index points just past the opening parenthesis.
//
// Arguments are separated by commas: one is required between each pair of
// arguments and is rejected before the first or after the last.
func (s *state) parseCall(nameIndex, index int) (ast.Expression, int, error) {
	if err := s.enter(nameIndex); err != nil {
		return nil, nameIndex, err
	}
	defer s.leave()

	var arguments []ast.Expression
	next := index
	for !expectSyntax(s.tokens, next, ")") {
		if next >= len(s.tokens) {
			return nil, nameIndex, s.errorAt(next, "Expected closing parenthesis in function call:")
		}

		if len(arguments) > 0 {
			if !expectSyntax(s.tokens, next, ",") {
				return nil, nameIndex, s.errorAt(next, "Expected comma between function call arguments:")
			}
			next++ // skip past comma
		}

		arg, after, err := s.parseExpression(next)
		if err != nil {
			return nil, nameIndex, err
		}
		if arg == nil {
			return nil, nameIndex, s.errorAt(next, "Expected valid expression in function call arguments:")
		}
		arguments = append(arguments, arg)
		next = after
	}
	next++ // skip past closing paren

	return &ast.FunctionCall{Name: s.tokens[nameIndex], Arguments: arguments}, next, nil
}
