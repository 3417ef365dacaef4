// The node hierarchy is:
//
//	Node (interface)
//	  Statement (interface)
//	    ExpressionStmt, IfStmt, FunctionDecl, ReturnStmt, LocalStmt
//	  Expression (interface)
//	    Literal, FunctionCall, BinaryOperation
//
// Nodes hold copies of the tokens they were built from, so a tree is
// self-contained and outlives the token slice it was parsed from. Children are
// owned by exactly one parent; there is no sharing and no back-pointers.

package ast

import "strings"

// ── Interfaces ────────────────────────────────────────────────────────────────

// Node is the root interface for every element in the Tern AST.
type Node interface {
	// TokenLiteral returns the literal of the token that began this node.
	TokenLiteral() string
	// String returns a compact, canonical rendering of the node. Two
	// structurally equal trees always render the same string.
	String() string
}

// Statement is a Node that appears in a program or a body block.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that evaluates to a value.
type Expression interface {
	Node
	expressionNode()
}

// ── Top-level program ─────────────────────────────────────────────────────────

// Program is the root produced by the parser. Statement order is source order,
// which is also execution order.
type Program struct {
	Statements []Statement
}

// TokenLiteral returns the literal of the first statement's starting token,
// or "" for an empty program.
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// String returns one statement per line, useful for snapshot testing.
func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Statements {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// ── Statements ────────────────────────────────────────────────────────────────

// ExpressionStmt is a bare expression terminated by ';'.
//
//	print(x);
type ExpressionStmt struct {
	Expr Expression
}

func (s *ExpressionStmt) statementNode()       {}
func (s *ExpressionStmt) TokenLiteral() string { return s.Expr.TokenLiteral() }
func (s *ExpressionStmt) String() string       { return s.Expr.String() + ";" }

// IfStmt is a test expression plus a body block.
//
//	if n < 2 then return n; end
type IfStmt struct {
	Test Expression
	Body []Statement
}

func (s *IfStmt) statementNode()       {}
func (s *IfStmt) TokenLiteral() string { return "if" }
func (s *IfStmt) String() string {
	return "if " + s.Test.String() + " then" + blockString(s.Body) + " end"
}

// FunctionDecl declares a named function.
//
//	function add(a, b) return a + b; end
type FunctionDecl struct {
	Name       Token
	Parameters []Token
	Body       []Statement
}

func (s *FunctionDecl) statementNode()       {}
func (s *FunctionDecl) TokenLiteral() string { return "function" }
func (s *FunctionDecl) String() string {
	params := make([]string, len(s.Parameters))
	for i, p := range s.Parameters {
		params[i] = p.Value
	}
	return "function " + s.Name.Value + "(" + strings.Join(params, ", ") + ")" + blockString(s.Body) + " end"
}

// ReturnStmt returns the value of one expression.
type ReturnStmt struct {
	Expr Expression
}

func (s *ReturnStmt) statementNode()       {}
func (s *ReturnStmt) TokenLiteral() string { return "return" }
func (s *ReturnStmt) String() string       { return "return " + s.Expr.String() + ";" }

// LocalStmt binds a name to the value of one expression.
//
//	local x = a + 1;
type LocalStmt struct {
	Name Token
	Expr Expression
}

func (s *LocalStmt) statementNode()       {}
func (s *LocalStmt) TokenLiteral() string { return "local" }
func (s *LocalStmt) String() string {
	return "local " + s.Name.Value + " = " + s.Expr.String() + ";"
}

func blockString(body []Statement) string {
	var sb strings.Builder
	for _, s := range body {
		sb.WriteString(" ")
		sb.WriteString(s.String())
	}
	return sb.String()
}

// ── Expressions ───────────────────────────────────────────────────────────────

// Literal is a terminal value: an Identifier or a Number token.
type Literal struct {
	Token Token
}

func (e *Literal) expressionNode()      {}
func (e *Literal) TokenLiteral() string { return e.Token.Value }
func (e *Literal) String() string       { return e.Token.Value }

// IsIdentifier reports whether the literal names a variable or function.
func (e *Literal) IsIdentifier() bool { return e.Token.Kind == Identifier }

// IsNumber reports whether the literal is a number.
func (e *Literal) IsNumber() bool { return e.Token.Kind == Number }

// FunctionCall is a call of a named function. Arguments may be empty.
//
//	f(a, 1)
type FunctionCall struct {
	Name      Token
	Arguments []Expression
}

func (e *FunctionCall) expressionNode()      {}
func (e *FunctionCall) TokenLiteral() string { return e.Name.Value }
func (e *FunctionCall) String() string {
	args := make([]string, len(e.Arguments))
	for i, a := range e.Arguments {
		args[i] = a.String()
	}
	return e.Name.Value + "(" + strings.Join(args, ", ") + ")"
}

// BinaryOperation applies an operator to two operands. The grammar has a
// single flat level, so the right operand is always a Literal.
type BinaryOperation struct {
	Operator Token
	Left     Expression
	Right    Expression
}

func (e *BinaryOperation) expressionNode()      {}
func (e *BinaryOperation) TokenLiteral() string { return e.Operator.Value }
func (e *BinaryOperation) String() string {
	return "(" + e.Left.String() + " " + e.Operator.Value + " " + e.Right.String() + ")"
}
