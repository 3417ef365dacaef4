package ast

// Encode converts a program into plain maps and slices so it can be handed to
// encoding/json or yaml.v3 without either package knowing about node types.
// Every node map has a "type" key naming its variant.
func Encode(p *Program) []map[string]any {
	return encodeBlock(p.Statements)
}

func encodeBlock(stmts []Statement) []map[string]any {
	out := make([]map[string]any, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, EncodeStatement(s))
	}
	return out
}

// EncodeStatement converts a single statement. See [Encode].
func EncodeStatement(s Statement) map[string]any {
	switch s := s.(type) {
	case *ExpressionStmt:
		return map[string]any{"type": "Expression", "expression": EncodeExpression(s.Expr)}
	case *IfStmt:
		return map[string]any{
			"type": "If",
			"test": EncodeExpression(s.Test),
			"body": encodeBlock(s.Body),
		}
	case *FunctionDecl:
		params := make([]string, len(s.Parameters))
		for i, p := range s.Parameters {
			params[i] = p.Value
		}
		return map[string]any{
			"type":       "FunctionDeclaration",
			"name":       s.Name.Value,
			"parameters": params,
			"body":       encodeBlock(s.Body),
		}
	case *ReturnStmt:
		return map[string]any{"type": "Return", "expression": EncodeExpression(s.Expr)}
	case *LocalStmt:
		return map[string]any{
			"type":       "Local",
			"name":       s.Name.Value,
			"expression": EncodeExpression(s.Expr),
		}
	}
	return map[string]any{"type": "Unknown"}
}

// EncodeExpression converts a single expression. See [Encode].
func EncodeExpression(e Expression) map[string]any {
	switch e := e.(type) {
	case *Literal:
		return map[string]any{
			"type":  "Literal",
			"kind":  e.Token.Kind.String(),
			"value": e.Token.Value,
			"loc":   e.Token.Loc.String(),
		}
	case *FunctionCall:
		args := make([]map[string]any, len(e.Arguments))
		for i, a := range e.Arguments {
			args[i] = EncodeExpression(a)
		}
		return map[string]any{
			"type":      "FunctionCall",
			"name":      e.Name.Value,
			"arguments": args,
		}
	case *BinaryOperation:
		return map[string]any{
			"type":     "BinaryOperation",
			"operator": e.Operator.Value,
			"left":     EncodeExpression(e.Left),
			"right":    EncodeExpression(e.Right),
		}
	}
	return map[string]any{"type": "Unknown"}
}
