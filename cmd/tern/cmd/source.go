package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/metaphox/tern/ast"
	"github.com/metaphox/tern/config"
	"github.com/metaphox/tern/lexer"
	"github.com/metaphox/tern/parser"
)

// errFailed is returned once a diagnostic has already been printed, so
// Execute only sets the exit status.
var errFailed = errors.New("failed")

// analyse lexes and parses raw. tokens is set whenever lexing succeeded.
func analyse(raw []rune) (tokens []ast.Token, prog *ast.Program, err error) {
	tokens, err = lexer.Lex(raw)
	if err != nil {
		return nil, nil, err
	}
	prog, err = newParser().Parse(raw, tokens)
	return tokens, prog, err
}

// printDiagnostic prints a lexer or parser error under a name:line:col header.
func printDiagnostic(w io.Writer, name string, err error) {
	var (
		perr *parser.Error
		lerr *lexer.Error
		loc  ast.Location
	)
	switch {
	case errors.As(err, &perr):
		loc = perr.Loc
	case errors.As(err, &lerr):
		loc = lerr.Loc
	default:
		printError(w, err)
		return
	}
	p := styles()
	fmt.Fprintf(w, "%s %s\n%s\n", p.errorLabel("error:"), p.muted(name+":"+loc.String()), err)
}

// writeProgram prints prog in one of the config.Output* formats.
func writeProgram(w io.Writer, prog *ast.Program, format string) error {
	switch format {
	case config.OutputJSON:
		b, err := json.MarshalIndent(ast.Encode(prog), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	case config.OutputYAML:
		b, err := yaml.Marshal(ast.Encode(prog))
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case config.OutputText:
		_, err := io.WriteString(w, prog.String())
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}
