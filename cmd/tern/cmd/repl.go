package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/metaphox/tern/ast"
	"github.com/metaphox/tern/lexer"
	"github.com/metaphox/tern/parser"
)

const (
	promptMain         = ">> "
	promptContinuation = ".. "
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Parse input interactively",
	Long: `Read Tern source line by line and print the syntax tree of each
complete statement.

Input that ends in the middle of a statement is continued on the next line.
Submit an empty line to force a diagnostic for incomplete input.

Commands:
  :tokens  - toggle printing the token stream
  :help    - show this help
  :quit    - exit (Ctrl+D also works)`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completeKeyword)

	historyFile := filepath.Join(os.TempDir(), ".tern_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "tern v%s\nType :help for commands, Ctrl+D to quit\n", Version)

	s := newSession(out, newParser())
	for {
		prompt := promptMain
		if s.pending() {
			prompt = promptContinuation
		}

		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			s.reset()
			fmt.Fprintln(out, "^C")
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if s.feed(input) {
			return nil
		}
	}
}

// completeKeyword completes the last word of line against the keywords.
func completeKeyword(line string) []string {
	start := strings.LastIndexAny(line, " \t(,;=") + 1
	prefix, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	var out []string
	for kw := range ast.Keywords {
		if strings.HasPrefix(kw, word) {
			out = append(out, prefix+kw)
		}
	}
	sort.Strings(out)
	return out
}

// session accumulates REPL input until it forms complete statements.
type session struct {
	out        io.Writer
	parser     *parser.Parser
	buf        strings.Builder
	showTokens bool
}

func newSession(out io.Writer, p *parser.Parser) *session {
	return &session{out: out, parser: p}
}

func (s *session) pending() bool { return s.buf.Len() > 0 }

func (s *session) reset() { s.buf.Reset() }

// feed handles one line of input and reports whether the session should end.
func (s *session) feed(line string) (quit bool) {
	trimmed := strings.TrimSpace(line)

	if !s.pending() && strings.HasPrefix(trimmed, ":") {
		return s.command(trimmed)
	}
	if trimmed == "" {
		if s.pending() {
			s.evaluate(true)
		}
		return false
	}

	s.buf.WriteString(line)
	s.buf.WriteString("\n")
	s.evaluate(false)
	return false
}

func (s *session) command(c string) (quit bool) {
	switch c {
	case ":quit", ":q", ":exit":
		return true
	case ":tokens":
		s.showTokens = !s.showTokens
		state := "off"
		if s.showTokens {
			state = "on"
		}
		fmt.Fprintf(s.out, "tokens %s\n", state)
	case ":help":
		fmt.Fprintln(s.out, ":tokens  toggle printing the token stream")
		fmt.Fprintln(s.out, ":quit    exit")
	default:
		fmt.Fprintf(s.out, "unknown command %s (try :help)\n", c)
	}
	return false
}

// evaluate parses the buffer. Unless final is set, an error at the end of
// the stream keeps the buffer so the next line can complete it.
func (s *session) evaluate(final bool) {
	raw := []rune(s.buf.String())

	tokens, err := lexer.Lex(raw)
	if err != nil {
		printDiagnostic(s.out, "<repl>", err)
		s.reset()
		return
	}

	prog, err := s.parser.Parse(raw, tokens)
	if err != nil {
		var perr *parser.Error
		if !final && errors.As(err, &perr) && perr.AtEOF {
			return
		}
		printDiagnostic(s.out, "<repl>", err)
		s.reset()
		return
	}

	if s.showTokens {
		for _, t := range tokens {
			fmt.Fprintf(s.out, "%s %s %q\n", styles().muted(t.Loc.String()), t.Kind, t.Value)
		}
	}
	fmt.Fprint(s.out, prog.String())
	s.reset()
}
