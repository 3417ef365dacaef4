package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/metaphox/tern/parser"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

// run executes the root command with args and returns what it printed.
// Flag variables are reset first because cobra binds them to package globals.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cfgFile, verbose, noColor, parseFormat = "", false, false, ""

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--no-color"}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const program = `function add(a, b)
  return a + b;
end
print(add(1, 2));
`

// ── parse ─────────────────────────────────────────────────────────────────────

func TestParseCmd_Text(t *testing.T) {
	path := writeFile(t, t.TempDir(), "add.tern", program)
	out, _, err := run(t, "", "parse", path)
	if err != nil {
		t.Fatal(err)
	}
	want := "function add(a, b) return (a + b); end\nprint(add(1, 2));\n"
	if out != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestParseCmd_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "add.tern", program)
	out, _, err := run(t, "", "parse", "--format", "json", path)
	if err != nil {
		t.Fatal(err)
	}
	var tree []map[string]any
	if err := json.Unmarshal([]byte(out), &tree); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(tree) != 2 || tree[0]["type"] != "FunctionDeclaration" || tree[1]["type"] != "Expression" {
		t.Fatalf("got %v", tree)
	}
}

func TestParseCmd_YAMLFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.tern", "local x = f();")
	conf := writeFile(t, dir, "tern.toml", "[output]\nformat = \"yaml\"\n")

	out, _, err := run(t, "", "--config", conf, "parse", path)
	if err != nil {
		t.Fatal(err)
	}
	var tree []map[string]any
	if err := yaml.Unmarshal([]byte(out), &tree); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out)
	}
	if len(tree) != 1 || tree[0]["type"] != "Local" || tree[0]["name"] != "x" {
		t.Fatalf("got %v", tree)
	}
}

func TestParseCmd_Stdin(t *testing.T) {
	out, _, err := run(t, "a + 1;", "parse", "-")
	if err != nil {
		t.Fatal(err)
	}
	if out != "(a + 1);\n" {
		t.Fatalf("got %q", out)
	}
}

func TestParseCmd_Error(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.tern", "local x = 1;\nprint(x)\n")
	out, errOut, err := run(t, "", "parse", path)
	if err != errFailed {
		t.Fatalf("expected errFailed, got %v", err)
	}
	if out != "" {
		t.Errorf("expected no tree on failure, got %q", out)
	}
	if !strings.Contains(errOut, "error: "+path+":2:9") {
		t.Errorf("missing location header:\n%s", errOut)
	}
	if !strings.Contains(errOut, "Expected semicolon after expression:") {
		t.Errorf("missing message:\n%s", errOut)
	}
}

func TestParseCmd_DepthFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "deep.tern", "f(g(x));")
	conf := writeFile(t, dir, "tern.yaml", "parser:\n  max_depth: 1\n")

	_, errOut, err := run(t, "", "--config", conf, "parse", path)
	if err != errFailed || !strings.Contains(errOut, "Maximum nesting depth exceeded:") {
		t.Fatalf("err=%v stderr:\n%s", err, errOut)
	}
}

func TestParseCmd_BadConfig(t *testing.T) {
	dir := t.TempDir()
	conf := writeFile(t, dir, "tern.toml", "[output]\nformat = \"xml\"\n")
	_, _, err := run(t, "", "--config", conf, "parse", "-")
	if err == nil || !strings.Contains(err.Error(), "output.format") {
		t.Fatalf("got %v", err)
	}
}

// ── check / tokens / version ──────────────────────────────────────────────────

func TestCheckCmd(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.tern", program)
	bad := writeFile(t, dir, "bad.tern", "+ 1;")

	out, errOut, err := run(t, "", "check", good, bad)
	if err != errFailed {
		t.Fatalf("expected errFailed, got %v", err)
	}
	if !strings.Contains(out, "ok "+good) {
		t.Errorf("stdout:\n%s", out)
	}
	if !strings.Contains(errOut, "Invalid token while parsing:") || !strings.Contains(errOut, bad+":1:1") {
		t.Errorf("stderr:\n%s", errOut)
	}

	if _, _, err := run(t, "", "check", good); err != nil {
		t.Errorf("good file alone: %v", err)
	}
}

func TestCheckCmd_LexError(t *testing.T) {
	bad := writeFile(t, t.TempDir(), "bad.tern", "a = #;")
	_, errOut, err := run(t, "", "check", bad)
	if err != errFailed || !strings.Contains(errOut, "Unrecognized character while lexing:") {
		t.Fatalf("err=%v stderr:\n%s", err, errOut)
	}
}

func TestCheckCmd_MissingFile(t *testing.T) {
	_, errOut, err := run(t, "", "check", filepath.Join(t.TempDir(), "missing.tern"))
	if err != errFailed || !strings.Contains(errOut, "reading") {
		t.Fatalf("err=%v stderr:\n%s", err, errOut)
	}
}

func TestTokensCmd(t *testing.T) {
	out, _, err := run(t, "local x = 1;", "tokens", "-")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 tokens, got:\n%s", out)
	}
	if f := strings.Fields(lines[0]); len(f) != 3 || f[0] != "1:1" || f[1] != "keyword" || f[2] != "local" {
		t.Errorf("first line: %q", lines[0])
	}
}

func TestVersionCmd(t *testing.T) {
	out, _, err := run(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "tern v"+Version) {
		t.Fatalf("got %q", out)
	}
}

// ── repl session ──────────────────────────────────────────────────────────────

func newTestSession() (*session, *bytes.Buffer) {
	var out bytes.Buffer
	cfg.Output.Color = false
	return newSession(&out, parser.New(parser.Options{})), &out
}

func TestSession_SingleLine(t *testing.T) {
	s, out := newTestSession()
	s.feed("f(a, 1);")
	if out.String() != "f(a, 1);\n" || s.pending() {
		t.Fatalf("out=%q pending=%v", out.String(), s.pending())
	}
}

func TestSession_Continuation(t *testing.T) {
	s, out := newTestSession()
	for _, line := range []string{"function f(a)", "  return a;"} {
		s.feed(line)
		if !s.pending() {
			t.Fatalf("expected pending input after %q, output:\n%s", line, out.String())
		}
	}
	s.feed("end")
	if s.pending() {
		t.Fatal("expected the buffer to be consumed")
	}
	if out.String() != "function f(a) return a; end\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestSession_ForcedDiagnostic(t *testing.T) {
	s, out := newTestSession()
	s.feed("local x = 1")
	if !s.pending() || out.Len() != 0 {
		t.Fatalf("expected silent continuation, got %q", out.String())
	}
	s.feed("")
	if s.pending() {
		t.Fatal("expected the buffer to be cleared")
	}
	if !strings.Contains(out.String(), "Expected semicolon after local declaration:") {
		t.Fatalf("got %q", out.String())
	}
}

func TestSession_ImmediateDiagnostic(t *testing.T) {
	s, out := newTestSession()
	s.feed("+ 1;")
	if s.pending() || !strings.Contains(out.String(), "Invalid token while parsing:") {
		t.Fatalf("pending=%v out=%q", s.pending(), out.String())
	}
}

func TestSession_Commands(t *testing.T) {
	s, out := newTestSession()
	if s.feed(":tokens") {
		t.Fatal(":tokens should not quit")
	}
	s.feed("x;")
	if !strings.Contains(out.String(), "tokens on") || !strings.Contains(out.String(), `identifier "x"`) {
		t.Fatalf("got %q", out.String())
	}
	s.feed(":bogus")
	if !strings.Contains(out.String(), "unknown command :bogus") {
		t.Fatalf("got %q", out.String())
	}
	if !s.feed(":quit") {
		t.Fatal(":quit should quit")
	}
}

func TestCompleteKeyword(t *testing.T) {
	cases := map[string][]string{
		"loc":       {"local"},
		"if x t":    {"if x then"},
		"f(r":       {"f(return"},
		"":          nil,
		"zzz":       nil,
		"local x =": nil,
	}
	for in, want := range cases {
		got := completeKeyword(in)
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("completeKeyword(%q) = %v, want %v", in, got, want)
		}
	}
}

// ── watch ─────────────────────────────────────────────────────────────────────

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "w.tern", "a;")
	other := writeFile(t, dir, "other.tern", "b;")

	changed := make(chan string, 4)
	w, err := newWatcher([]string{path}, func(p string) { changed <- p })
	if err != nil {
		t.Skipf("file watching unavailable: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	writeFile(t, dir, filepath.Base(other), "c;")
	writeFile(t, dir, filepath.Base(path), "d;")

	select {
	case got := <-changed:
		if got != path {
			t.Errorf("changed %q, want %q", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run: %v", err)
	}
}

func TestWatcher_ChecksFinalContent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "w.tern", "a;")

	seen := make(chan string, 8)
	w, err := newWatcher([]string{path}, func(p string) {
		data, _ := os.ReadFile(p)
		seen <- string(data)
	})
	if err != nil {
		t.Skipf("file watching unavailable: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Save the way editors do: truncate, then write the new content.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	f.Sync()
	time.Sleep(20 * time.Millisecond)
	if _, err := f.WriteString("+ 1;"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	var last string
	select {
	case last = <-seen:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	// Drain anything else delivered before the watcher settles.
	for draining := true; draining; {
		select {
		case last = <-seen:
		case <-time.After(3 * debounce):
			draining = false
		}
	}
	if last != "+ 1;" {
		t.Fatalf("last check saw %q, want %q", last, "+ 1;")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run: %v", err)
	}
}

func TestWatcher_ScheduleCoalesces(t *testing.T) {
	w := &Watcher{
		fired:  make(chan string, 4),
		done:   make(chan struct{}),
		timers: make(map[string]*time.Timer),
	}
	defer close(w.done)

	for i := 0; i < 3; i++ {
		w.schedule("a")
		time.Sleep(debounce / 5)
	}

	select {
	case got := <-w.fired:
		if got != "a" {
			t.Fatalf("fired %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
	select {
	case got := <-w.fired:
		t.Fatalf("burst delivered more than once: %q", got)
	case <-time.After(3 * debounce):
	}
}
