package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/metaphox/tern/config"
	"github.com/metaphox/tern/parser"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	cfg    = config.Default()
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var rootCmd = &cobra.Command{
	Use:   "tern",
	Short: "Tern language front end",
	Long: `tern lexes and parses Tern source files.

Commands:
  parse   - print the syntax tree of a file
  check   - report the first syntax error of each file
  tokens  - print the token stream of a file
  repl    - parse input interactively
  watch   - re-check files whenever they change`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && err != errFailed {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./tern.toml, ./tern.yaml or ./tern.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log parser activity to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// setup loads configuration and builds the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.Discover(".")
	}

	c, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if verbose {
		c.LogLevel = "debug"
	}
	if noColor {
		c.Output.Color = false
	}
	cfg = c
	logger = newLogger(cmd.ErrOrStderr(), c.LogLevel)
	logger.Debug("config loaded", slog.String("path", path))
	return nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// newParser returns a parser configured from the loaded config.
func newParser() *parser.Parser {
	opts := cfg.ParserOptions()
	opts.Logger = logger
	return parser.New(opts)
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", styles().errorLabel("error:"), err)
}

// stdinName is the file argument that reads from standard input.
const stdinName = "-"

func readSource(cmd *cobra.Command, path string) ([]rune, error) {
	var (
		content []byte
		err     error
	)
	if path == stdinName {
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return []rune(string(content)), nil
}
