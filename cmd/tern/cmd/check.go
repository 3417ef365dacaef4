package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Report the first syntax error of each file",
	Long: `Lex and parse every file and report the first error in each.

Parsing stops at the first error in a file, so at most one diagnostic is
printed per file. The exit status is 1 if any file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		if !checkFile(cmd, path) {
			failed++
		}
	}
	if failed > 0 {
		logger.Debug("check failed", slog.Int("files", len(args)), slog.Int("failed", failed))
		return errFailed
	}
	return nil
}

// checkFile parses one file and prints either "ok" or its diagnostic.
func checkFile(cmd *cobra.Command, path string) bool {
	raw, err := readSource(cmd, path)
	if err != nil {
		printError(cmd.ErrOrStderr(), err)
		return false
	}
	if _, _, err := analyse(raw); err != nil {
		printDiagnostic(cmd.ErrOrStderr(), path, err)
		return false
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styles().successLabel("ok"), path)
	return true
}
