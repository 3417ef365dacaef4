package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/metaphox/tern/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Print the token stream of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	raw, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	tokens, err := lexer.Lex(raw)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, t := range tokens {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Loc, t.Kind, t.Value)
	}
	if ferr := tw.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		printDiagnostic(cmd.ErrOrStderr(), args[0], err)
		return errFailed
	}
	return nil
}
