package cmd

import (
	"github.com/spf13/cobra"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Print the syntax tree of a file",
	Long: `Parse a Tern source file and print its syntax tree.

The output format comes from output.format in the config file unless
--format is given. Use - as FILE to read standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: text, json or yaml")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	raw, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	_, prog, err := analyse(raw)
	if err != nil {
		printDiagnostic(cmd.ErrOrStderr(), args[0], err)
		return errFailed
	}

	format := cfg.Output.Format
	if parseFormat != "" {
		format = parseFormat
	}
	return writeProgram(cmd.OutOrStdout(), prog, format)
}
