package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/bladefmt/format"
)

func newTokensCmd(g *globals) *cobra.Command {
	var asJSON bool
	var showModes bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a Blade template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := readSource(filename)
			if err != nil {
				return err
			}
			opts, err := g.formatOptions()
			if err != nil {
				return err
			}
			opts.File = filename

			records, diags := format.Tokens(data, opts)

			var encoder format.TokenEncoder
			if asJSON {
				encoder = format.NewTokenJSONEncoder(cmd.OutOrStdout(), showModes)
			} else {
				encoder = format.NewLineEncoder(cmd.OutOrStdout(), showModes)
			}
			if err := encoder.EncodeTokens(records); err != nil {
				return fmt.Errorf("encode tokens: %w", err)
			}

			printDiagnostics(cmd.ErrOrStderr(), diags)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print tokens as JSON")
	cmd.Flags().BoolVar(&showModes, "modes", false, "print the lexer mode and mode-stack depth after each token")

	return cmd
}
