package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/bladefmt/blade/parser"
	"github.com/dhamidi/bladefmt/format"
)

func newParseCmd(g *globals) *cobra.Command {
	var outputFormat string
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a Blade template and dump its tree",
		Long: `Parse a Blade template and dump its tree to stdout.

Use "-" to read the template from stdin. Diagnostics are printed to stderr.`,
		Args: cobra.ExactArgs(1),
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

			popts := []parser.Option{parser.WithFile(filename), parser.WithDirectives(opts.Directives)}
			if includePositions {
				popts = append(popts, parser.WithPositions())
			}
			p := parser.ParseFile(bytes.NewReader(data), popts...)
			node := p.Finish()
			if node == nil {
				return fmt.Errorf("parse %s: %w", filename, p.Err())
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewASTJSONEncoder(cmd.OutOrStdout(), p.IncludesPositions())
			case "tree":
				encoder = format.NewTreeEncoder(cmd.OutOrStdout(), p.IncludesPositions())
			default:
				return fmt.Errorf("unknown format: %s (expected tree or json)", outputFormat)
			}
			if err := encoder.Encode(node); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}

			printDiagnostics(cmd.ErrOrStderr(), p.Diagnostics())
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json)")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include source positions in output")

	return cmd
}
