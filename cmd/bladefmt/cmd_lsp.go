package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/bladefmt/lsp"
)

func newLSPCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			options := []lsp.Option{}
			if g.configPath != "" {
				opts, err := g.formatOptions()
				if err != nil {
					return err
				}
				options = append(options, lsp.WithOptions(opts))
			} else {
				options = append(options, lsp.WithConfigDiscovery())
			}
			return lsp.NewServer(version, options...).RunStdio()
		},
	}
}
