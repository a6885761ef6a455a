package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/bladefmt/blade/parser"
	"github.com/dhamidi/bladefmt/format"
)

func newFmtCmd(g *globals) *cobra.Command {
	var fmtOverwrite bool
	var fmtList bool
	var indent int
	var tabs bool

	cmd := &cobra.Command{
		Use:   "fmt [file|dir...]",
		Short: "Re-indent Blade templates",
		Long: `Re-indent Blade templates and print the result to stdout.

Directories are searched for .blade.php files.
If no file is provided, reads a template from stdin.

Use -w to overwrite files in place and -l to list files whose formatting
differs. All problems are reported; files with errors are left
untouched, files with only warnings are formatted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.formatOptions()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("indent") {
				opts.IndentSize = indent
			}
			if cmd.Flags().Changed("tabs") {
				opts.Tabs = tabs
			}

			if len(args) == 0 {
				if fmtOverwrite || fmtList {
					return fmt.Errorf("-w and -l require file arguments")
				}
				source, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				opts.File = "<stdin>"
				output, diags := format.Source(source, opts)
				printDiagnostics(cmd.ErrOrStderr(), diags)
				if n := countErrors(diags); n > 0 {
					return fmt.Errorf("<stdin>: %d error(s), not formatted", n)
				}
				_, err = cmd.OutOrStdout().Write(output)
				return err
			}

			files, err := expandPaths(args)
			if err != nil {
				return err
			}

			failed := 0
			for _, filename := range files {
				source, err := os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
				opts.File = filename
				output, diags := format.Source(source, opts)
				printDiagnostics(cmd.ErrOrStderr(), diags)
				if countErrors(diags) > 0 {
					failed++
					continue
				}

				changed := !bytes.Equal(source, output)
				if fmtList && changed {
					fmt.Fprintln(cmd.OutOrStdout(), filename)
				}
				if fmtOverwrite {
					if changed {
						log.Infof("formatting %s", filename)
						if err := os.WriteFile(filename, output, 0644); err != nil {
							return fmt.Errorf("write file: %w", err)
						}
					}
					continue
				}
				if !fmtList {
					if _, err := cmd.OutOrStdout().Write(output); err != nil {
						return err
					}
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d file(s) not formatted", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite files in place")
	cmd.Flags().BoolVarP(&fmtList, "list", "l", false, "list files whose formatting differs")
	cmd.Flags().IntVar(&indent, "indent", format.DefaultIndentSize, "spaces per indentation level")
	cmd.Flags().BoolVar(&tabs, "tabs", false, "indent with tabs")

	return cmd
}

func printDiagnostics(w io.Writer, diags []parser.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s [%s]\n", d, d.Kind)
	}
}

func countErrors(diags []parser.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Kind.IsError() {
			n++
		}
	}
	return n
}
