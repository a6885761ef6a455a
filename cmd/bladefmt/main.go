package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/bladefmt/config"
	"github.com/dhamidi/bladefmt/format"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("bladefmt.cli")

// globals holds the persistent flags and the configuration they select.
type globals struct {
	configPath string
	verbosity  int
	logFile    string

	cfg *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:          "bladefmt",
		Short:        "Format and check Blade templates",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "path to a .bladefmt.yaml file (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&g.logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newFmtCmd(g))
	rootCmd.AddCommand(newParseCmd(g))
	rootCmd.AddCommand(newTokensCmd(g))
	rootCmd.AddCommand(newCheckCmd(g))
	rootCmd.AddCommand(newLSPCmd(g))
	rootCmd.AddCommand(newGrammarCmd())

	return rootCmd
}

func (g *globals) setup(cmd *cobra.Command) error {
	var err error
	if g.configPath != "" {
		g.cfg, err = config.Load(g.configPath)
	} else {
		g.cfg, err = config.Discover(".")
	}
	if err != nil {
		return err
	}

	verbosity := g.cfg.Log.Verbosity
	if cmd.Flags().Changed("verbose") {
		verbosity = g.verbosity
	}
	logFile := g.cfg.Log.File
	if g.logFile != "" {
		logFile = g.logFile
	}
	if logFile != "" {
		commonlog.Configure(verbosity, &logFile)
	} else {
		commonlog.Configure(verbosity, nil)
	}

	if path := g.cfg.Path(); path != "" {
		log.Infof("using config %s", path)
	}
	return nil
}

func (g *globals) formatOptions() (format.Options, error) {
	if g.cfg == nil {
		g.cfg = config.DefaultConfig()
	}
	opts, err := g.cfg.FormatOptions()
	if err != nil {
		return format.Options{}, fmt.Errorf("load directives: %w", err)
	}
	return opts, nil
}

// readSource reads a named file, or stdin when name is "-".
func readSource(name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// expandPaths replaces directories with the .blade.php files below them.
func expandPaths(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ".blade.php") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	return files, nil
}
