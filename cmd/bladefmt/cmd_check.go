package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/bladefmt/blade/directive"
	"github.com/dhamidi/bladefmt/blade/parser"
	"github.com/dhamidi/bladefmt/watch"
)

type checkResult struct {
	diags []parser.Diagnostic
	err   error
}

func newCheckCmd(g *globals) *cobra.Command {
	var jobs int
	var watchFiles bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "check <file|dir...>",
		Short: "Report syntax problems in Blade templates",
		Long: `Parse Blade templates and report their diagnostics.

Directories are searched for .blade.php files. Files are parsed
concurrently. The exit status is 1 when any problem is reported.

With --watch the arguments are polled for changes and changed files are
checked again until the command is interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandPaths(args)
			if err != nil {
				return err
			}
			opts, err := g.formatOptions()
			if err != nil {
				return err
			}

			problems, err := checkFiles(cmd.OutOrStdout(), files, opts.Directives, jobs)
			if err != nil {
				return err
			}

			if watchFiles {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				return watchAndCheck(ctx, cmd.OutOrStdout(), args, opts.Directives, jobs, interval)
			}

			if problems > 0 {
				return fmt.Errorf("%d problem(s) in %d file(s)", problems, len(files))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 8, "number of files parsed in parallel")
	cmd.Flags().BoolVar(&watchFiles, "watch", false, "keep checking files as they change")
	cmd.Flags().DurationVar(&interval, "interval", watch.DefaultInterval, "polling interval for --watch")

	return cmd
}

// checkFiles parses files concurrently and prints their diagnostics in
// argument order.
func checkFiles(w io.Writer, files []string, table *directive.Table, jobs int) (int, error) {
	if jobs < 1 {
		jobs = 1
	}

	results := make([]checkResult, len(files))
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup
	for i, filename := range files {
		wg.Add(1)
		go func(i int, filename string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, err := os.ReadFile(filename)
			if err != nil {
				results[i].err = fmt.Errorf("read file: %w", err)
				return
			}
			_, results[i].diags = parser.Parse(data, parser.WithFile(filename), parser.WithDirectives(table))
		}(i, filename)
	}
	wg.Wait()

	problems := 0
	for i, r := range results {
		if r.err != nil {
			return problems, r.err
		}
		log.Debugf("checked %s: %d diagnostics", files[i], len(r.diags))
		printDiagnostics(w, r.diags)
		problems += len(r.diags)
	}
	return problems, nil
}

func watchAndCheck(ctx context.Context, w io.Writer, roots []string, table *directive.Table, jobs int, interval time.Duration) error {
	watcher := watch.NewWatcher(roots, func(changed, removed []string) {
		for _, path := range removed {
			log.Infof("removed %s", path)
		}
		if len(changed) == 0 {
			return
		}
		problems, err := checkFiles(w, changed, table, jobs)
		if err != nil {
			log.Warningf("check: %s", err)
			return
		}
		if problems == 0 {
			fmt.Fprintf(w, "ok: %d file(s)\n", len(changed))
		}
	})
	watcher.SetInterval(interval)
	watcher.Start()
	log.Infof("watching %d path(s)", len(roots))

	<-ctx.Done()
	watcher.Stop()
	return nil
}
