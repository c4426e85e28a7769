package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dhamidi/luast/check"
	"github.com/dhamidi/luast/lua/parser"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var timeout time.Duration
	var workers int
	var watch bool
	var quiet bool
	var rightAssoc bool

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Report syntax errors in Lua files and directories",
		Long: `Parse every .lua file below the given paths and report syntax errors
as path:line:column: message.

With --watch, keep running and re-check files as they change.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []parser.Option
			if rightAssoc {
				opts = append(opts, parser.WithRightAssociativeOperators())
			}
			checker := check.NewChecker(timeout, workers, opts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			report := func(r check.Result) {
				if r.OK() && quiet {
					return
				}
				fmt.Println(r)
			}

			if watch {
				return checker.Watch(ctx, args, report)
			}

			results, err := checker.Run(ctx, args)
			if err != nil {
				return fmt.Errorf("check: %w", err)
			}
			failed := 0
			for _, r := range results {
				report(r)
				if !r.OK() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed to parse", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "timeout per file")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "files to parse at once (0 means one per CPU)")
	cmd.Flags().BoolVarP(&watch, "watch", "W", false, "re-check files when they change")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print files with errors")
	cmd.Flags().BoolVar(&rightAssoc, "right-assoc", false, "parse ^ and .. as right-associative")

	return cmd
}
