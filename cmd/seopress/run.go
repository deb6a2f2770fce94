package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"seopress/internal/models"
	"seopress/internal/pipeline"
)

// ErrNoURLs is returned when the URL list has no entries.
var ErrNoURLs = errors.New("no URLs to process")

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run [urls-file]",
		Short: "Process every URL in a newline-delimited list (default urls.txt)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "urls.txt"
			if len(args) > 0 {
				path = args[0]
			}

			cfg, err := opts.load()
			if err != nil {
				return err
			}

			log := newLogger(cfg, cmd.ErrOrStderr())

			list, err := pipeline.LoadURLs(path)
			if err != nil {
				return err
			}

			for _, rej := range list.Rejected {
				log.Warn(fmt.Sprintf("⏭️  %s:%d is not an absolute URL, skipping %q", path, rej.Line, rej.Text))
			}

			if len(list.URLs) == 0 {
				return fmt.Errorf("%w in %s", ErrNoURLs, path)
			}

			runner, err := newRunner(cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report := runner.Run(ctx, list.URLs)

			return report.WriteSummary(cmd.OutOrStdout())
		},
	}
}

func newRewriteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rewrite <url>",
		Short: "Process a single URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			log := newLogger(cfg, cmd.ErrOrStderr())

			runner, err := newRunner(cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return printItem(cmd, runner.ProcessURL(ctx, args[0]))
		},
	}
}

func printItem(cmd *cobra.Command, result models.ItemResult) error {
	fmt.Fprintln(cmd.OutOrStdout(), result.String())

	if result.Status != models.ItemPublished {
		return fmt.Errorf("%s at %s: %s", result.Status, result.FailedStage, result.Reason)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", result.Article.Title, result.Link)

	return nil
}
