package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"seopress/internal/models"
	"seopress/internal/normalizer"
)

func newNormalizeCmd(opts *rootOptions) *cobra.Command {
	var sourceTitle string

	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Normalize generated text from a file or stdin and print title and HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			article := newProcessor(cfg).Process(
				models.SourceArticle{Title: sourceTitle},
				&models.GeneratedText{Raw: raw},
			)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title: %s\n", article.Title)

			if article.TitleFallback {
				fmt.Fprintln(out, "(generated title rejected, fallback used)")
			}

			fmt.Fprintf(out, "\n%s\n", article.HTMLBody)

			return nil
		},
	}

	cmd.Flags().StringVar(&sourceTitle, "source-title", "", "Fallback title used when the generated one is invalid")

	return cmd
}

func newTitleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "title <text>",
		Short: "Print the cleaned title and whether it is valid",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			title := normalizer.ExtractTitle(strings.Join(args, " "))
			validator := newProcessor(cfg).Validator()

			status := "valid"
			if err := validator.Check(title); err != nil {
				status = err.Error()
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", title, status)

			return nil
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "config [path]",
		Short: "Write the effective configuration, without secrets, as YAML (default seopress.yaml)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "seopress.yaml"
			if len(args) > 0 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%w: %s (use --force to overwrite)", os.ErrExist, path)
			}

			cfg, err := opts.load()
			if err != nil {
				return err
			}

			cfg.CMS.Password = ""
			cfg.Generator.APIKey = ""

			if err := cfg.SaveConfig(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}

		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}

	return string(data), nil
}
