package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"seopress/internal/archive"
	"seopress/internal/config"
	"seopress/internal/crawler"
	"seopress/internal/generator"
	"seopress/internal/logger"
	"seopress/internal/normalizer"
	"seopress/internal/pipeline"
	"seopress/internal/wordpress"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	envFile    string
	logLevel   string
	logFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "seopress",
		Short: "Rewrite articles for SEO and publish them to WordPress",
		Long: `seopress fetches each source article, asks a chat-completions service for
an SEO rewrite, normalizes the title and body to HTML and publishes the result
to a WordPress site with the source image as featured media.

Credentials come from the config file, a .env file or the environment
(WP_URL, WP_USER, WP_PASSWORD, OPENAI_API_KEY).`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to YAML config file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Path to .env file (ignored when missing)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFile, "log-file", "", "Append log records to this file")

	cmd.AddCommand(
		newRunCmd(opts),
		newRewriteCmd(opts),
		newNormalizeCmd(opts),
		newTitleCmd(opts),
		newConfigCmd(opts),
	)

	return cmd
}

// load builds the effective configuration, applying flag overrides last.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath, o.envFile)
	if err != nil {
		return nil, err
	}

	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	if o.logFile != "" {
		cfg.Logging.File = o.logFile
	}

	if err := cfg.Logging.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging flags: %w", err)
	}

	return cfg, nil
}

func newLogger(cfg *config.Config, console io.Writer) *logger.Logger {
	return logger.NewFileLogger(cfg.Logging.Level, cfg.Logging.File, console)
}

func newProcessor(cfg *config.Config) *normalizer.Processor {
	return normalizer.NewProcessor(normalizer.Options{
		Placeholder:               cfg.Title.Placeholder,
		MinTitleLength:            cfg.Title.MinLength,
		IncludeTitleHeadingInBody: cfg.Title.IncludeTitleHeadingInBody,
	})
}

// newRunner wires the production stages.
func newRunner(cfg *config.Config, log *logger.Logger) (*pipeline.Runner, error) {
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	gen, err := generator.NewClient(cfg.Generator)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	runner := pipeline.NewRunner(
		crawler.NewClientFromConfig(cfg),
		gen,
		newProcessor(cfg),
		wordpress.NewPublisher(cfg.CMS, log),
		log,
	)

	if cfg.Archive.Dir != "" {
		runner.SetArchiver(archive.NewWriter(cfg.Archive.Dir))
	}

	return runner, nil
}
