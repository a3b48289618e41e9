// Package bootstrap wires configuration, logging and the advice pipeline
// shared by every docgpt subcommand.
package bootstrap

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/docgpt/pkg/advice"
	"github.com/papercomputeco/docgpt/pkg/config"
	"github.com/papercomputeco/docgpt/pkg/imaging"
	"github.com/papercomputeco/docgpt/pkg/logger"
	"github.com/papercomputeco/docgpt/pkg/openai"
)

// Options are the flags every subcommand accepts.
type Options struct {
	ConfigPath string
	Debug      bool
}

// AddFlags registers --config and --debug on cmd.
func AddFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a TOML config file")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
}

// ReportedError wraps an error that a command has already shown to the
// user. main exits non-zero without printing it again.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }

func (e *ReportedError) Unwrap() error { return e.Err }

// App holds the long-lived objects built at process start.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Pipeline *advice.Pipeline
}

// Build loads configuration and constructs the pipeline. Logs go to stderr.
func Build(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}

	log := logger.NewLogger(os.Stderr, opts.Debug)

	client, err := openai.New(openai.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: cfg.OpenAI.Timeout.Duration,
	}, log.Named("openai"))
	if err != nil {
		return nil, fmt.Errorf("could not create completion client: %w", err)
	}

	normalizer := imaging.NewNormalizer(imaging.Config{
		MaxBytes: cfg.Image.MaxBytes,
		Quality:  cfg.Image.JPEGQuality,
	}, &http.Client{}, log.Named("imaging"))

	requester := advice.NewRequester(client, advice.Config{Model: cfg.OpenAI.Model}, log.Named("advice"))

	log.Debug("pipeline ready",
		zap.String("model", cfg.OpenAI.Model),
		zap.String("base_url", cfg.OpenAI.BaseURL),
	)

	return &App{
		Config:   cfg,
		Logger:   log,
		Pipeline: advice.NewPipeline(normalizer, requester, log.Named("pipeline")),
	}, nil
}
