package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sepsisguard/client"
	"sepsisguard/config"
	"sepsisguard/logging"
	"sepsisguard/tui"
)

type options struct {
	configPath string
	baseURL    string
	model      string
	logFile    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "sepsis-client",
		Short:         "Request sepsis predictions from the prediction service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runForm(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to the YAML config file")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "prediction service base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.model, "model", "", "model to query (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", filepath.Join(os.TempDir(), "sepsis-client.log"), "client log file")

	cmd.AddCommand(newFormCmd(opts), newPredictCmd(opts))
	return cmd
}

func newFormCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Open the interactive prediction form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runForm(opts)
		},
	}
}

type session struct {
	cfg    *config.Config
	client *client.Client
	logger *zap.Logger
	model  string
}

func newSession(opts *options) (*session, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.baseURL != "" {
		cfg.Client.BaseURL = opts.baseURL
	}

	logCfg := cfg.Log
	logCfg.Quiet = true
	if logCfg.File == "" {
		logCfg.File = opts.logFile
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	c, err := client.New(cfg.Client.BaseURL,
		client.WithTimeout(cfg.Client.Timeout),
		client.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	model := cfg.Client.DefaultModel
	if opts.model != "" {
		model = opts.model
	}
	return &session{cfg: cfg, client: c, logger: logger, model: model}, nil
}

func runForm(opts *options) error {
	s, err := newSession(opts)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	s.logger.Info("starting form", zap.String("base_url", s.client.BaseURL()))
	return tui.Run(tui.Deps{
		Predictor:    s.client,
		Lister:       s.client,
		Models:       s.cfg.ModelNames(),
		DefaultModel: s.model,
		Timeout:      s.cfg.Client.Timeout,
		Logger:       s.logger,
	})
}
