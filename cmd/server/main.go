package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sepsisguard/config"
	shttp "sepsisguard/http"
	"sepsisguard/logging"
	"sepsisguard/ml"
	"sepsisguard/monitoring"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "sepsis-server",
		Short:        "Serve sepsis predictions over HTTP",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), resolveConfigPath(configPath))
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	return cmd
}

// resolveConfigPath 兼容从 cmd/ 目录启动
func resolveConfigPath(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err == nil || filepath.IsAbs(path) {
		return path
	}
	parent := filepath.Join("..", "..", path)
	if _, err := os.Stat(parent); err == nil {
		return parent
	}
	// 找不到配置文件时只使用默认值
	return ""
}

func run(ctx context.Context, configPath string) error {
	// 1. 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. 初始化日志
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	if configPath == "" {
		logger.Warn("no config file found, using defaults")
	}

	// 3. 加载模型与编码器
	registry := ml.LoadRegistry(cfg.Models.Dir, cfg.ModelSpecs(), cfg.Models.EncoderFile, logger)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Models.Watch {
		watcher, err := ml.NewArtifactWatcher(registry.Paths(), logger)
		if err != nil {
			logger.Warn("artifact watcher disabled", zap.Error(err))
		} else {
			defer watcher.Close()
			go watcher.Run(ctx)
		}
	}

	// 4. 实时预测推送
	hub := monitoring.NewHub(logger, cfg.HTTP.AllowedOrigins)
	go hub.Start()
	defer hub.Stop()

	// 5. 启动HTTP服务器
	server := shttp.NewServer(shttp.ServerConfig{
		Port:           cfg.HTTP.Port,
		Timeout:        cfg.HTTP.Timeout,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
	}, shttp.Deps{
		Registry: registry,
		Metrics:  monitoring.NewMetricsCollector(),
		Hub:      hub,
		Logger:   logger,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// 6. 优雅关闭
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	logger.Info("exiting")
	return nil
}
