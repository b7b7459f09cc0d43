package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-quizlink/internal/adapter/infrastructure/file"
	"golang-quizlink/internal/output"
	"golang-quizlink/internal/pkg/config"
	"golang-quizlink/internal/pkg/logging"
	"golang-quizlink/internal/pkg/metrics"
	"golang-quizlink/internal/pkg/version"
	"golang-quizlink/internal/poller"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// startMetricsServer serves /metrics until ctx is cancelled.
func startMetricsServer(ctx context.Context, listen string, registry *metrics.Registry) {
	logger := logging.WithComponent("metrics").WithField("listen", listen)

	mux := http.NewServeMux()
	mux.Handle("/metrics", registry.Handler())
	server := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Failed to stop metrics server")
		}
	}()

	go func() {
		logger.Info("Serving metrics")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Metrics server failed")
		}
	}()
}

func outputConfig(cfg config.OutputsConfig) output.Config {
	return output.Config{
		Pins:             cfg.Pins,
		GPIORoot:         cfg.GPIORoot,
		SingleDuration:   time.Duration(cfg.SingleDurationMs) * time.Millisecond,
		MultipleDuration: time.Duration(cfg.MultipleDurationMs) * time.Millisecond,
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Join the configured network, poll the question service and drive the answer outputs",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configFlag)
		if err != nil {
			fmt.Println(err)
			return
		}

		logger := logging.GetLogger()
		logger.WithField("config_file", configFlag).WithField("version", version.GetGitInfo().String()).Info("Starting daemon")

		// Create context for graceful shutdown
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigChan
			logger.WithField("signal", sig.String()).Info("Received shutdown signal")
			cancel()
		}()

		registry := metrics.NewRegistry()
		if cfg.Metrics.Listen != "" {
			startMetricsServer(ctx, cfg.Metrics.Listen, registry)
		}

		manager, netStack, err := createConnectionManager(cfg, registry)
		if err != nil {
			logger.WithError(err).Error("Failed to create connection manager")
			return
		}
		defer netStack.Close()

		driver := output.NewDriver(outputConfig(cfg.Outputs), file.NewManagerAdapter("")).WithObserver(registry)
		if err := driver.Init(); err != nil {
			logger.WithError(err).Error("Failed to initialize outputs")
			return
		}

		p := poller.New(poller.Config{
			URL:       cfg.API.URL,
			Timeout:   time.Duration(cfg.API.TimeoutMs) * time.Millisecond,
			UserAgent: "golang-quizlink/" + version.GetGitInfo().Tag,
		}, manager, &http.Client{}, nil)

		if !manager.Connect(ctx) {
			logger.Warn("Initial connection failed, will retry before each poll")
		}

		loop := &pollLoop{
			poller:         p,
			driver:         driver,
			recorder:       registry,
			interval:       time.Duration(cfg.API.PollIntervalMs) * time.Millisecond,
			reconnectDelay: cfg.Network.ReconnectDelay(),
			now:            time.Now,

			unavailableWarn: rate.Sometimes{Interval: time.Minute},
			pollErrorWarn:   rate.Sometimes{Interval: time.Minute},
		}
		loop.run(ctx)

		logger.Info("Daemon stopped")
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configFlag, "config", "f", "", "Path to config file (YAML)")
	if err := serveCmd.MarkFlagRequired("config"); err != nil {
		panic(err) // This should never happen during initialization
	}
	rootCmd.AddCommand(serveCmd)
}
