package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/kvothesson/chat-saas-gateway/internal/config"
	"github.com/kvothesson/chat-saas-gateway/internal/handler"
	"github.com/kvothesson/chat-saas-gateway/internal/infra/client"
	"github.com/kvothesson/chat-saas-gateway/internal/infra/observability"
	"github.com/kvothesson/chat-saas-gateway/internal/infra/resilience"
	"github.com/kvothesson/chat-saas-gateway/internal/port"
	"github.com/kvothesson/chat-saas-gateway/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	// --- Config ---
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("completion_base_url", cfg.CompletionBaseURL),
		zap.String("completion_model", cfg.CompletionModel),
		zap.Bool("profile_url_set", cfg.ProfileURL != ""),
		zap.String("profile_path", cfg.ProfilePath),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Float64("completion_rps", cfg.CompletionRPS),
		zap.Bool("debug_stats", cfg.DebugStats),
	)

	// --- Tracing ---
	shutdownTracer, err := observability.InitTracer(cfg.OTLPEndpoint, "chat-saas-gateway")
	if err != nil {
		return err
	}
	defer shutdownTracer(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	completion := client.NewCompletionClient(
		httpClient,
		client.CompletionOptions{
			APIKey:       cfg.CompletionAPIKey,
			BaseURL:      cfg.CompletionBaseURL,
			Model:        cfg.CompletionModel,
			DefaultModel: config.DefaultModel,
		},
		resilience.NewCircuitBreaker("completion", client.IsClientFault),
		resilience.Config{
			MaxConcurrency: cfg.MaxConcurrency,
			RPS:            cfg.CompletionRPS,
			Burst:          cfg.CompletionBurst,
		},
	)
	logger.Info("completion client ready", zap.String("model", completion.Model()))

	sources := []port.ProfileSource{
		client.NewHTTPProfileSource("configured", httpClient, cfg.ProfileURL, resilience.NewCircuitBreaker("profile-configured")),
		client.NewFileProfileSource(cfg.ProfilePath),
		client.NewHTTPProfileSource("canonical", httpClient, cfg.FallbackProfileURL, resilience.NewCircuitBreaker("profile-canonical")),
	}

	// --- Services ---
	resolver := service.NewProfileResolver(sources, metrics, logger)
	chatSvc := service.NewChatService(resolver, completion, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(chatSvc, metrics, logger, handler.Options{DebugStats: cfg.DebugStats})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2*cfg.HTTPTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("server shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
