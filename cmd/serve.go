package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/schedassist/internal/assistant"
	"github.com/teemow/schedassist/internal/config"
	"github.com/teemow/schedassist/internal/graph"
	"github.com/teemow/schedassist/internal/instrumentation"
	"github.com/teemow/schedassist/internal/llm"
	"github.com/teemow/schedassist/internal/logging"
	"github.com/teemow/schedassist/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		listenAddr  string
		metricsAddr string
		requester   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat API server",
		Long: `Start the HTTP chat surface (POST /api/chat) together with health probes
and a dedicated Prometheus metrics server.

Credentials are read from the environment (a .env file is honored):
AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_KEY, AZURE_OPENAI_DEPLOYMENT,
AZURE_TENANT_ID, MICROSOFT_APP_ID, MICROSOFT_APP_PASSWORD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if listenAddr != "" {
				cfg.ListenAddr = listenAddr
			}
			if metricsAddr != "" {
				cfg.MetricsAddr = metricsAddr
			}
			if requester != "" {
				cfg.Requester = requester
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen-addr", "", "address for the chat API server (default from LISTEN_ADDR or :8080)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address for the metrics server (default from METRICS_ADDR or :9090)")
	cmd.Flags().StringVar(&requester, "requester", "", "identity attributed to API-originated turns")
	return cmd
}

func runServe(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	logger := slog.Default()

	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if err := instrConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation configuration: %w", err)
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	a, err := buildAssistant(shutdownCtx, cfg, provider)
	if err != nil {
		return err
	}

	apiServer, err := server.New(server.Config{
		Addr:        cfg.ListenAddr,
		Assistant:   a,
		Requester:   cfg.Requester,
		TurnTimeout: cfg.TurnTimeout,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create chat API server: %w", err)
	}

	serverErr := make(chan error, 2)

	var metricsServer *server.MetricsServer
	if provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.MetricsAddr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				serverErr <- fmt.Errorf("metrics server failed: %w", err)
			}
		}()
	}

	go func() {
		if err := apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("chat API server failed: %w", err)
		}
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return err
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancelShutdown()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("chat API server shutdown failed", logging.Err(err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Error("metrics server shutdown failed", logging.Err(err))
		}
	}
	return nil
}

// buildAssistant wires the oracle, the Graph gateway and the orchestrator
// from runtime configuration.
func buildAssistant(ctx context.Context, cfg config.Config, provider *instrumentation.Provider) (*assistant.Assistant, error) {
	tokens, err := graph.NewTokenSource(ctx, cfg.TenantID, cfg.ClientID, cfg.ClientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create Graph token source: %w", err)
	}

	gateway, err := graph.NewClient(graph.Config{
		TokenSource: tokens,
		BaseURL:     cfg.GraphBaseURL,
		HRRecipient: cfg.HRRecipient,
		Timeout:     cfg.GraphTimeout,
		Logger:      slog.Default(),
		Metrics:     provider.Metrics(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Graph client: %w", err)
	}

	oracle := llm.NewClient(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMDeployment, cfg.LLMTimeout)

	a, err := assistant.New(assistant.Config{
		Oracle:   oracle,
		Calendar: gateway,
		Logger:   slog.Default(),
		Metrics:  provider.Metrics(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create assistant: %w", err)
	}
	return a, nil
}
