package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"

	pkgkafka "github.com/infrarisk/sentinel/pkg/kafka"
	"github.com/infrarisk/sentinel/pkg/observability"
	pgutil "github.com/infrarisk/sentinel/pkg/postgres"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/application/usecase"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/port"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/service"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/infrastructure/config"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/infrastructure/kafka"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/infrastructure/metrics"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/infrastructure/ml"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/infrastructure/postgres"
	grpcpresentation "github.com/infrarisk/sentinel/services/anomaly-service/internal/presentation/grpc"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/presentation/rest"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/presentation/stream"
)

const serviceName = "anomaly-service"

func main() {
	if err := run(); err != nil {
		slog.Error("anomaly-service exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	logger.Info("starting anomaly-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"environment", cfg.Environment,
	)

	// Tracing is a no-op without an endpoint.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName:  serviceName,
		Endpoint:     cfg.OTelEndpoint,
		Insecure:     true,
		SamplingRate: cfg.TraceSamplingRate,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer shutdownTracer(context.Background()) //nolint:errcheck
	}

	meterProvider, registry, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: serviceName,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	otel.SetMeterProvider(meterProvider)
	defer meterProvider.Shutdown(context.Background()) //nolint:errcheck

	// Model capabilities are loaded once and shared read-only.
	scorer, transform, modelVersion, err := loadModel(cfg, logger)
	if err != nil {
		return err
	}

	// Database connection and schema.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pgutil.NewPool(dbCtx, pgutil.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if cfg.MigrationsPath != "" {
		version, err := pgutil.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("database migrated", "version", version)
	}

	// Kafka.
	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.KafkaBrokers,
		ConsumerGroup: cfg.KafkaConsumerGroup,
		ClientID:      serviceName,
		TLS:           cfg.KafkaTLS,
		SASLEnabled:   cfg.KafkaSASLMechanism != "",
		SASLMechanism: cfg.KafkaSASLMechanism,
		SASLUsername:  cfg.KafkaSASLUsername,
		SASLPassword:  cfg.KafkaSASLPassword,
	}
	producer, err := pkgkafka.NewProducer(kafkaCfg)
	if err != nil {
		return fmt.Errorf("failed to create kafka producer: %w", err)
	}
	defer producer.Close() //nolint:errcheck

	// Wire use cases.
	pipeline := usecase.Pipeline{
		Repo:         postgres.NewBatchRepository(pool),
		Publisher:    kafka.NewPublisher(producer, cfg.KafkaAlertTopic, logger),
		Recorder:     metrics.NewRecorder(registry),
		Deriver:      service.NewFeatureDeriver(),
		Evaluator:    service.NewRiskEvaluator(scorer, transform),
		ModelVersion: modelVersion,
	}
	evaluateBatchUC := usecase.NewEvaluateBatch(pipeline)
	evaluateReadingUC := usecase.NewEvaluateReading(pipeline)
	getBatchUC := usecase.NewGetBatch(pipeline)
	exportBatchUC := usecase.NewExportBatch(pipeline)

	// gRPC server.
	grpcHandler := grpcpresentation.NewAnomalyServiceHandler(evaluateBatchUC, evaluateReadingUC, getBatchUC, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		TLSCertFile: cfg.GRPCTLSCertFile,
		TLSKeyFile:  cfg.GRPCTLSKeyFile,
		Reflection:  cfg.GRPCReflection,
	}, logger)
	if err != nil {
		return err
	}

	// HTTP server.
	httpMux := http.NewServeMux()
	rest.NewHealthHandler(logger, map[string]rest.ReadinessCheck{
		"database": func(ctx context.Context) error { return pgutil.HealthCheck(ctx, pool) },
	}).RegisterRoutes(httpMux)
	rest.NewEvaluationHandler(evaluateBatchUC, evaluateReadingUC, getBatchUC, exportBatchUC, logger).RegisterRoutes(httpMux)
	httpMux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      rest.AccessLog(logger)(httpMux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if cfg.StreamEnabled() {
		consumer, err := startConsumer(ctx, kafkaCfg, cfg.KafkaTelemetryTopic, evaluateBatchUC, logger, errCh)
		if err != nil {
			return err
		}
		defer consumer.Close() //nolint:errcheck
	}

	logger.Info("anomaly-service started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"model_version", modelVersion,
	)

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	logger.Info("shutting down anomaly-service")
	cancel()

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("anomaly-service stopped")
	return nil
}

// loadModel builds the scaler and forest from the configured artifact, or a
// stub scorer in development when none is configured.
func loadModel(cfg *config.Config, logger *slog.Logger) (port.Scorer, port.Transformer, string, error) {
	if cfg.ModelArtifactPath == "" {
		if cfg.Environment == "production" {
			return nil, nil, "", fmt.Errorf("model_artifact_path is required in production")
		}
		logger.Warn("no model artifact configured, using stub scorer")
		return ml.NewStubScorer(logger, 0), nil, "stub", nil
	}

	loaded, err := ml.LoadArtifact(cfg.ModelArtifactPath)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to load model artifact: %w", err)
	}
	logger.Info("model artifact loaded",
		"path", cfg.ModelArtifactPath,
		"version", loaded.Version,
	)
	return loaded.Forest, loaded.Scaler, loaded.Version, nil
}

func startConsumer(
	ctx context.Context,
	kafkaCfg pkgkafka.Config,
	topic string,
	evaluator *usecase.EvaluateBatch,
	logger *slog.Logger,
	errCh chan<- error,
) (*pkgkafka.Consumer, error) {
	handler := stream.NewTelemetryHandler(evaluator, logger)
	consumer, err := pkgkafka.NewConsumer(kafkaCfg, topic, handler.Handle, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry consumer: %w", err)
	}

	go func() {
		if err := consumer.Start(ctx); err != nil {
			errCh <- fmt.Errorf("telemetry consumer error: %w", err)
		}
	}()
	return consumer, nil
}

// Ensure *pgxpool.Pool satisfies the repository's DB interface.
var _ postgres.DB = (*pgxpool.Pool)(nil)
