package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/aws"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/backend"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/checkout"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/config"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/dashboard"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/handlers"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/idempotency"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/logging"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/metrics"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/session"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/validation"
)

func setupRouter(logger *zap.Logger, deps handlers.Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.Middleware(logger))

	handlers.RegisterRoutes(r, deps)

	return r
}

// buildDeps wires the collaborators. AWS-backed features are enabled only
// when their table or queue is configured.
func buildDeps(ctx context.Context, cfg *config.Config, logger *zap.Logger) (handlers.Deps, *session.Manager, error) {
	client := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, logger)

	clients, err := aws.NewAWSClients(ctx)
	if err != nil {
		return handlers.Deps{}, nil, err
	}

	var tables session.TableRepository
	if cfg.SessionsTable != "" {
		tables = session.NewTableStore(clients.DynamoDB, cfg.SessionsTable, cfg.SessionTTL)
	}
	sessions := session.NewManager(tables, logger)

	opts := []checkout.Option{
		checkout.WithMetrics(metrics.NewCloudWatch(clients.CloudWatch, cfg.MetricsNamespace)),
	}
	if cfg.CheckoutsTable != "" {
		opts = append(opts, checkout.WithRecorder(orders.NewStore(clients.DynamoDB, cfg.CheckoutsTable)))
	}

	deps := handlers.Deps{
		Logger:    logger,
		Validate:  validation.New(),
		Catalog:   client,
		Sessions:  sessions,
		Payments:  client,
		Auth:      client,
		Dashboard: dashboard.NewService(client, logger),
	}
	if cfg.IdempotencyTable != "" {
		deps.Idempotency = idempotency.NewStore(clients.DynamoDB, cfg.IdempotencyTable, cfg.IdempotencyTTL)
	}
	if cfg.PaymentsQueueURL != "" {
		deps.Notifications = aws.NewPublisher(clients.SQS, cfg.PaymentsQueueURL)
	}
	if cfg.CheckoutEventsQueueURL != "" {
		opts = append(opts, checkout.WithPublisher(aws.NewPublisher(clients.SQS, cfg.CheckoutEventsQueueURL)))
	}
	deps.Checkout = checkout.NewService(client, client, logger, opts...)

	return deps, sessions, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	deps, sessions, err := buildDeps(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to init dependencies", zap.Error(err))
	}

	r := setupRouter(logger, deps)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.RunLocal {
		go sweepSessions(sessions, cfg.SessionTTL, logger)
		logger.Info("running local server", zap.String("addr", cfg.Addr()))
		if err := r.Run(cfg.Addr()); err != nil {
			logger.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		// the adapter handles proxying; use adapter.ProxyWithContext for proper context propagation
		return adapter.ProxyWithContext(ctx, req)
	})
}

// sweepSessions drops idle in-memory sessions of the long-running local server.
func sweepSessions(m *session.Manager, maxIdle time.Duration, logger *zap.Logger) {
	if maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(maxIdle / 4)
	defer ticker.Stop()
	for range ticker.C {
		if n := m.Sweep(maxIdle); n > 0 {
			logger.Info("idle sessions swept", zap.Int("removed", n), zap.Int("live", m.Len()))
		}
	}
}
