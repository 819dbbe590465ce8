package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/aws"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/backend"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/config"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/logging"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/metrics"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.CheckoutsTable == "" {
		log.Fatalf("CHECKOUTS_TABLE is required for the worker")
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		logger.Fatal("failed to init aws clients", zap.Error(err))
	}

	p := NewProcessor(
		orders.NewStore(clients.DynamoDB, cfg.CheckoutsTable),
		backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, logger),
		metrics.NewCloudWatch(clients.CloudWatch, cfg.MetricsNamespace),
		logger,
	)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if cfg.RunLocal {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"order_id":"local-order-1","payment_id":"local-payment-1"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{{MessageId: "local-1", Body: testBody}},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			logger.Fatal("local handler error", zap.Error(err))
		}
		return
	}

	lambda.Start(p.Handle)
}
