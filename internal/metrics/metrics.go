package metrics

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/aws"
)

// Metric names published under the configured namespace.
const (
	MetricCheckoutSucceeded = "CheckoutSucceeded"
	MetricCheckoutFailed    = "CheckoutFailed"
	MetricOrderValue        = "OrderValue"
	MetricPaymentConfirmed  = "PaymentConfirmed"
	MetricPaymentDeclined   = "PaymentDeclined"
)

// CloudWatch publishes checkout outcomes as custom metrics.
type CloudWatch struct {
	client    aws.CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

func NewCloudWatch(client aws.CloudWatchAPI, namespace string) *CloudWatch {
	return &CloudWatch{client: client, namespace: namespace, nowFunc: time.Now}
}

// CheckoutSucceeded counts one successful checkout and records the order value.
func (m *CloudWatch) CheckoutSucceeded(ctx context.Context, method string, total decimal.Decimal) error {
	now := m.nowFunc()
	dims := []cwtypes.Dimension{{Name: sdkaws.String("ConsumptionMethod"), Value: sdkaws.String(method)}}
	value, _ := total.Float64()
	return m.put(ctx,
		cwtypes.MetricDatum{
			MetricName: sdkaws.String(MetricCheckoutSucceeded),
			Dimensions: dims,
			Timestamp:  &now,
			Unit:       cwtypes.StandardUnitCount,
			Value:      sdkaws.Float64(1),
		},
		cwtypes.MetricDatum{
			MetricName: sdkaws.String(MetricOrderValue),
			Dimensions: dims,
			Timestamp:  &now,
			Unit:       cwtypes.StandardUnitNone,
			Value:      sdkaws.Float64(value),
		},
	)
}

// CheckoutFailed counts one failed checkout at stage (validation,
// create_order or payment).
func (m *CloudWatch) CheckoutFailed(ctx context.Context, stage string) error {
	return m.count(ctx, MetricCheckoutFailed, "Stage", stage)
}

// PaymentResolved counts a payment that reached a final state.
func (m *CloudWatch) PaymentResolved(ctx context.Context, confirmed bool) error {
	name := MetricPaymentDeclined
	if confirmed {
		name = MetricPaymentConfirmed
	}
	return m.count(ctx, name, "", "")
}

func (m *CloudWatch) count(ctx context.Context, name, dimName, dimValue string) error {
	now := m.nowFunc()
	d := cwtypes.MetricDatum{
		MetricName: sdkaws.String(name),
		Timestamp:  &now,
		Unit:       cwtypes.StandardUnitCount,
		Value:      sdkaws.Float64(1),
	}
	if dimName != "" {
		d.Dimensions = []cwtypes.Dimension{{Name: sdkaws.String(dimName), Value: sdkaws.String(dimValue)}}
	}
	return m.put(ctx, d)
}

func (m *CloudWatch) put(ctx context.Context, data ...cwtypes.MetricDatum) error {
	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  sdkaws.String(m.namespace),
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
