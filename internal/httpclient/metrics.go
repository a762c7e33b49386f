package httpclient

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics instruments the request pipeline. A nil *Metrics is a no-op so the
// client works without telemetry wired up.
type Metrics struct {
	requests  metric.Int64Counter
	refreshes metric.Int64Counter
	retries   metric.Int64Counter
}

// NewMetrics registers the pipeline counters on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("kickoff-client/httpclient")

	requests, err := meter.Int64Counter("client_requests_total",
		metric.WithDescription("Outbound requests by method and status"))
	if err != nil {
		return nil, fmt.Errorf("failed to create requests counter: %w", err)
	}

	refreshes, err := meter.Int64Counter("client_token_refreshes_total",
		metric.WithDescription("Token refresh attempts by outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create refreshes counter: %w", err)
	}

	retries, err := meter.Int64Counter("client_request_retries_total",
		metric.WithDescription("Requests redispatched after a token refresh"))
	if err != nil {
		return nil, fmt.Errorf("failed to create retries counter: %w", err)
	}

	return &Metrics{requests: requests, refreshes: refreshes, retries: retries}, nil
}

func (m *Metrics) recordRequest(ctx context.Context, method string, status int) {
	if m == nil {
		return
	}
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.Int("status", status),
	))
}

func (m *Metrics) recordRefresh(ctx context.Context, ok bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.refreshes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) recordRetry(ctx context.Context) {
	if m == nil {
		return
	}
	m.retries.Add(ctx, 1)
}
