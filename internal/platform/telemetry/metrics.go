package telemetry

import (
	"context"
	"fmt"

	"github.com/weqtian/user_center/internal/apperrors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AuthMetrics counts auth operations by outcome.
// A nil *AuthMetrics records nothing.
type AuthMetrics struct {
	operations metric.Int64Counter
}

// NewAuthMetrics creates the auth instruments on meter.
func NewAuthMetrics(meter metric.Meter) (*AuthMetrics, error) {
	operations, err := meter.Int64Counter("auth.operations",
		metric.WithDescription("Auth operations by name and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.operations counter: %w", err)
	}
	return &AuthMetrics{operations: operations}, nil
}

// Record counts one operation. The outcome is "success" or the kind of err.
func (m *AuthMetrics) Record(ctx context.Context, operation string, err error) {
	if m == nil {
		return
	}
	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", Outcome(err)),
	))
}

// Outcome classifies err for metric attributes.
func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	return apperrors.KindOf(err).String()
}
