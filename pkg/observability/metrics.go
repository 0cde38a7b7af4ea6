package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome labels recorded on auth counters
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// PrometheusHandler returns a Gin handler for Prometheus metrics
func PrometheusHandler(handler http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if handler != nil {
			handler.ServeHTTP(c.Writer, c.Request)
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "metrics handler not initialized",
			})
		}
	}
}

// AuthMetrics counts authentication flows by outcome
type AuthMetrics struct {
	signUps    metric.Int64Counter
	signIns    metric.Int64Counter
	logouts    metric.Int64Counter
	recoveries metric.Int64Counter
	resets     metric.Int64Counter
}

// NewAuthMetrics registers the auth counters on meter
func NewAuthMetrics(meter metric.Meter) (*AuthMetrics, error) {
	var (
		m   AuthMetrics
		err error
	)

	counters := []struct {
		target *metric.Int64Counter
		name   string
		desc   string
	}{
		{&m.signUps, "auth.sign_ups", "Sign-up attempts"},
		{&m.signIns, "auth.sign_ins", "Sign-in attempts"},
		{&m.logouts, "auth.logouts", "Logout requests"},
		{&m.recoveries, "auth.recovery_requests", "Password recovery requests"},
		{&m.resets, "auth.password_resets", "Password reset attempts"},
	}

	for _, c := range counters {
		*c.target, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("failed to create counter %s: %w", c.name, err)
		}
	}

	return &m, nil
}

func (m *AuthMetrics) SignUp(ctx context.Context, outcome string) {
	m.signUps.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *AuthMetrics) SignIn(ctx context.Context, outcome string) {
	m.signIns.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *AuthMetrics) Logout(ctx context.Context, outcome string) {
	m.logouts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *AuthMetrics) RecoveryRequest(ctx context.Context, outcome string) {
	m.recoveries.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *AuthMetrics) PasswordReset(ctx context.Context, outcome string) {
	m.resets.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
