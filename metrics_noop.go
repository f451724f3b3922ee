package calendar

import "context"

// NoopMetricsProvider drops every measurement. Used when metrics are disabled.
type NoopMetricsProvider struct{}

// NewNoopMetricsProvider creates a new NoopMetricsProvider instance.
func NewNoopMetricsProvider() *NoopMetricsProvider {
	return &NoopMetricsProvider{}
}

func (n *NoopMetricsProvider) RecordRequest(_ context.Context, _, _, _ string, _ bool) {}

func (n *NoopMetricsProvider) RecordDuration(_ context.Context, _ float64, _, _, _ string) {}

func (n *NoopMetricsProvider) RecordPollAttempt(_ context.Context, _ string) {}

func (n *NoopMetricsProvider) InflightInc(_ context.Context, _, _ string) {}

func (n *NoopMetricsProvider) InflightDec(_ context.Context, _, _ string) {}

// Close returns nil.
func (n *NoopMetricsProvider) Close() error {
	return nil
}
