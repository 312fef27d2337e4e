package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrMethod   = "method"
	attrPath     = "path"
	attrStatus   = "status"
	attrCategory = "category"
	attrTool     = "tool"
)

// Status values for metric labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics provides methods for recording observability metrics. The
// zero value is a no-op recorder, used when instrumentation is
// disabled.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Mailbox fetch metrics
	fetchTotal       metric.Int64Counter
	fetchDuration    metric.Float64Histogram
	messagesFetched  metric.Int64Counter
	detailFetchFails metric.Int64Counter

	// Classification metrics
	classifyBatchesTotal metric.Int64Counter
	classifyDuration     metric.Float64Histogram
	messagesClassified   metric.Int64Counter

	// MCP tool metrics
	toolInvocationsTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all instruments
// initialized on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.fetchTotal, err = meter.Int64Counter(
		"mailbox_fetch_total",
		metric.WithDescription("Total number of mailbox fetch operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailbox_fetch_total counter: %w", err)
	}

	m.fetchDuration, err = meter.Float64Histogram(
		"mailbox_fetch_duration_seconds",
		metric.WithDescription("Mailbox fetch duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailbox_fetch_duration_seconds histogram: %w", err)
	}

	m.messagesFetched, err = meter.Int64Counter(
		"mailbox_messages_fetched_total",
		metric.WithDescription("Total number of messages fetched from the mailbox"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailbox_messages_fetched_total counter: %w", err)
	}

	m.detailFetchFails, err = meter.Int64Counter(
		"mailbox_detail_fetch_failures_total",
		metric.WithDescription("Total number of per-message detail fetches that failed"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailbox_detail_fetch_failures_total counter: %w", err)
	}

	m.classifyBatchesTotal, err = meter.Int64Counter(
		"classification_batches_total",
		metric.WithDescription("Total number of classification batches"),
		metric.WithUnit("{batch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create classification_batches_total counter: %w", err)
	}

	m.classifyDuration, err = meter.Float64Histogram(
		"classification_duration_seconds",
		metric.WithDescription("Classification batch duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create classification_duration_seconds histogram: %w", err)
	}

	m.messagesClassified, err = meter.Int64Counter(
		"classification_messages_total",
		metric.WithDescription("Total number of messages classified, by category"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create classification_messages_total counter: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records one HTTP request against the API surface.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordFetch records one mailbox fetch operation.
func (m *Metrics) RecordFetch(ctx context.Context, status string, fetched, failed int, duration time.Duration) {
	if m.fetchTotal == nil {
		return
	}
	statusAttr := metric.WithAttributes(attribute.String(attrStatus, status))
	m.fetchTotal.Add(ctx, 1, statusAttr)
	m.fetchDuration.Record(ctx, duration.Seconds(), statusAttr)
	if fetched > 0 {
		m.messagesFetched.Add(ctx, int64(fetched))
	}
	if failed > 0 {
		m.detailFetchFails.Add(ctx, int64(failed))
	}
}

// RecordClassifyBatch records one classification batch.
func (m *Metrics) RecordClassifyBatch(ctx context.Context, status string, duration time.Duration) {
	if m.classifyBatchesTotal == nil {
		return
	}
	statusAttr := metric.WithAttributes(attribute.String(attrStatus, status))
	m.classifyBatchesTotal.Add(ctx, 1, statusAttr)
	m.classifyDuration.Record(ctx, duration.Seconds(), statusAttr)
}

// RecordClassifiedMessage counts one classified message by category.
// The category label is bounded by the seven-value taxonomy, so
// cardinality stays fixed.
func (m *Metrics) RecordClassifiedMessage(ctx context.Context, category string) {
	if m.messagesClassified == nil {
		return
	}
	m.messagesClassified.Add(ctx, 1, metric.WithAttributes(attribute.String(attrCategory, category)))
}

// RecordToolInvocation records one MCP tool invocation.
func (m *Metrics) RecordToolInvocation(ctx context.Context, tool, status string) {
	if m.toolInvocationsTotal == nil {
		return
	}
	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrTool, tool),
		attribute.String(attrStatus, status),
	))
}
