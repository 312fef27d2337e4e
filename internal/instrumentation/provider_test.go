package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderDisabled(t *testing.T) {
	config := DefaultConfig()
	config.Enabled = false

	provider, err := NewProvider(context.Background(), config)
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	require.NotNil(t, provider.Metrics())

	// The no-op recorder must be safe to use.
	ctx := context.Background()
	provider.Metrics().RecordFetch(ctx, StatusSuccess, 3, 0, time.Second)
	provider.Metrics().RecordClassifyBatch(ctx, StatusError, time.Second)
	provider.Metrics().RecordClassifiedMessage(ctx, "Important")
	provider.Metrics().RecordHTTPRequest(ctx, "GET", "/api/emails", 200, time.Millisecond)
	provider.Metrics().RecordToolInvocation(ctx, "mail_fetch", StatusSuccess)

	assert.NoError(t, provider.Shutdown(ctx))
}

func TestNewProviderUnsupportedMetricsExporter(t *testing.T) {
	config := DefaultConfig()
	config.MetricsExporter = "graphite"

	provider, err := NewProvider(context.Background(), config)

	assert.Nil(t, provider)
	assert.ErrorContains(t, err, "unsupported metrics exporter")
}

func TestNewProviderOTLPRequiresEndpoint(t *testing.T) {
	config := DefaultConfig()
	config.MetricsExporter = ExporterOTLP
	config.OTLPEndpoint = ""

	_, err := NewProvider(context.Background(), config)

	assert.ErrorContains(t, err, "OTLP endpoint is required")
}

func TestProviderTracerNoopWhenDisabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	tracer := provider.Tracer("test")
	_, span := tracer.Start(context.Background(), "op")
	span.End()

	assert.False(t, span.SpanContext().IsValid())
}
