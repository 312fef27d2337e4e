package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/mailsift/internal/classifier"
	"github.com/teemow/mailsift/internal/instrumentation"
	"github.com/teemow/mailsift/internal/logging"
	"github.com/teemow/mailsift/internal/mailbox"
)

const tracerName = "github.com/teemow/mailsift/internal/pipeline"

// Fetcher retrieves a message batch from a mailbox.
type Fetcher interface {
	FetchMessages(ctx context.Context, count int64) (*mailbox.FetchResult, error)
}

// FetcherFactory builds a Fetcher scoped to one bearer token. The
// pipeline holds no credentials itself; a fresh fetcher is created per
// retrieve call.
type FetcherFactory func(ctx context.Context, accessToken string) (Fetcher, error)

// Classifier assigns a category to every message in a batch.
type Classifier interface {
	Classify(ctx context.Context, msgs []mailbox.Message, apiKey string) ([]classifier.ClassifiedMessage, error)
}

// Pipeline orchestrates the retrieve and classify operations.
type Pipeline struct {
	newFetcher FetcherFactory
	classifier Classifier
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	tracer     trace.Tracer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New creates a Pipeline from a fetcher factory and a classifier.
func New(newFetcher FetcherFactory, cls Classifier, opts ...Option) *Pipeline {
	p := &Pipeline{
		newFetcher: newFetcher,
		classifier: cls,
		logger:     slog.Default(),
		metrics:    &instrumentation.Metrics{},
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Retrieve fetches up to count messages for the given bearer token. An
// empty token fails before any fetcher is built. The token itself is
// never logged.
func (p *Pipeline) Retrieve(ctx context.Context, accessToken string, count int64) (*mailbox.FetchResult, error) {
	if accessToken == "" {
		return nil, mailbox.ErrMissingToken
	}

	ctx, span := p.tracer.Start(ctx, "pipeline.Retrieve",
		trace.WithAttributes(attribute.Int64("mailbox.count", count)))
	defer span.End()

	start := time.Now()
	logger := p.logger.With(logging.Operation("retrieve"))

	fetcher, err := p.newFetcher(ctx, accessToken)
	if err != nil {
		p.metrics.RecordFetch(ctx, instrumentation.StatusError, 0, 0, time.Since(start))
		logger.Error("failed to create mailbox client", logging.Err(err))
		return nil, err
	}

	result, err := fetcher.FetchMessages(ctx, count)
	duration := time.Since(start)
	if err != nil {
		p.metrics.RecordFetch(ctx, instrumentation.StatusError, 0, 0, duration)
		logger.Error("fetch failed",
			logging.Status(logging.StatusError),
			logging.Duration(duration),
			logging.Err(err),
		)
		return nil, err
	}

	p.metrics.RecordFetch(ctx, instrumentation.StatusSuccess, len(result.Messages), len(result.FailedIDs), duration)
	logger.Info("fetched messages",
		logging.Status(logging.StatusSuccess),
		logging.Count(len(result.Messages)),
		logging.Failed(len(result.FailedIDs)),
		logging.Duration(duration),
	)
	return result, nil
}

// Classify assigns one category per message. The output corresponds
// one-to-one with the input; per-message model failures surface as the
// Unclassified category, never as an error. The API key is never
// logged.
func (p *Pipeline) Classify(ctx context.Context, msgs []mailbox.Message, apiKey string) ([]classifier.ClassifiedMessage, error) {
	if apiKey == "" {
		return nil, classifier.ErrMissingAPIKey
	}

	ctx, span := p.tracer.Start(ctx, "pipeline.Classify",
		trace.WithAttributes(attribute.Int("classify.batch_size", len(msgs))))
	defer span.End()

	start := time.Now()
	logger := p.logger.With(logging.Operation("classify"))

	classified, err := p.classifier.Classify(ctx, msgs, apiKey)
	duration := time.Since(start)
	if err != nil {
		p.metrics.RecordClassifyBatch(ctx, instrumentation.StatusError, duration)
		logger.Error("classification failed",
			logging.Status(logging.StatusError),
			logging.Duration(duration),
			logging.Err(err),
		)
		return nil, err
	}

	unclassified := 0
	for _, cm := range classified {
		p.metrics.RecordClassifiedMessage(ctx, string(cm.Category))
		if cm.Category == classifier.CategoryUnclassified {
			unclassified++
		}
	}

	p.metrics.RecordClassifyBatch(ctx, instrumentation.StatusSuccess, duration)
	logger.Info("classified messages",
		logging.Status(logging.StatusSuccess),
		logging.Count(len(classified)),
		logging.Failed(unclassified),
		logging.Duration(duration),
	)
	return classified, nil
}
