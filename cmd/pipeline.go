package cmd

import (
	"context"
	"log/slog"

	"github.com/teemow/mailsift/internal/classifier"
	"github.com/teemow/mailsift/internal/instrumentation"
	"github.com/teemow/mailsift/internal/mailbox"
	"github.com/teemow/mailsift/internal/pipeline"
)

// buildPipeline wires the Gmail fetcher and the Gemini classifier into
// a pipeline. Every command shares this construction.
func buildPipeline(logger *slog.Logger, metrics *instrumentation.Metrics) *pipeline.Pipeline {
	factory := func(ctx context.Context, accessToken string) (pipeline.Fetcher, error) {
		client, err := mailbox.NewClient(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	return pipeline.New(factory, classifier.NewClient(),
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(metrics),
	)
}
