package mailbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// DefaultCount is the batch size used when the caller does not ask
	// for a specific number of messages.
	DefaultCount = 10

	// maxCount matches the Gmail API page size limit.
	maxCount = 100

	// maxInFlight bounds concurrent detail fetches so a large batch
	// does not trip upstream rate limits.
	maxInFlight = 10
)

var (
	// ErrMissingToken is returned before any network call when the
	// bearer token is empty.
	ErrMissingToken = errors.New("missing mailbox credential")

	// ErrUnauthorized is returned when Gmail rejects the bearer token.
	ErrUnauthorized = errors.New("mailbox credential rejected")
)

// Client wraps the Gmail Users service for a single bearer token.
type Client struct {
	svc *gmail.UsersService
}

// NewClient creates a Gmail client authenticated with the given bearer
// token. The token is opaque: it is never parsed, logged, or persisted.
// Additional options may override the API endpoint (used by tests).
func NewClient(ctx context.Context, accessToken string, opts ...option.ClientOption) (*Client, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})

	svc, err := gmail.NewService(ctx, append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{svc: svc.Users}, nil
}

// ClampCount normalizes a requested batch size: non-positive values
// fall back to DefaultCount, values above the Gmail page limit are
// capped at 100.
func ClampCount(count int64) int64 {
	if count <= 0 {
		return DefaultCount
	}
	if count > maxCount {
		return maxCount
	}
	return count
}

// FetchMessages lists up to count message ids and fetches every detail
// record concurrently. The returned messages preserve list order
// regardless of detail completion order. Individual detail failures do
// not fail the batch; their ids are collected in FetchResult.FailedIDs.
// Only a failed list call, or a batch where no detail succeeded, fails
// the whole operation.
func (c *Client) FetchMessages(ctx context.Context, count int64) (*FetchResult, error) {
	count = ClampCount(count)

	list, err := c.svc.Messages.List("me").MaxResults(count).Context(ctx).Do()
	if err != nil {
		return nil, wrapUpstream("failed to list messages", err)
	}

	ids := make([]string, 0, len(list.Messages))
	for _, m := range list.Messages {
		if m.Id == "" {
			continue
		}
		ids = append(ids, m.Id)
	}
	if len(ids) == 0 {
		return &FetchResult{Messages: []Message{}}, nil
	}

	type outcome struct {
		msg Message
		err error
	}
	outcomes := make([]outcome, len(ids))

	var g errgroup.Group
	g.SetLimit(maxInFlight)
	for i, id := range ids {
		g.Go(func() error {
			detail, err := c.svc.Messages.Get("me", id).Context(ctx).Do()
			if err != nil {
				outcomes[i] = outcome{err: err}
				return nil
			}
			outcomes[i] = outcome{msg: newMessage(id, detail)}
			return nil
		})
	}
	_ = g.Wait()

	result := &FetchResult{Messages: make([]Message, 0, len(ids))}
	for i, o := range outcomes {
		if o.err != nil {
			result.FailedIDs = append(result.FailedIDs, ids[i])
			continue
		}
		result.Messages = append(result.Messages, o.msg)
	}

	if len(result.Messages) == 0 {
		return nil, wrapUpstream(fmt.Sprintf("all %d message detail fetches failed", len(ids)), outcomes[0].err)
	}

	return result, nil
}

// wrapUpstream tags Gmail errors so callers can map a rejected
// credential to an Unauthorized response via errors.Is.
func wrapUpstream(msg string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w: %v", msg, ErrUnauthorized, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
