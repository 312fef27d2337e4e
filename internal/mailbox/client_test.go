package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// fakeGmail serves the two read-only Gmail endpoints the client uses.
type fakeGmail struct {
	t         *testing.T
	ids       []string
	details   map[string]*gmail.Message
	failIDs   map[string]bool
	calls     atomic.Int64
	listCalls atomic.Int64
}

func (f *fakeGmail) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)

		switch {
		case strings.HasSuffix(r.URL.Path, "/users/me/messages"):
			f.listCalls.Add(1)
			list := &gmail.ListMessagesResponse{}
			for _, id := range f.ids {
				list.Messages = append(list.Messages, &gmail.Message{Id: id})
			}
			writeJSON(f.t, w, list)

		default:
			id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
			if f.failIDs[id] {
				http.Error(w, `{"error":{"code":500,"message":"backend error"}}`, http.StatusInternalServerError)
				return
			}
			detail, ok := f.details[id]
			if !ok {
				http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
				return
			}
			// Stagger responses so completion order differs from list order.
			if len(f.ids) > 0 && id == f.ids[0] {
				time.Sleep(20 * time.Millisecond)
			}
			writeJSON(f.t, w, detail)
		}
	})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func detailFor(id, subject, from, snippet string) *gmail.Message {
	return &gmail.Message{
		Id:      id,
		Snippet: snippet,
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: subject},
				{Name: "From", Value: from},
			},
		},
	}
}

func newTestClient(t *testing.T, fake *fakeGmail) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(fake.handler())
	t.Cleanup(ts.Close)

	client, err := NewClient(context.Background(), "test-token", option.WithEndpoint(ts.URL))
	require.NoError(t, err)
	return client, ts
}

func TestNewClientMissingTokenFailsWithoutNetworkCall(t *testing.T) {
	fake := &fakeGmail{t: t}
	ts := httptest.NewServer(fake.handler())
	defer ts.Close()

	client, err := NewClient(context.Background(), "", option.WithEndpoint(ts.URL))

	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.Equal(t, int64(0), fake.calls.Load())
}

func TestFetchMessagesPreservesListOrder(t *testing.T) {
	fake := &fakeGmail{
		t:   t,
		ids: []string{"m1", "m2", "m3"},
		details: map[string]*gmail.Message{
			"m1": detailFor("m1", "Meeting tomorrow at 9AM", "boss@co.com", "agenda attached"),
			"m2": detailFor("m2", "50% OFF on shoes", "deals@shop.example", "limited time"),
			"m3": detailFor("m3", "", "", ""),
		},
	}
	client, _ := newTestClient(t, fake)

	result, err := client.FetchMessages(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, result.Messages, 3)
	assert.Equal(t, []string{"m1", "m2", "m3"}, []string{
		result.Messages[0].ID, result.Messages[1].ID, result.Messages[2].ID,
	})
	assert.Equal(t, "Meeting tomorrow at 9AM", result.Messages[0].Subject)
	assert.Equal(t, "boss@co.com", result.Messages[0].From)
	assert.Empty(t, result.Messages[2].Subject)
	assert.Empty(t, result.FailedIDs)
}

func TestFetchMessagesIsolatesDetailFailures(t *testing.T) {
	fake := &fakeGmail{
		t:   t,
		ids: []string{"m1", "m2", "m3"},
		details: map[string]*gmail.Message{
			"m1": detailFor("m1", "a", "a@example.com", ""),
			"m3": detailFor("m3", "c", "c@example.com", ""),
		},
		failIDs: map[string]bool{"m2": true},
	}
	client, _ := newTestClient(t, fake)

	result, err := client.FetchMessages(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, result.Messages, 2)
	assert.Equal(t, "m1", result.Messages[0].ID)
	assert.Equal(t, "m3", result.Messages[1].ID)
	assert.Equal(t, []string{"m2"}, result.FailedIDs)
}

func TestFetchMessagesFailsWhenAllDetailsFail(t *testing.T) {
	fake := &fakeGmail{
		t:       t,
		ids:     []string{"m1", "m2"},
		failIDs: map[string]bool{"m1": true, "m2": true},
	}
	client, _ := newTestClient(t, fake)

	result, err := client.FetchMessages(context.Background(), 2)

	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestFetchMessagesListFailureFailsBatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":500,"message":"backend error"}}`, http.StatusInternalServerError)
	}))
	defer ts.Close()

	client, err := NewClient(context.Background(), "test-token", option.WithEndpoint(ts.URL))
	require.NoError(t, err)

	result, err := client.FetchMessages(context.Background(), 3)

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestFetchMessagesRejectedTokenMapsToUnauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":401,"message":"Invalid Credentials"}}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	client, err := NewClient(context.Background(), "expired-token", option.WithEndpoint(ts.URL))
	require.NoError(t, err)

	_, err = client.FetchMessages(context.Background(), 3)

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFetchMessagesEmptyMailbox(t *testing.T) {
	fake := &fakeGmail{t: t}
	client, _ := newTestClient(t, fake)

	result, err := client.FetchMessages(context.Background(), 10)
	require.NoError(t, err)

	assert.Empty(t, result.Messages)
	assert.Empty(t, result.FailedIDs)
	assert.Equal(t, int64(1), fake.calls.Load())
}

func TestFetchMessagesIssuesOneDetailCallPerID(t *testing.T) {
	ids := make([]string, 25)
	details := make(map[string]*gmail.Message, len(ids))
	for i := range ids {
		id := fmt.Sprintf("m%02d", i)
		ids[i] = id
		details[id] = detailFor(id, "subject", "sender@example.com", "")
	}
	fake := &fakeGmail{t: t, ids: ids, details: details}
	client, _ := newTestClient(t, fake)

	result, err := client.FetchMessages(context.Background(), 25)
	require.NoError(t, err)

	assert.Len(t, result.Messages, 25)
	assert.Equal(t, int64(1), fake.listCalls.Load())
	assert.Equal(t, int64(26), fake.calls.Load())
}
