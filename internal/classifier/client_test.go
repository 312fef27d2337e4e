package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/mailsift/internal/mailbox"
)

// fakeModel answers generateContent calls with a canned label keyed by
// the subject found in the prompt.
type fakeModel struct {
	t        *testing.T
	answers  map[string]string // subject -> raw model answer
	failFor  map[string]bool   // subject -> respond 500
	malform  map[string]bool   // subject -> respond non-JSON
	calls    atomic.Int64
	lastKeys chan string
}

func newFakeModel(t *testing.T) *fakeModel {
	return &fakeModel{
		t:        t,
		answers:  map[string]string{},
		failFor:  map[string]bool{},
		malform:  map[string]bool{},
		lastKeys: make(chan string, 64),
	}
}

func (f *fakeModel) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		f.lastKeys <- r.Header.Get("x-goog-api-key")

		var req generateRequest
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(f.t, req.Contents, 1)
		require.Len(f.t, req.Contents[0].Parts, 1)

		prompt := req.Contents[0].Parts[0].Text
		subject := subjectFromPrompt(prompt)

		switch {
		case f.failFor[subject]:
			http.Error(w, "internal error", http.StatusInternalServerError)
		case f.malform[subject]:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not json"))
		default:
			answer := f.answers[subject]
			writeModelAnswer(f.t, w, answer)
		}
	})
}

func subjectFromPrompt(prompt string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if rest, ok := strings.CutPrefix(line, "Subject: "); ok {
			return rest
		}
	}
	return ""
}

func writeModelAnswer(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()
	res := generateResponse{
		Candidates: []candidate{{Content: content{Parts: []part{{Text: text}}}}},
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(res))
}

func newTestClient(t *testing.T, fake *fakeModel) *Client {
	t.Helper()
	ts := httptest.NewServer(fake.handler())
	t.Cleanup(ts.Close)
	return NewClient(WithBaseURL(ts.URL))
}

func msgWithSubject(id, subject string) mailbox.Message {
	return mailbox.Message{ID: id, Subject: subject, From: "sender@example.com"}
}

func TestClassifyMissingKeyFailsWithoutModelCall(t *testing.T) {
	fake := newFakeModel(t)
	client := newTestClient(t, fake)

	result, err := client.Classify(context.Background(), []mailbox.Message{msgWithSubject("m1", "hello")}, "")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Equal(t, int64(0), fake.calls.Load())
}

func TestClassifyAssignsNormalizedLabels(t *testing.T) {
	fake := newFakeModel(t)
	fake.answers["Meeting tomorrow at 9AM"] = "Important"
	fake.answers["50% OFF on shoes"] = "  promotions!!"
	fake.answers["Weekly digest"] = "I think this is spam-like"
	client := newTestClient(t, fake)

	msgs := []mailbox.Message{
		msgWithSubject("m1", "Meeting tomorrow at 9AM"),
		msgWithSubject("m2", "50% OFF on shoes"),
		msgWithSubject("m3", "Weekly digest"),
	}

	result, err := client.Classify(context.Background(), msgs, "test-key")
	require.NoError(t, err)

	require.Len(t, result, len(msgs))
	assert.Equal(t, CategoryImportant, result[0].Category)
	assert.Equal(t, CategoryPromotions, result[1].Category)
	assert.Equal(t, CategoryGeneral, result[2].Category)
	for i := range msgs {
		assert.Equal(t, msgs[i], result[i].Message, "output must be index-aligned with input")
	}
}

func TestClassifyIsolatesFailures(t *testing.T) {
	fake := newFakeModel(t)
	fake.answers["ok one"] = "Social"
	fake.failFor["broken transport"] = true
	fake.malform["broken body"] = true
	fake.answers["ok two"] = "Spam"
	client := newTestClient(t, fake)

	msgs := []mailbox.Message{
		msgWithSubject("m1", "ok one"),
		msgWithSubject("m2", "broken transport"),
		msgWithSubject("m3", "broken body"),
		msgWithSubject("m4", "ok two"),
	}

	result, err := client.Classify(context.Background(), msgs, "test-key")
	require.NoError(t, err)

	require.Len(t, result, 4)
	assert.Equal(t, CategorySocial, result[0].Category)
	assert.Equal(t, CategoryUnclassified, result[1].Category)
	assert.Equal(t, CategoryUnclassified, result[2].Category)
	assert.Equal(t, CategorySpam, result[3].Category)
}

func TestClassifyEmptyCandidateDefaultsToGeneral(t *testing.T) {
	fake := newFakeModel(t)
	client := newTestClient(t, fake)

	// The fake returns an empty answer for unknown subjects, which is a
	// successful call and must normalize to General, not Unclassified.
	result, err := client.Classify(context.Background(), []mailbox.Message{msgWithSubject("m1", "no answer")}, "test-key")
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, CategoryGeneral, result[0].Category)
}

func TestClassifyNoCandidatesDefaultsToGeneral(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer ts.Close()
	client := NewClient(WithBaseURL(ts.URL))

	result, err := client.Classify(context.Background(), []mailbox.Message{msgWithSubject("m1", "x")}, "test-key")
	require.NoError(t, err)

	assert.Equal(t, CategoryGeneral, result[0].Category)
}

func TestClassifySendsKeyInHeader(t *testing.T) {
	fake := newFakeModel(t)
	fake.answers["x"] = "General"
	client := newTestClient(t, fake)

	_, err := client.Classify(context.Background(), []mailbox.Message{msgWithSubject("m1", "x")}, "secret-key")
	require.NoError(t, err)

	assert.Equal(t, "secret-key", <-fake.lastKeys)
}

func TestClassifyOneCallPerMessage(t *testing.T) {
	fake := newFakeModel(t)
	client := newTestClient(t, fake)

	msgs := make([]mailbox.Message, 30)
	for i := range msgs {
		msgs[i] = msgWithSubject("id", "unknown subject")
	}

	result, err := client.Classify(context.Background(), msgs, "test-key")
	require.NoError(t, err)

	assert.Len(t, result, 30)
	assert.Equal(t, int64(30), fake.calls.Load())
}

func TestClassifyEmptyBatch(t *testing.T) {
	fake := newFakeModel(t)
	client := newTestClient(t, fake)

	result, err := client.Classify(context.Background(), nil, "test-key")
	require.NoError(t, err)

	assert.Empty(t, result)
	assert.Equal(t, int64(0), fake.calls.Load())
}
