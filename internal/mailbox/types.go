package mailbox

import (
	gmail "google.golang.org/api/gmail/v1"
)

// Message is one mailbox entry reduced to the fields the rest of the
// pipeline needs. All fields except ID may be empty.
type Message struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	From    string `json:"from"`
	Snippet string `json:"snippet"`
}

// FetchResult holds the outcome of one fetch batch. Messages preserves
// the order of the list call; FailedIDs lists the ids whose detail
// fetch errored.
type FetchResult struct {
	Messages  []Message `json:"emails"`
	FailedIDs []string  `json:"failedIds,omitempty"`
}

// newMessage reduces a Gmail detail record to a Message. Headers that
// are absent default to the empty string.
func newMessage(id string, detail *gmail.Message) Message {
	return Message{
		ID:      id,
		Subject: headerValue(detail, "Subject"),
		From:    headerValue(detail, "From"),
		Snippet: detail.Snippet,
	}
}

// headerValue returns the value of the first header with a case-exact
// name match, or "" when the header is missing.
func headerValue(m *gmail.Message, name string) string {
	if m == nil || m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}
