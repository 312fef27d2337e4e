package mailbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gmail "google.golang.org/api/gmail/v1"
)

func TestHeaderValue(t *testing.T) {
	tests := []struct {
		name     string
		msg      *gmail.Message
		header   string
		expected string
	}{
		{
			name: "first match wins",
			msg: &gmail.Message{
				Payload: &gmail.MessagePart{
					Headers: []*gmail.MessagePartHeader{
						{Name: "Subject", Value: "first"},
						{Name: "Subject", Value: "second"},
					},
				},
			},
			header:   "Subject",
			expected: "first",
		},
		{
			name: "case-exact match only",
			msg: &gmail.Message{
				Payload: &gmail.MessagePart{
					Headers: []*gmail.MessagePartHeader{
						{Name: "subject", Value: "lowercase"},
					},
				},
			},
			header:   "Subject",
			expected: "",
		},
		{
			name:     "nil payload",
			msg:      &gmail.Message{},
			header:   "Subject",
			expected: "",
		},
		{
			name:     "nil message",
			msg:      nil,
			header:   "Subject",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, headerValue(tt.msg, tt.header))
		})
	}
}

func TestNewMessage(t *testing.T) {
	detail := &gmail.Message{
		Snippet: "Don't forget the meeting",
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "boss@co.com"},
				{Name: "Subject", Value: "Meeting tomorrow at 9AM"},
				{Name: "Date", Value: "Mon, 1 Sep 2025 09:00:00 +0000"},
			},
		},
	}

	msg := newMessage("m1", detail)

	assert.Equal(t, Message{
		ID:      "m1",
		Subject: "Meeting tomorrow at 9AM",
		From:    "boss@co.com",
		Snippet: "Don't forget the meeting",
	}, msg)
}

func TestNewMessageDefaultsToEmptyFields(t *testing.T) {
	msg := newMessage("m2", &gmail.Message{Payload: &gmail.MessagePart{}})

	assert.Equal(t, "m2", msg.ID)
	assert.Empty(t, msg.Subject)
	assert.Empty(t, msg.From)
	assert.Empty(t, msg.Snippet)
}

func TestClampCount(t *testing.T) {
	tests := []struct {
		name     string
		count    int64
		expected int64
	}{
		{"zero falls back to default", 0, DefaultCount},
		{"negative falls back to default", -5, DefaultCount},
		{"positive passes through", 25, 25},
		{"capped at page limit", 5000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClampCount(tt.count))
		})
	}
}
