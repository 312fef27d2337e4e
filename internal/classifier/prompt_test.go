package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/mailsift/internal/mailbox"
)

func TestBuildPromptIsDeterministic(t *testing.T) {
	msg := mailbox.Message{
		ID:      "m1",
		Subject: "Meeting tomorrow at 9AM",
		From:    "boss@co.com",
		Snippet: "agenda attached",
	}

	first := BuildPrompt(msg)
	second := BuildPrompt(msg)

	assert.Equal(t, first, second)
}

func TestBuildPromptContainsAllLabelsAndMessageFields(t *testing.T) {
	msg := mailbox.Message{
		Subject: "Quarterly report",
		From:    "finance@co.com",
		Snippet: "see attachment",
	}

	prompt := BuildPrompt(msg)

	for _, c := range Categories() {
		assert.Contains(t, prompt, string(c))
	}
	assert.Contains(t, prompt, "Subject: Quarterly report")
	assert.Contains(t, prompt, "From: finance@co.com")
	assert.Contains(t, prompt, "Snippet: see attachment")
	assert.Contains(t, prompt, "Answer with only one word from the list.")
	assert.Contains(t, prompt, `"50% OFF on shoes"`)
}

func TestBuildPromptEmptyFields(t *testing.T) {
	prompt := BuildPrompt(mailbox.Message{ID: "m1"})

	assert.True(t, strings.Contains(prompt, "Subject: \n"))
	assert.True(t, strings.Contains(prompt, "From: \n"))
	assert.True(t, strings.HasSuffix(prompt, "Answer with only one word from the list."))
}
