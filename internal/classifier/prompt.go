package classifier

import (
	"fmt"

	"github.com/teemow/mailsift/internal/mailbox"
)

// promptTemplate is the fixed classification instruction. It must not
// vary between calls so repeated runs over the same mailbox stay
// comparable.
const promptTemplate = `Classify this email into one of these: Important, Promotions, Social, Marketing, Spam, General.

Examples:
- "Meeting tomorrow at 9AM" → Important
- "50%% OFF on shoes" → Promotions
- "You have a new Instagram follower" → Social
- "Our monthly product newsletter" → Marketing
- "Claim your free gift" → Spam

Email:
Subject: %s
From: %s
Snippet: %s

Answer with only one word from the list.`

// BuildPrompt renders the classification instruction for one message.
func BuildPrompt(msg mailbox.Message) string {
	return fmt.Sprintf(promptTemplate, msg.Subject, msg.From, msg.Snippet)
}
