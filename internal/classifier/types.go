package classifier

import (
	"net/http"
	"time"

	"github.com/teemow/mailsift/internal/mailbox"
)

// ClassifiedMessage couples a fetched message with its assigned
// category. The embedded message is carried through unchanged so the
// output corresponds one-to-one with the input.
type ClassifiedMessage struct {
	mailbox.Message
	Category Category `json:"category"`
}

// defaultHTTPClient is a configured HTTP client with proper timeouts.
// The 30s timeout bounds every model call so one stalled request cannot
// block a whole batch indefinitely.
var defaultHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

// Wire types for the generateContent endpoint.

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int64   `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}
