package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/teemow/mailsift/internal/classifier"
	"github.com/teemow/mailsift/internal/instrumentation"
	"github.com/teemow/mailsift/internal/logging"
	"github.com/teemow/mailsift/internal/mailbox"
	"github.com/teemow/mailsift/internal/pipeline"
)

// API serves the JSON endpoints for the retrieve and classify
// operations. Credentials arrive per request and are never stored.
type API struct {
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
	health   *HealthChecker
}

// NewAPI creates the HTTP API around a pipeline.
func NewAPI(p *pipeline.Pipeline, logger *slog.Logger, metrics *instrumentation.Metrics, health *HealthChecker) *API {
	return &API{
		pipeline: p,
		logger:   logger,
		metrics:  metrics,
		health:   health,
	}
}

// Routes returns the handler for all API endpoints, with health probes
// mounted alongside and observability middleware applied to the API
// paths.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /api/emails", withObservability(http.HandlerFunc(a.handleFetch), a.logger, a.metrics))
	mux.Handle("POST /api/emails/classify", withObservability(http.HandlerFunc(a.handleClassify), a.logger, a.metrics))
	mux.Handle("GET /healthz", a.health.LivenessHandler())
	mux.Handle("GET /readyz", a.health.ReadinessHandler())
	return mux
}

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// classifyRequest is the body of POST /api/emails/classify. The API key
// may alternatively arrive in the X-Api-Key header.
type classifyRequest struct {
	Emails []mailbox.Message `json:"emails"`
	APIKey string            `json:"apiKey"`
}

type classifyResponse struct {
	ClassifiedEmails []classifier.ClassifiedMessage `json:"classifiedEmails"`
}

// handleFetch serves GET /api/emails. The bearer token comes from the
// Authorization header and the batch size from the count query
// parameter (maxResults is accepted as an alias).
func (a *API) handleFetch(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	count := countParam(r)

	result, err := a.pipeline.Retrieve(r.Context(), token, count)
	if err != nil {
		a.writeFetchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleClassify serves POST /api/emails/classify.
func (a *API) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = r.Header.Get("X-Api-Key")
	}

	classified, err := a.pipeline.Classify(r.Context(), req.Emails, apiKey)
	if err != nil {
		if errors.Is(err, classifier.ErrMissingAPIKey) {
			writeError(w, http.StatusBadRequest, "Missing Gemini API key")
			return
		}
		a.logger.Error("classify request failed", logging.Err(err))
		writeError(w, http.StatusBadGateway, "Failed to classify emails")
		return
	}

	writeJSON(w, http.StatusOK, classifyResponse{ClassifiedEmails: classified})
}

func (a *API) writeFetchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mailbox.ErrMissingToken), errors.Is(err, mailbox.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		a.logger.Error("fetch request failed", logging.Err(err))
		writeError(w, http.StatusBadGateway, "Failed to fetch emails")
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <x>"
// header. Missing or malformed headers yield the empty string, which
// the pipeline rejects.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// countParam reads the batch size from the count query parameter, with
// maxResults as an alias. Invalid or absent values fall back to the
// default, and the mailbox client clamps the range.
func countParam(r *http.Request) int64 {
	raw := r.URL.Query().Get("count")
	if raw == "" {
		raw = r.URL.Query().Get("maxResults")
	}
	if raw == "" {
		return mailbox.DefaultCount
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return mailbox.DefaultCount
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Status: status})
}
