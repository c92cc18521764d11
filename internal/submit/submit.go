// Package submit delivers transformed record collections to the destination
// backend. The HTTP client is injected and the bearer credential is always
// supplied by the caller; the submitter never fetches or stores credentials
// itself.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/glucolog/importd/internal/records"
)

// SystemVersion is stamped into every import's metadata.
const SystemVersion = "1.0"

// maxErrorBody bounds how much of an error response body is read for the
// failure message.
const maxErrorBody = 64 * 1024

// ErrMissingCredential is returned when no bearer token was supplied. No
// network call is made in that case.
var ErrMissingCredential = errors.New("no credential supplied for submission")

// SubmissionError reports a failed delivery attempt: either a transport
// failure or a non-success response from the backend. The message prefers
// what the server reported over the transport-level error.
type SubmissionError struct {
	StatusCode int // zero for transport-level failures
	Message    string
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("submission failed (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("submission failed: %s", e.Message)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Doer is the injected HTTP collaborator. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ImportMeta describes one import run inside the wire payload.
type ImportMeta struct {
	ImportID      string             `json:"importId"`
	ImportedAt    string             `json:"importedAt"`
	SystemVersion string             `json:"systemVersion"`
	ImportType    records.ImportType `json:"importType"`
}

// Payload is the submission request body.
type Payload struct {
	Data       []any      `json:"data"`
	ImportMeta ImportMeta `json:"importMeta"`
}

// ServerResponse is the backend's reply to a submission.
type ServerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Submitter wraps record collections with import metadata and delivers them.
type Submitter struct {
	client Doer
}

// New creates a Submitter using the given HTTP collaborator. A nil client
// falls back to http.DefaultClient.
func New(client Doer) *Submitter {
	if client == nil {
		client = http.DefaultClient
	}
	return &Submitter{client: client}
}

// Submit wraps recs with import metadata and posts them to endpoint using
// the caller's bearer token. importID correlates deliveries belonging to one
// import run; pass "" to have one generated. The context is honored for
// cancellation of the in-flight request.
func (s *Submitter) Submit(ctx context.Context, endpoint, importID string, importType records.ImportType, recs []any, authToken string) (*ServerResponse, error) {
	if strings.TrimSpace(authToken) == "" {
		return nil, ErrMissingCredential
	}
	if recs == nil {
		recs = []any{}
	}
	if importID == "" {
		importID = uuid.NewString()
	}

	payload := Payload{
		Data: recs,
		ImportMeta: ImportMeta{
			ImportID:      importID,
			ImportedAt:    time.Now().UTC().Format(time.RFC3339),
			SystemVersion: SystemVersion,
			ImportType:    importType,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode submission payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build submission request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+authToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &SubmissionError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var server ServerResponse
	// A non-JSON body is fine; the status code decides the outcome.
	_ = json.Unmarshal(raw, &server)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := server.Error
		if message == "" {
			message = strings.TrimSpace(string(raw))
		}
		if message == "" {
			message = resp.Status
		}
		return nil, &SubmissionError{StatusCode: resp.StatusCode, Message: message}
	}

	return &server, nil
}
