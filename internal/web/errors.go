package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/glucolog/importd/internal/core"
	"github.com/glucolog/importd/internal/logging"
	"github.com/glucolog/importd/internal/parse"
	"github.com/glucolog/importd/internal/submit"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps pipeline errors to an HTTP status and a machine-readable
// code. Anything unmapped is an internal error.
func statusFor(err error) (int, string) {
	var (
		formatErr     *parse.UnsupportedFormatError
		parseErr      *parse.ParseError
		typeErr       *core.UnknownTypeError
		sizeErr       *core.FileTooLargeError
		submissionErr *submit.SubmissionError
	)
	switch {
	case errors.As(err, &formatErr):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT"
	case errors.As(err, &parseErr):
		return http.StatusBadRequest, "PARSE_ERROR"
	case errors.As(err, &typeErr):
		return http.StatusBadRequest, "UNKNOWN_TYPE"
	case errors.As(err, &sizeErr):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"
	case errors.Is(err, submit.ErrMissingCredential):
		return http.StatusUnauthorized, "MISSING_CREDENTIAL"
	case errors.As(err, &submissionErr):
		return http.StatusBadGateway, "SUBMISSION_FAILED"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// respondError maps err to a status, logs it with request context, and
// writes the JSON error body. Internal errors are not echoed to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", code,
		"error", err.Error(),
	)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

// writeError writes a JSON error response with an explicit status and code,
// for failures that never reach the pipeline.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	logging.FromContext(r.Context()).Warn("request rejected",
		"path", r.URL.Path,
		"status", status,
		"code", code,
		"error", message,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; all we can do is log.
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
