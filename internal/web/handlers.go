package web

import (
	"fmt"
	"io"
	"net/http"

	"github.com/glucolog/importd/internal/core"
	"github.com/glucolog/importd/internal/parse"
	"github.com/glucolog/importd/internal/records"
	"github.com/glucolog/importd/internal/web/middleware"
)

// multipartOverhead leaves room for form boundaries and the type field on
// top of the configured file size limit.
const multipartOverhead = 10 * 1024

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// handleImport accepts a multipart upload (fields: file, type) and runs the
// full pipeline, submitting transformed records to the destination backend
// with the caller's bearer token.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	upload, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	result, err := s.service.Import(r.Context(), core.ImportRequest{
		FileName:  upload.name,
		Content:   upload.content,
		Type:      upload.importType,
		AuthToken: middleware.BearerToken(r.Context()),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, result)
}

// handleValidate dry-runs an upload without submitting anything. No bearer
// token is needed.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	upload, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	report, err := s.service.Validate(r.Context(), upload.name, upload.content, upload.importType)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, report)
}

// handleTemplate serves an example upload file for one import type.
// Query parameters: type (required), format (csv or json, default csv).
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	importType := records.ImportType(r.URL.Query().Get("type"))
	if importType == "" || importType == records.ImportAll {
		writeError(w, r, http.StatusBadRequest, "UNKNOWN_TYPE",
			"type query parameter must name a single import type")
		return
	}

	format := parse.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = parse.FormatCSV
	}

	content, err := core.Template(importType, format)
	if err != nil {
		respondError(w, r, err)
		return
	}

	fileName := fmt.Sprintf("%s_template.%s", importType, format)
	contentType := "text/csv"
	if format == parse.FormatJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Write(content)
}

// upload is one decoded multipart request.
type upload struct {
	name       string
	content    []byte
	importType records.ImportType
}

// readUpload decodes the multipart form shared by the import and validate
// endpoints. On failure it writes the error response and returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, bool) {
	maxBody := s.cfg.Import.MaxFileSize + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(maxBody); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_UPLOAD",
			"expected a multipart form with a file field: "+err.Error())
		return upload{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_UPLOAD", "missing file field")
		return upload{}, false
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_UPLOAD", "reading upload: "+err.Error())
		return upload{}, false
	}

	importType := records.ImportType(r.FormValue("type"))
	if importType == "" {
		importType = records.ImportAll
	}

	return upload{name: header.Filename, content: content, importType: importType}, true
}
