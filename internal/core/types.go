package core

import (
	"fmt"

	"github.com/glucolog/importd/internal/parse"
	"github.com/glucolog/importd/internal/records"
)

// ImportRequest describes one uploaded file to run through the pipeline.
type ImportRequest struct {
	FileName string
	Content  []byte

	// Type selects the transformer, or records.ImportAll to route each
	// record by field presence.
	Type records.ImportType

	// AuthToken is the caller's bearer token, forwarded to the destination
	// backend. The service never looks credentials up on its own.
	AuthToken string
}

// GroupResult reports one transformer run within an import. A mixed batch
// produces up to four groups; a typed import produces exactly one.
type GroupResult struct {
	Type      records.ImportType `json:"importType"`
	Records   int                `json:"records"`
	Submitted bool               `json:"submitted"`
	Message   string             `json:"message,omitempty"`
	Warnings  []string           `json:"warnings,omitempty"`
}

// ImportResult is the outcome of a completed import run.
type ImportResult struct {
	ID       string        `json:"importId"`
	Format   parse.Format  `json:"format"`
	Rows     int           `json:"rows"`
	Groups   []GroupResult `json:"results"`
	Warnings []string      `json:"warnings,omitempty"`
}

// ValidationReport is the outcome of a dry-run validation. Errors make the
// file invalid; warnings describe values the import would correct or default.
type ValidationReport struct {
	Valid       bool                       `json:"valid"`
	Format      parse.Format               `json:"format"`
	RecordCount int                        `json:"recordCount"`
	Counts      map[records.ImportType]int `json:"counts,omitempty"`
	Errors      []string                   `json:"errors"`
	Warnings    []string                   `json:"warnings"`
}

// UnknownTypeError reports an import type the pipeline does not recognize.
type UnknownTypeError struct {
	Type records.ImportType
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown import type %q", e.Type)
}

// FileTooLargeError reports an upload exceeding the configured size limit.
type FileTooLargeError struct {
	Size int64
	Max  int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file size %d exceeds limit of %d bytes", e.Size, e.Max)
}
