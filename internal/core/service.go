// Package core orchestrates the import pipeline: parse the upload, route
// records to transformers, and submit the canonical records to the
// destination backend.
package core

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/glucolog/importd/internal/config"
	"github.com/glucolog/importd/internal/logging"
	"github.com/glucolog/importd/internal/parse"
	"github.com/glucolog/importd/internal/records"
	"github.com/glucolog/importd/internal/submit"
	"github.com/glucolog/importd/internal/transform"
)

// Service runs import pipelines. One request is one linear run; the service
// holds no mutable state between runs.
type Service struct {
	cfg       *config.Config
	submitter *submit.Submitter
}

// NewService creates a Service backed by the given submitter.
func NewService(cfg *config.Config, submitter *submit.Submitter) *Service {
	return &Service{cfg: cfg, submitter: submitter}
}

// Import parses the uploaded file, transforms its records, and submits each
// resulting group to the destination backend. Row-level anomalies become
// warnings in the result; only file-level problems and delivery failures are
// errors.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if !req.Type.Valid() {
		return nil, &UnknownTypeError{Type: req.Type}
	}
	if strings.TrimSpace(req.AuthToken) == "" {
		// Fail before any parsing work; nothing can be delivered anyway.
		return nil, submit.ErrMissingCredential
	}
	if max := s.cfg.Import.MaxFileSize; max > 0 && int64(len(req.Content)) > max {
		return nil, &FileTooLargeError{Size: int64(len(req.Content)), Max: max}
	}

	parsed, err := parse.Parse(ctx, req.FileName, req.Content, parse.DefaultFormats)
	if err != nil {
		return nil, err
	}
	objs := parsed.Objects()

	result := &ImportResult{
		ID:       uuid.NewString(),
		Format:   parsed.Format,
		Rows:     len(objs),
		Warnings: parsed.Warnings,
	}

	logger := logging.WithFields(ctx,
		"import_id", result.ID,
		"file", req.FileName,
		"type", req.Type,
	)
	logger.Info("import started", "format", parsed.Format, "rows", len(objs))

	groups := map[records.ImportType][]map[string]any{req.Type: objs}
	if req.Type == records.ImportAll {
		var unrouted []string
		groups, unrouted = Classify(objs)
		result.Warnings = append(result.Warnings, unrouted...)
	}

	for _, t := range GroupOrder {
		groupObjs, ok := groups[t]
		if !ok || len(groupObjs) == 0 {
			continue
		}

		recs, warnings, err := transform.Apply(t, groupObjs)
		if err != nil {
			return nil, err
		}
		group := GroupResult{Type: t, Records: len(recs), Warnings: warnings}

		if len(recs) == 0 {
			group.Message = "no usable records"
			result.Groups = append(result.Groups, group)
			continue
		}

		resp, err := s.submitter.Submit(ctx, s.cfg.Submit.Endpoint, result.ID, t, recs, req.AuthToken)
		if err != nil {
			logger.Error("submission failed", "group", t, "error", err)
			return nil, err
		}
		group.Submitted = true
		group.Message = resp.Message
		result.Groups = append(result.Groups, group)

		logger.Info("group submitted", "group", t, "records", len(recs), "warnings", len(warnings))
	}

	logger.Info("import completed", "groups", len(result.Groups))
	return result, nil
}
