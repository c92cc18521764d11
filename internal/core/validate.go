package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/glucolog/importd/internal/parse"
	"github.com/glucolog/importd/internal/records"
	"github.com/glucolog/importd/internal/schema"
	"github.com/glucolog/importd/internal/transform"
)

// maxIssues caps per-category issue lists in a validation report so huge
// files do not produce megabyte responses.
const maxIssues = 25

// numericFields are canonical fields whose values the transformers parse as
// numbers.
var numericFields = map[string]bool{
	"carbs":           true,
	"protein":         true,
	"fat":             true,
	"bloodSugar":      true,
	"intendedInsulin": true,
	"dose":            true,
	"level":           true,
}

// timeFields are canonical fields whose values the transformers parse as
// timestamps.
var timeFields = map[string]bool{
	"timestamp":           true,
	"bloodSugarTimestamp": true,
	"startTime":           true,
	"endTime":             true,
	"administrationTime":  true,
}

// Validate dry-runs an upload without touching the destination backend.
// Missing required fields are errors; values the import would correct or
// default are warnings. Content that does not decode at all yields an
// invalid report rather than an error, so callers always get a diagnosis.
func (s *Service) Validate(ctx context.Context, fileName string, content []byte, t records.ImportType) (*ValidationReport, error) {
	if !t.Valid() {
		return nil, &UnknownTypeError{Type: t}
	}
	if max := s.cfg.Import.MaxFileSize; max > 0 && int64(len(content)) > max {
		return nil, &FileTooLargeError{Size: int64(len(content)), Max: max}
	}

	parsed, err := parse.Parse(ctx, fileName, content, parse.DefaultFormats)
	if err != nil {
		var parseErr *parse.ParseError
		if errors.As(err, &parseErr) {
			return &ValidationReport{
				Format:   parseErr.Format,
				Errors:   []string{parseErr.Error()},
				Warnings: []string{},
			}, nil
		}
		return nil, err
	}

	objs := parsed.Objects()
	report := &ValidationReport{
		Format:      parsed.Format,
		RecordCount: len(objs),
		Errors:      []string{},
		Warnings:    append([]string{}, parsed.Warnings...),
	}

	if len(objs) == 0 {
		report.Errors = append(report.Errors, "file contains no records")
		return report, nil
	}

	if t == records.ImportAll {
		groups, unrouted := Classify(objs)
		report.Warnings = capIssues(append(report.Warnings, unrouted...))
		report.Counts = make(map[records.ImportType]int, len(groups))
		for groupType, groupObjs := range groups {
			report.Counts[groupType] = len(groupObjs)
		}
		report.Valid = true
		return report, nil
	}

	fields := schema.FieldsFor(t)

	// CSV files can fail fast on the header row before any per-record work.
	if parsed.Format == parse.FormatCSV {
		mapping := schema.MapFields(parsed.Headers, fields)
		for _, f := range fields {
			if _, ok := mapping[f.Name]; !ok && f.Required {
				report.Errors = append(report.Errors, fmt.Sprintf("missing required column %q", f.Label))
			}
		}
	}

	var errs, warns []string
	for i, obj := range objs {
		canonical := schema.Remap(obj, fields)
		errs, warns = checkRecord(i, canonical, fields, errs, warns)
	}
	report.Errors = capIssues(append(report.Errors, errs...))
	report.Warnings = capIssues(append(report.Warnings, warns...))
	report.Valid = len(report.Errors) == 0
	return report, nil
}

// checkRecord validates one canonical record's required fields and value
// shapes, appending to the running issue lists.
func checkRecord(i int, obj map[string]any, fields []schema.FieldSpec, errs, warns []string) ([]string, []string) {
	for _, f := range fields {
		v, present := obj[f.Name]
		empty := !present
		if s, isStr := v.(string); present && isStr && strings.TrimSpace(s) == "" {
			empty = true
		}
		if empty {
			if f.Required {
				errs = append(errs, fmt.Sprintf("record #%d: missing required field %q", i+1, f.Name))
			}
			continue
		}

		s, isStr := v.(string)
		if !isStr {
			continue // JSON-native numbers and sequences are fine as-is
		}
		s = strings.TrimSpace(s)

		if numericFields[f.Name] {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				warns = append(warns, fmt.Sprintf("record #%d: %s %q is not numeric; a default will be used", i+1, f.Name, s))
			}
		}
		if timeFields[f.Name] {
			if _, ok := transform.ParseTimestamp(s); !ok {
				warns = append(warns, fmt.Sprintf("record #%d: %s %q is not a recognized timestamp; current time will be used", i+1, f.Name, s))
			}
		}
	}
	return errs, warns
}

// capIssues truncates an issue list to maxIssues, noting how many were
// dropped.
func capIssues(issues []string) []string {
	if len(issues) <= maxIssues {
		return issues
	}
	dropped := len(issues) - maxIssues
	return append(issues[:maxIssues], fmt.Sprintf("(+%d more)", dropped))
}
