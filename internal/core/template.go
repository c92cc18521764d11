package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/glucolog/importd/internal/parse"
	"github.com/glucolog/importd/internal/records"
	"github.com/glucolog/importd/internal/schema"
)

// sampleValues provides one plausible example value per canonical field,
// shared by the CSV and JSON templates.
var sampleValues = map[string]any{
	"timestamp":           "2024-03-15T12:30:00",
	"mealType":            "lunch",
	"foodItems":           "Sandwich, Apple",
	"carbs":               45.0,
	"protein":             20.0,
	"fat":                 15.0,
	"bloodSugar":          120.0,
	"bloodSugarTimestamp": "2024-03-15T12:00:00",
	"intendedInsulin":     4.5,
	"intendedInsulinType": "fast_acting",
	"unit":                "mg/dL",
	"type":                "completed",
	"level":               1,
	"duration":            "00:45",
	"startTime":           "2024-03-15T17:00:00",
	"endTime":             "2024-03-15T17:45:00",
	"dose":                6.0,
	"medication":          "fast_acting",
	"administrationTime":  "2024-03-15T12:30:00",
	"notes":               "example entry",
}

// Template renders an example upload file for an import type: the canonical
// column set plus one sample record. Mixed-batch imports have no fixed
// column set and therefore no template.
func Template(t records.ImportType, format parse.Format) ([]byte, error) {
	if !t.Valid() {
		return nil, &UnknownTypeError{Type: t}
	}
	fields := schema.FieldsFor(t)
	if fields == nil {
		return nil, fmt.Errorf("no template for import type %q", t)
	}

	switch format {
	case parse.FormatJSON:
		obj := make(map[string]any, len(fields))
		for _, f := range fields {
			obj[f.Name] = sampleValues[f.Name]
		}
		return json.MarshalIndent([]map[string]any{obj}, "", "  ")

	case parse.FormatCSV:
		var b strings.Builder
		labels := make([]string, len(fields))
		values := make([]string, len(fields))
		for i, f := range fields {
			labels[i] = f.Label
			values[i] = csvCell(sampleValues[f.Name])
		}
		b.WriteString(strings.Join(labels, ","))
		b.WriteString("\n")
		b.WriteString(strings.Join(values, ","))
		b.WriteString("\n")
		return []byte(b.String()), nil

	default:
		return nil, fmt.Errorf("no template renderer for format %q", format)
	}
}

// csvCell renders one sample value, quoting it when it contains a comma.
func csvCell(v any) string {
	s := fmt.Sprint(v)
	if strings.Contains(s, ",") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
