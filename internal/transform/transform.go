package transform

import (
	"fmt"

	"github.com/glucolog/importd/internal/records"
	"github.com/glucolog/importd/internal/schema"
)

// Func converts a batch of generic objects into canonical records, reporting
// per-row warnings for values it had to correct or drop.
type Func func(objs []map[string]any) (recs []any, warnings []string)

// registry maps import types to their transformers.
var registry = map[records.ImportType]Func{
	records.ImportMeals:      Meals,
	records.ImportBloodSugar: BloodSugar,
	records.ImportActivities: Activities,
	records.ImportInsulin:    Insulin,
}

// For returns the transformer registered for an import type.
func For(t records.ImportType) (Func, error) {
	fn, ok := registry[t]
	if !ok {
		return nil, fmt.Errorf("no transformer registered for import type %q", t)
	}
	return fn, nil
}

// Apply runs the transformer for the given import type over objs.
func Apply(t records.ImportType, objs []map[string]any) ([]any, []string, error) {
	fn, err := For(t)
	if err != nil {
		return nil, nil, err
	}
	recs, warnings := fn(objs)
	return recs, warnings, nil
}

// remapAll rewrites every object's keys to the canonical field names of the
// given import type, so transformers see one spelling regardless of source
// format.
func remapAll(objs []map[string]any, t records.ImportType) []map[string]any {
	fields := schema.FieldsFor(t)
	out := make([]map[string]any, len(objs))
	for i, obj := range objs {
		out[i] = schema.Remap(obj, fields)
	}
	return out
}

// rowWarning prefixes a warning with its 1-based record number.
func rowWarning(i int, format string, args ...any) string {
	return fmt.Sprintf("record #%d: %s", i+1, fmt.Sprintf(format, args...))
}
