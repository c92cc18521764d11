package core

import (
	"fmt"
	"strings"

	"github.com/glucolog/importd/internal/records"
)

// GroupOrder fixes the transform and submission order for mixed batches.
var GroupOrder = []records.ImportType{
	records.ImportMeals,
	records.ImportBloodSugar,
	records.ImportActivities,
	records.ImportInsulin,
}

// Classify routes each generic record to an import type by field presence,
// for uploads that mix record kinds in one file. Records matching nothing
// are dropped with a warning.
//
// Precedence matters: insulin doses and meals both may carry blood sugar
// values, so those signatures are checked before the standalone reading
// signature, and the activity signature comes last because its fields are
// the most generic.
func Classify(objs []map[string]any) (map[records.ImportType][]map[string]any, []string) {
	groups := make(map[records.ImportType][]map[string]any)
	var warnings []string

	for i, obj := range objs {
		t, ok := classifyObject(obj)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("record #%d: no recognizable fields; skipped", i+1))
			continue
		}
		groups[t] = append(groups[t], obj)
	}
	return groups, warnings
}

func classifyObject(obj map[string]any) (records.ImportType, bool) {
	switch {
	case hasAny(obj, "dose", "medication"):
		return records.ImportInsulin, true
	case hasAny(obj, "mealType", "meal_type", "foodItems", "food_items", "carbs", "protein", "fat"):
		return records.ImportMeals, true
	case hasAny(obj, "bloodSugar", "blood_sugar"):
		return records.ImportBloodSugar, true
	case hasAny(obj, "level", "duration", "startTime", "start_time", "endTime", "end_time"):
		return records.ImportActivities, true
	default:
		return "", false
	}
}

// hasAny reports whether the object carries any of the keys,
// case-insensitively and ignoring keys with empty values.
func hasAny(obj map[string]any, keys ...string) bool {
	for k, v := range obj {
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		if v == nil {
			continue
		}
		for _, key := range keys {
			if strings.EqualFold(k, key) {
				return true
			}
		}
	}
	return false
}
