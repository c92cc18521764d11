package transform

import (
	"encoding/json"
	"strings"

	"github.com/glucolog/importd/internal/derive"
	"github.com/glucolog/importd/internal/records"
)

// Meals converts generic rows into canonical meal records.
func Meals(objs []map[string]any) ([]any, []string) {
	objs = remapAll(objs, records.ImportMeals)

	var (
		recs     []any
		warnings []string
	)
	for i, obj := range objs {
		ts := TimeOrNow(obj["timestamp"])

		mealType := records.MealSnack
		if s, ok := stringField(obj, "mealType"); ok {
			mealType = records.MealType(strings.ToLower(s))
		}

		items, warn := foodItems(obj["foodItems"])
		if warn != "" {
			warnings = append(warnings, rowWarning(i, "%s", warn))
		}

		carbs := FloatOrDefault(obj["carbs"], 0)
		protein := FloatOrDefault(obj["protein"], 0)
		fat := FloatOrDefault(obj["fat"], 0)

		meal := records.Meal{
			Timestamp: iso(ts),
			MealType:  mealType,
			FoodItems: items,
			Nutrition: records.Nutrition{
				Calories:         derive.Calories(carbs, protein, fat),
				Carbs:            carbs,
				Protein:          protein,
				Fat:              fat,
				AbsorptionFactor: 1.0,
			},
			BloodSugar:          FloatIfPresent(obj, "bloodSugar"),
			IntendedInsulin:     FloatIfPresent(obj, "intendedInsulin"),
			IntendedInsulinType: records.DefaultInsulinType,
			ImportedRecord:      true,
		}

		if s, ok := stringField(obj, "intendedInsulinType"); ok {
			meal.IntendedInsulinType = records.NormalizeInsulinType(s)
		}
		if t, ok := timeField(obj, "bloodSugarTimestamp"); ok {
			meal.BloodSugarTimestamp = iso(t)
		} else if meal.BloodSugar != nil {
			// A reading with no time of its own is pinned to the meal.
			meal.BloodSugarTimestamp = iso(ts)
		}
		if s, ok := stringField(obj, "notes"); ok {
			meal.Notes = s
		}

		recs = append(recs, meal)
	}
	return recs, warnings
}

// foodItems normalizes the foodItems source field. Sequences pass through;
// strings are tried as embedded JSON first, then as a comma-separated list of
// item names with a default single-serving portion and zeroed macros.
func foodItems(v any) ([]records.FoodItem, string) {
	switch t := v.(type) {
	case nil:
		return []records.FoodItem{}, ""

	case []any:
		items := make([]records.FoodItem, 0, len(t))
		for _, el := range t {
			if obj, ok := el.(map[string]any); ok {
				items = append(items, foodItemFromObject(obj))
			}
		}
		return items, ""

	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return []records.FoodItem{}, ""
		}

		var decoded []map[string]any
		if err := json.Unmarshal([]byte(s), &decoded); err == nil {
			items := make([]records.FoodItem, 0, len(decoded))
			for _, obj := range decoded {
				items = append(items, foodItemFromObject(obj))
			}
			return items, ""
		}

		// Not JSON: treat as a plain "Sandwich, Apple" style list.
		var items []records.FoodItem
		for _, name := range strings.Split(s, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			items = append(items, records.FoodItem{
				Name:    name,
				Portion: records.Portion{Amount: 1, Unit: "serving"},
			})
		}
		return items, ""

	default:
		return []records.FoodItem{}, "foodItems has an unrecognized shape; ignored"
	}
}

// foodItemFromObject builds a FoodItem from a generic object, filling the
// default portion when the source omits one.
func foodItemFromObject(obj map[string]any) records.FoodItem {
	item := records.FoodItem{
		Portion: records.Portion{Amount: 1, Unit: "serving"},
	}
	if s, ok := stringField(obj, "name"); ok {
		item.Name = s
	}
	if portion, ok := obj["portion"].(map[string]any); ok {
		item.Portion.Amount = FloatOrDefault(portion["amount"], 1)
		if s, ok := stringField(portion, "unit"); ok {
			item.Portion.Unit = s
		}
	}
	if details, ok := obj["details"].(map[string]any); ok {
		item.Details.Carbs = FloatOrDefault(details["carbs"], 0)
		item.Details.Protein = FloatOrDefault(details["protein"], 0)
		item.Details.Fat = FloatOrDefault(details["fat"], 0)
	}
	return item
}
