// Package schema declares the canonical fields each import type understands
// and maps observed source columns onto them.
package schema

import "github.com/glucolog/importd/internal/records"

// FieldSpec describes one canonical field of an import type.
type FieldSpec struct {
	// Name is the canonical field name transformers read.
	Name string

	// Label is the column header the import templates advertise.
	Label string

	// Aliases are alternate source spellings accepted case-insensitively,
	// mostly the snake_case variants older exports used.
	Aliases []string

	// Required marks fields validation reports as errors when missing.
	Required bool
}

// MealFieldSpecs defines the source columns for meal imports.
var MealFieldSpecs = []FieldSpec{
	{Name: "timestamp", Label: "timestamp", Required: true},
	{Name: "mealType", Label: "mealType", Aliases: []string{"meal_type"}},
	{Name: "foodItems", Label: "foodItems", Aliases: []string{"food_items"}},
	{Name: "carbs", Label: "carbs"},
	{Name: "protein", Label: "protein"},
	{Name: "fat", Label: "fat"},
	{Name: "bloodSugar", Label: "bloodSugar", Aliases: []string{"blood_sugar"}},
	{Name: "bloodSugarTimestamp", Label: "bloodSugarTimestamp", Aliases: []string{"blood_sugar_timestamp"}},
	{Name: "intendedInsulin", Label: "intendedInsulin", Aliases: []string{"intended_insulin"}},
	{Name: "intendedInsulinType", Label: "intendedInsulinType", Aliases: []string{"intended_insulin_type", "insulinType", "insulin_type"}},
	{Name: "notes", Label: "notes"},
}

// BloodSugarFieldSpecs defines the source columns for blood sugar imports.
var BloodSugarFieldSpecs = []FieldSpec{
	{Name: "timestamp", Label: "timestamp"},
	{Name: "bloodSugar", Label: "bloodSugar", Aliases: []string{"blood_sugar"}, Required: true},
	{Name: "bloodSugarTimestamp", Label: "bloodSugarTimestamp", Aliases: []string{"blood_sugar_timestamp", "readingTime", "reading_time"}},
	{Name: "unit", Label: "unit", Aliases: []string{"bloodSugarUnit", "blood_sugar_unit"}},
	{Name: "notes", Label: "notes"},
}

// ActivityFieldSpecs defines the source columns for activity imports.
var ActivityFieldSpecs = []FieldSpec{
	{Name: "timestamp", Label: "timestamp"},
	{Name: "type", Label: "type"},
	{Name: "level", Label: "level", Required: true},
	{Name: "duration", Label: "duration"},
	{Name: "startTime", Label: "startTime", Aliases: []string{"start_time"}},
	{Name: "endTime", Label: "endTime", Aliases: []string{"end_time"}},
	{Name: "notes", Label: "notes"},
}

// InsulinFieldSpecs defines the source columns for insulin imports.
var InsulinFieldSpecs = []FieldSpec{
	{Name: "timestamp", Label: "timestamp"},
	{Name: "dose", Label: "dose", Required: true},
	{Name: "medication", Label: "medication", Aliases: []string{"insulinType", "insulin_type"}, Required: true},
	{Name: "administrationTime", Label: "administrationTime", Aliases: []string{"administration_time", "scheduled_time", "taken_at"}},
	{Name: "notes", Label: "notes"},
}

// specsByType indexes the field tables by import type.
var specsByType = map[records.ImportType][]FieldSpec{
	records.ImportMeals:      MealFieldSpecs,
	records.ImportBloodSugar: BloodSugarFieldSpecs,
	records.ImportActivities: ActivityFieldSpecs,
	records.ImportInsulin:    InsulinFieldSpecs,
}

// FieldsFor returns the field table for an import type, or nil for types
// without a fixed table (such as "all").
func FieldsFor(t records.ImportType) []FieldSpec {
	return specsByType[t]
}
