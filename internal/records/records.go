// Package records defines the canonical domain records produced by the
// import pipeline. Records are value objects: created fresh per import run,
// no identity, no lifecycle beyond the submission call that consumes them.
//
// Field names and enum strings are wire-stable; they must match what the
// destination backend stores, so the JSON tags here are the contract.
package records

import "strings"

// ImportType selects which transformer and destination endpoint apply.
type ImportType string

const (
	ImportMeals      ImportType = "meals"
	ImportBloodSugar ImportType = "bloodSugar"
	ImportActivities ImportType = "activities"
	ImportInsulin    ImportType = "insulin"

	// ImportAll routes each record by its own shape instead of a declared type.
	ImportAll ImportType = "all"
)

// Valid reports whether t names a known import type.
func (t ImportType) Valid() bool {
	switch t {
	case ImportMeals, ImportBloodSugar, ImportActivities, ImportInsulin, ImportAll:
		return true
	}
	return false
}

// MealType classifies a meal record.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"

	// Synthetic meal types for standalone readings and doses.
	MealBloodSugarOnly MealType = "blood_sugar_only"
	MealInsulinOnly    MealType = "insulin_only"
)

// RecordingType distinguishes synthetic records from regular meals.
type RecordingType string

const (
	RecordingStandaloneBloodSugar RecordingType = "standalone_blood_sugar"
	RecordingInsulin              RecordingType = "insulin"
)

// BloodSugarSource marks where a reading came from.
type BloodSugarSource string

const SourceImported BloodSugarSource = "imported"

// ActivityKind is the expected/completed branch of an activity.
type ActivityKind string

const (
	ActivityExpected  ActivityKind = "expected"
	ActivityCompleted ActivityKind = "completed"
)

// DefaultInsulinType is used when the source names no medication.
const DefaultInsulinType = "regular_insulin"

// Activity level domain, from the application's activity scale
// (-2 sleep .. +2 vigorous).
const (
	MinActivityLevel = -2
	MaxActivityLevel = 2
)

// ClampLevel forces an activity level into the declared domain.
func ClampLevel(level int) int {
	if level < MinActivityLevel {
		return MinActivityLevel
	}
	if level > MaxActivityLevel {
		return MaxActivityLevel
	}
	return level
}

// NormalizeInsulinType canonicalizes a medication name. Names that already
// contain an underscore are trusted as canonical; anything else is lowercased
// with whitespace runs collapsed to single underscores, so "Lantus Solostar"
// becomes "lantus_solostar".
func NormalizeInsulinType(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultInsulinType
	}
	if strings.Contains(name, "_") {
		return name
	}
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// Portion is a food item's serving size.
type Portion struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// MacroDetails carries per-item macronutrients in grams.
type MacroDetails struct {
	Carbs   float64 `json:"carbs"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
}

// FoodItem is one entry of a meal's food list.
type FoodItem struct {
	Name    string       `json:"name"`
	Portion Portion      `json:"portion"`
	Details MacroDetails `json:"details"`
}

// Nutrition summarizes a meal's macros and derived calories.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`

	// AbsorptionFactor is a downstream carb-impact multiplier; fixed at 1.0
	// for imported records.
	AbsorptionFactor float64 `json:"absorption_factor"`
}

// Meal is the canonical imported meal record.
// Timestamps are ISO-8601 strings; numeric fields that may be absent in the
// source are pointers so absence survives serialization (never zero, never
// "NaN").
type Meal struct {
	Timestamp           string     `json:"timestamp"`
	MealType            MealType   `json:"mealType"`
	FoodItems           []FoodItem `json:"foodItems"`
	Nutrition           Nutrition  `json:"nutrition"`
	BloodSugar          *float64   `json:"bloodSugar,omitempty"`
	BloodSugarTimestamp string     `json:"bloodSugarTimestamp,omitempty"`
	IntendedInsulin     *float64   `json:"intendedInsulin,omitempty"`
	IntendedInsulinType string     `json:"intendedInsulinType"`
	Notes               string     `json:"notes"`
	ImportedRecord      bool       `json:"importedRecord"`
}

// BloodSugarReading is a standalone imported glucose reading,
// unit-normalized to mg/dL.
type BloodSugarReading struct {
	Timestamp           string           `json:"timestamp"`
	BloodSugarTimestamp string           `json:"bloodSugarTimestamp"`
	BloodSugar          float64          `json:"bloodSugar"`
	BloodSugarSource    BloodSugarSource `json:"bloodSugarSource"`
	Notes               string           `json:"notes"`
	MealType            MealType         `json:"mealType"`
	RecordingType       RecordingType    `json:"recordingType"`
}

// ActivityEntry is the single entry nested under an Activity's expected or
// completed list. Exactly one of ExpectedTime/CompletedTime is set, matching
// the branch the entry lives in.
type ActivityEntry struct {
	Level         int          `json:"level"`
	StartTime     string       `json:"startTime"`
	EndTime       string       `json:"endTime"`
	Duration      string       `json:"duration"`
	ExpectedTime  string       `json:"expectedTime,omitempty"`
	CompletedTime string       `json:"completedTime,omitempty"`
	Type          ActivityKind `json:"type"`
	Notes         string       `json:"notes"`
}

// Activity is the canonical imported activity record. Exactly one of
// ExpectedActivities/CompletedActivities holds a single entry.
type Activity struct {
	Timestamp           string          `json:"timestamp"`
	ExpectedActivities  []ActivityEntry `json:"expectedActivities,omitempty"`
	CompletedActivities []ActivityEntry `json:"completedActivities,omitempty"`
}

// Entry returns the record's single entry regardless of branch.
func (a Activity) Entry() (ActivityEntry, bool) {
	if len(a.ExpectedActivities) > 0 {
		return a.ExpectedActivities[0], true
	}
	if len(a.CompletedActivities) > 0 {
		return a.CompletedActivities[0], true
	}
	return ActivityEntry{}, false
}

// MedicationLog marks an insulin dose as administered.
type MedicationLog struct {
	IsInsulin     bool    `json:"is_insulin"`
	Dose          float64 `json:"dose"`
	Medication    string  `json:"medication"`
	ScheduledTime string  `json:"scheduled_time"`
	TakenAt       string  `json:"taken_at"`
	Notes         string  `json:"notes"`
	Status        string  `json:"status"`
}

// InsulinDose is the canonical imported insulin record.
type InsulinDose struct {
	MealType            MealType         `json:"mealType"`
	RecordingType       RecordingType    `json:"recordingType"`
	Timestamp           string           `json:"timestamp"`
	FoodItems           []FoodItem       `json:"foodItems"`
	Activities          []any            `json:"activities"`
	BloodSugar          *float64         `json:"bloodSugar,omitempty"`
	BloodSugarSource    BloodSugarSource `json:"bloodSugarSource"`
	IntendedInsulin     float64          `json:"intendedInsulin"`
	IntendedInsulinType string           `json:"intendedInsulinType"`
	Notes               string           `json:"notes"`
	MedicationLog       MedicationLog    `json:"medicationLog"`
}
