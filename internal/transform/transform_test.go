package transform

import (
	"strings"
	"testing"
	"time"

	"github.com/glucolog/importd/internal/records"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-03-15T12:30:00Z", time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC), true},
		{"2024-03-15T12:30:00", time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC), true},
		{"2024-03-15 12:30:00", time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC), true},
		{"2024-03-15 12:30", time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC), true},
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"03/15/2024 12:30", time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC), true},
		{"03/15/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"yesterday", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseTimestamp(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseTimestamp(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTimeOrNow_FallsBackToNow(t *testing.T) {
	before := time.Now().UTC()
	got := TimeOrNow("not a timestamp")
	after := time.Now().UTC()

	if got.Before(before) || got.After(after) {
		t.Errorf("TimeOrNow fallback = %v, want within [%v, %v]", got, before, after)
	}
}

func TestFloatOrDefault(t *testing.T) {
	if got := FloatOrDefault("12.5", 0); got != 12.5 {
		t.Errorf("string parse = %v", got)
	}
	if got := FloatOrDefault(7.0, 0); got != 7 {
		t.Errorf("float passthrough = %v", got)
	}
	if got := FloatOrDefault("garbage", 3); got != 3 {
		t.Errorf("default = %v", got)
	}
	if got := FloatOrDefault(nil, 3); got != 3 {
		t.Errorf("nil default = %v", got)
	}
}

func TestFloatIfPresent(t *testing.T) {
	obj := map[string]any{"a": "120", "b": "", "c": "junk"}

	if v := FloatIfPresent(obj, "a"); v == nil || *v != 120 {
		t.Errorf("present value = %v", v)
	}
	if v := FloatIfPresent(obj, "b"); v != nil {
		t.Errorf("empty string should be absent, got %v", *v)
	}
	if v := FloatIfPresent(obj, "missing"); v != nil {
		t.Errorf("missing key should be absent, got %v", *v)
	}
	if v := FloatIfPresent(obj, "c"); v == nil || *v != 0 {
		t.Errorf("unparsable present value should default to 0, got %v", v)
	}
}

func TestIntOrDefault(t *testing.T) {
	if got := IntOrDefault("2", 0); got != 2 {
		t.Errorf("string parse = %v", got)
	}
	if got := IntOrDefault("2.0", 0); got != 2 {
		t.Errorf("float-shaped string = %v", got)
	}
	if got := IntOrDefault(nil, 9); got != 9 {
		t.Errorf("default = %v", got)
	}
}

func TestMeals_Minimal(t *testing.T) {
	recs, warnings := Meals([]map[string]any{
		{"timestamp": "2024-03-15T12:30:00", "carbs": "12", "protein": "3", "fat": "2"},
	})

	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	meal, ok := recs[0].(records.Meal)
	if !ok {
		t.Fatalf("record type = %T, want records.Meal", recs[0])
	}
	if meal.MealType != records.MealSnack {
		t.Errorf("MealType = %q, want snack default", meal.MealType)
	}
	if meal.Nutrition.Calories != 78 {
		t.Errorf("Calories = %v, want 78", meal.Nutrition.Calories)
	}
	if meal.Nutrition.AbsorptionFactor != 1.0 {
		t.Errorf("AbsorptionFactor = %v, want 1.0", meal.Nutrition.AbsorptionFactor)
	}
	if meal.Timestamp != "2024-03-15T12:30:00Z" {
		t.Errorf("Timestamp = %q", meal.Timestamp)
	}
	if !meal.ImportedRecord {
		t.Error("ImportedRecord must be true")
	}
	if meal.BloodSugar != nil {
		t.Errorf("BloodSugar = %v, want nil when absent", *meal.BloodSugar)
	}
	if meal.IntendedInsulinType != records.DefaultInsulinType {
		t.Errorf("IntendedInsulinType = %q", meal.IntendedInsulinType)
	}
}

func TestMeals_FoodItemsString(t *testing.T) {
	recs, _ := Meals([]map[string]any{
		{"timestamp": "2024-03-15", "foodItems": "Sandwich, Apple", "meal_type": "LUNCH"},
	})

	meal := recs[0].(records.Meal)
	if meal.MealType != records.MealLunch {
		t.Errorf("MealType = %q, want lunch", meal.MealType)
	}
	if len(meal.FoodItems) != 2 {
		t.Fatalf("FoodItems = %v, want 2 items", meal.FoodItems)
	}
	if meal.FoodItems[0].Name != "Sandwich" || meal.FoodItems[1].Name != "Apple" {
		t.Errorf("item names = %q, %q", meal.FoodItems[0].Name, meal.FoodItems[1].Name)
	}
	if meal.FoodItems[0].Portion.Amount != 1 || meal.FoodItems[0].Portion.Unit != "serving" {
		t.Errorf("default portion = %+v", meal.FoodItems[0].Portion)
	}
}

func TestMeals_FoodItemsEmbeddedJSON(t *testing.T) {
	recs, _ := Meals([]map[string]any{
		{
			"timestamp": "2024-03-15",
			"foodItems": `[{"name":"Oatmeal","portion":{"amount":1.5,"unit":"cup"},"details":{"carbs":27,"protein":5,"fat":3}}]`,
		},
	})

	meal := recs[0].(records.Meal)
	if len(meal.FoodItems) != 1 {
		t.Fatalf("FoodItems = %v", meal.FoodItems)
	}
	item := meal.FoodItems[0]
	if item.Name != "Oatmeal" {
		t.Errorf("Name = %q", item.Name)
	}
	if item.Portion.Amount != 1.5 || item.Portion.Unit != "cup" {
		t.Errorf("Portion = %+v", item.Portion)
	}
	if item.Details.Carbs != 27 {
		t.Errorf("Details.Carbs = %v", item.Details.Carbs)
	}
}

func TestMeals_BloodSugarTimestampPinnedToMeal(t *testing.T) {
	recs, _ := Meals([]map[string]any{
		{"timestamp": "2024-03-15T08:00:00", "bloodSugar": "110"},
	})

	meal := recs[0].(records.Meal)
	if meal.BloodSugar == nil || *meal.BloodSugar != 110 {
		t.Fatalf("BloodSugar = %v", meal.BloodSugar)
	}
	if meal.BloodSugarTimestamp != "2024-03-15T08:00:00Z" {
		t.Errorf("BloodSugarTimestamp = %q, want meal timestamp", meal.BloodSugarTimestamp)
	}
}

func TestBloodSugar_MmolConversion(t *testing.T) {
	recs, _ := BloodSugar([]map[string]any{
		{"bloodSugar": "10", "unit": "mmol/L", "bloodSugarTimestamp": "2024-03-15T08:00:00"},
	})

	reading := recs[0].(records.BloodSugarReading)
	if reading.BloodSugar != 180 {
		t.Errorf("BloodSugar = %v, want 180 (10 mmol/L)", reading.BloodSugar)
	}
	if reading.BloodSugarTimestamp != "2024-03-15T08:00:00Z" {
		t.Errorf("BloodSugarTimestamp = %q", reading.BloodSugarTimestamp)
	}
	if reading.MealType != records.MealBloodSugarOnly {
		t.Errorf("MealType = %q", reading.MealType)
	}
	if reading.RecordingType != records.RecordingStandaloneBloodSugar {
		t.Errorf("RecordingType = %q", reading.RecordingType)
	}
	if reading.BloodSugarSource != records.SourceImported {
		t.Errorf("BloodSugarSource = %q", reading.BloodSugarSource)
	}
}

func TestBloodSugar_MgdlPassthrough(t *testing.T) {
	recs, _ := BloodSugar([]map[string]any{
		{"blood_sugar": "145", "unit": "mg/dL"},
	})

	reading := recs[0].(records.BloodSugarReading)
	if reading.BloodSugar != 145 {
		t.Errorf("BloodSugar = %v, want 145 unchanged", reading.BloodSugar)
	}
}

func TestBloodSugar_MissingValueSkips(t *testing.T) {
	recs, warnings := BloodSugar([]map[string]any{
		{"notes": "forgot the meter"},
		{"bloodSugar": "120"},
	})

	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "record #1") {
		t.Errorf("warnings = %v, want one for record #1", warnings)
	}
}

func TestActivities_DurationFromEndTime(t *testing.T) {
	recs, warnings := Activities([]map[string]any{
		{
			"timestamp": "2024-03-15T17:00:00",
			"startTime": "2024-03-15T17:00:00",
			"endTime":   "2024-03-15T18:30:00",
			"level":     "2",
		},
	})

	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	activity := recs[0].(records.Activity)
	if len(activity.CompletedActivities) != 1 {
		t.Fatalf("CompletedActivities = %v", activity.CompletedActivities)
	}
	entry := activity.CompletedActivities[0]
	if entry.Duration != "01:30" {
		t.Errorf("Duration = %q, want 01:30", entry.Duration)
	}
	if entry.Level != 2 {
		t.Errorf("Level = %d", entry.Level)
	}
	if entry.CompletedTime != entry.StartTime {
		t.Errorf("CompletedTime = %q, want start time", entry.CompletedTime)
	}
	if entry.ExpectedTime != "" {
		t.Errorf("ExpectedTime = %q, want empty for completed", entry.ExpectedTime)
	}
}

func TestActivities_DurationString(t *testing.T) {
	recs, _ := Activities([]map[string]any{
		{"startTime": "2024-03-15T17:00:00", "duration": "00:45", "level": "1"},
	})

	entry := recs[0].(records.Activity).CompletedActivities[0]
	if entry.EndTime != "2024-03-15T17:45:00Z" {
		t.Errorf("EndTime = %q, want start plus 45m", entry.EndTime)
	}
}

func TestActivities_DefaultHourAndMalformed(t *testing.T) {
	recs, warnings := Activities([]map[string]any{
		{"startTime": "2024-03-15T17:00:00", "level": "0"},
		{"startTime": "2024-03-15T17:00:00", "duration": "soon", "level": "0"},
	})

	first := recs[0].(records.Activity).CompletedActivities[0]
	if first.EndTime != "2024-03-15T18:00:00Z" {
		t.Errorf("no duration: EndTime = %q, want start plus 1h", first.EndTime)
	}

	second := recs[1].(records.Activity).CompletedActivities[0]
	if second.EndTime != "2024-03-15T18:00:00Z" {
		t.Errorf("malformed duration: EndTime = %q, want start plus 1h", second.EndTime)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "malformed duration") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestActivities_LevelClamps(t *testing.T) {
	recs, _ := Activities([]map[string]any{
		{"startTime": "2024-03-15T17:00:00", "level": "5"},
		{"startTime": "2024-03-15T17:00:00", "level": "-9"},
	})

	if got := recs[0].(records.Activity).CompletedActivities[0].Level; got != records.MaxActivityLevel {
		t.Errorf("level 5 clamped to %d, want %d", got, records.MaxActivityLevel)
	}
	if got := recs[1].(records.Activity).CompletedActivities[0].Level; got != records.MinActivityLevel {
		t.Errorf("level -9 clamped to %d, want %d", got, records.MinActivityLevel)
	}
}

func TestActivities_ExpectedType(t *testing.T) {
	recs, _ := Activities([]map[string]any{
		{"startTime": "2024-03-15T07:00:00", "type": "Expected", "level": "1"},
	})

	activity := recs[0].(records.Activity)
	if len(activity.ExpectedActivities) != 1 {
		t.Fatalf("ExpectedActivities = %v", activity.ExpectedActivities)
	}
	entry := activity.ExpectedActivities[0]
	if entry.Type != records.ActivityExpected {
		t.Errorf("Type = %q", entry.Type)
	}
	if entry.ExpectedTime != entry.StartTime {
		t.Errorf("ExpectedTime = %q, want start time", entry.ExpectedTime)
	}
	if len(activity.CompletedActivities) != 0 {
		t.Errorf("CompletedActivities = %v, want empty", activity.CompletedActivities)
	}
}

func TestActivities_EndBeforeStartWarns(t *testing.T) {
	recs, warnings := Activities([]map[string]any{
		{"startTime": "2024-03-15T17:00:00", "endTime": "2024-03-15T16:00:00", "level": "0"},
	})

	entry := recs[0].(records.Activity).CompletedActivities[0]
	if entry.Duration != "00:00" {
		t.Errorf("Duration = %q, want clamped 00:00", entry.Duration)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "clamped") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestInsulin_Full(t *testing.T) {
	recs, warnings := Insulin([]map[string]any{
		{"dose": "6", "medication": "Lantus Solostar", "administrationTime": "2024-03-15T22:00:00"},
	})

	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	dose := recs[0].(records.InsulinDose)
	if dose.IntendedInsulin != 6 {
		t.Errorf("IntendedInsulin = %v", dose.IntendedInsulin)
	}
	if dose.IntendedInsulinType != "lantus_solostar" {
		t.Errorf("IntendedInsulinType = %q, want lantus_solostar", dose.IntendedInsulinType)
	}
	if dose.MealType != records.MealInsulinOnly {
		t.Errorf("MealType = %q", dose.MealType)
	}
	if dose.RecordingType != records.RecordingInsulin {
		t.Errorf("RecordingType = %q", dose.RecordingType)
	}
	if dose.Timestamp != "2024-03-15T22:00:00Z" {
		t.Errorf("Timestamp = %q", dose.Timestamp)
	}

	log := dose.MedicationLog
	if !log.IsInsulin {
		t.Error("MedicationLog.IsInsulin must be true")
	}
	if log.Status != "taken" {
		t.Errorf("Status = %q, want taken", log.Status)
	}
	if log.ScheduledTime != log.TakenAt || log.TakenAt != "2024-03-15T22:00:00Z" {
		t.Errorf("ScheduledTime = %q, TakenAt = %q", log.ScheduledTime, log.TakenAt)
	}
}

func TestInsulin_MissingDoseSkips(t *testing.T) {
	recs, warnings := Insulin([]map[string]any{
		{"medication": "fast_acting"},
	})

	if len(recs) != 0 {
		t.Fatalf("records = %v, want none", recs)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "missing insulin dose") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestInsulin_DefaultsMedication(t *testing.T) {
	recs, _ := Insulin([]map[string]any{
		{"dose": "4", "timestamp": "2024-03-15T08:00:00"},
	})

	dose := recs[0].(records.InsulinDose)
	if dose.IntendedInsulinType != records.DefaultInsulinType {
		t.Errorf("IntendedInsulinType = %q, want default", dose.IntendedInsulinType)
	}
	if dose.Timestamp != "2024-03-15T08:00:00Z" {
		t.Errorf("Timestamp = %q, want row timestamp fallback", dose.Timestamp)
	}
}

func TestRegistry(t *testing.T) {
	for _, typ := range []records.ImportType{
		records.ImportMeals,
		records.ImportBloodSugar,
		records.ImportActivities,
		records.ImportInsulin,
	} {
		if _, err := For(typ); err != nil {
			t.Errorf("For(%q) error = %v", typ, err)
		}
	}
	if _, err := For(records.ImportAll); err == nil {
		t.Error("For(all) should have no direct transformer")
	}
}
