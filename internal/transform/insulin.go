package transform

import (
	"github.com/glucolog/importd/internal/records"
)

// Insulin converts generic rows into canonical insulin dose records. Each
// record carries a medication log marking the dose as taken at its
// administration time; rows with no dose are dropped with a warning.
func Insulin(objs []map[string]any) ([]any, []string) {
	objs = remapAll(objs, records.ImportInsulin)

	var (
		recs     []any
		warnings []string
	)
	for i, obj := range objs {
		dose := FloatIfPresent(obj, "dose")
		if dose == nil {
			warnings = append(warnings, rowWarning(i, "missing insulin dose; row skipped"))
			continue
		}

		medication := records.DefaultInsulinType
		if s, ok := stringField(obj, "medication"); ok {
			medication = records.NormalizeInsulinType(s)
		}

		// Administration time falls back to the dose timestamp, then "now".
		taken, ok := timeField(obj, "administrationTime")
		if !ok {
			taken = TimeOrNow(obj["timestamp"])
		}

		notes := ""
		if s, ok := stringField(obj, "notes"); ok {
			notes = s
		}

		recs = append(recs, records.InsulinDose{
			MealType:            records.MealInsulinOnly,
			RecordingType:       records.RecordingInsulin,
			Timestamp:           iso(taken),
			FoodItems:           []records.FoodItem{},
			Activities:          []any{},
			BloodSugarSource:    records.SourceImported,
			IntendedInsulin:     *dose,
			IntendedInsulinType: medication,
			Notes:               notes,
			MedicationLog: records.MedicationLog{
				IsInsulin:     true,
				Dose:          *dose,
				Medication:    medication,
				ScheduledTime: iso(taken),
				TakenAt:       iso(taken),
				Notes:         notes,
				Status:        "taken",
			},
		})
	}
	return recs, warnings
}
