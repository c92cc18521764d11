package transform

import (
	"math"
	"strings"
	"time"

	"github.com/glucolog/importd/internal/records"
)

// mmolToMgdl is the conversion factor between the two common glucose units
// (mg/dL ≈ mmol/L × 18).
const mmolToMgdl = 18

// BloodSugar converts generic rows into standalone blood sugar readings.
// Values declared in mmol/L are normalized to mg/dL; rows with no reading at
// all are dropped with a warning.
func BloodSugar(objs []map[string]any) ([]any, []string) {
	objs = remapAll(objs, records.ImportBloodSugar)

	var (
		recs     []any
		warnings []string
	)
	for i, obj := range objs {
		value := FloatIfPresent(obj, "bloodSugar")
		if value == nil {
			warnings = append(warnings, rowWarning(i, "missing blood sugar value; row skipped"))
			continue
		}

		mgdl := *value
		if unit, ok := stringField(obj, "unit"); ok && strings.EqualFold(unit, "mmol/l") {
			mgdl = math.Round(mgdl * mmolToMgdl)
		}

		// The reading time falls back from the dedicated field to the row
		// timestamp to "now", in that order.
		readingTime, ok := timeField(obj, "bloodSugarTimestamp")
		if !ok {
			readingTime = TimeOrNow(obj["timestamp"])
		}

		reading := records.BloodSugarReading{
			Timestamp:           iso(time.Now().UTC()),
			BloodSugarTimestamp: iso(readingTime),
			BloodSugar:          mgdl,
			BloodSugarSource:    records.SourceImported,
			MealType:            records.MealBloodSugarOnly,
			RecordingType:       records.RecordingStandaloneBloodSugar,
		}
		if s, ok := stringField(obj, "notes"); ok {
			reading.Notes = s
		}

		recs = append(recs, reading)
	}
	return recs, warnings
}
