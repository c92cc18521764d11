package transform

import (
	"strconv"
	"strings"
	"time"

	"github.com/glucolog/importd/internal/derive"
	"github.com/glucolog/importd/internal/records"
)

// defaultActivitySpan is assumed when neither an end time nor a duration is
// given.
const defaultActivitySpan = time.Hour

// Activities converts generic rows into canonical activity records. End time
// resolution priority: explicit endTime, then startTime plus duration, then
// startTime plus one hour.
func Activities(objs []map[string]any) ([]any, []string) {
	objs = remapAll(objs, records.ImportActivities)

	var (
		recs     []any
		warnings []string
	)
	for i, obj := range objs {
		ts := TimeOrNow(obj["timestamp"])

		start := ts
		if t, ok := timeField(obj, "startTime"); ok {
			start = t
		}

		var end time.Time
		if t, ok := timeField(obj, "endTime"); ok {
			end = t
		} else if span, ok, warn := durationSpan(obj["duration"]); ok {
			end = start.Add(span)
			if warn != "" {
				warnings = append(warnings, rowWarning(i, "%s", warn))
			}
		} else {
			end = start.Add(defaultActivitySpan)
		}

		if end.Before(start) {
			warnings = append(warnings, rowWarning(i, "end time precedes start time; duration clamped to 00:00"))
		}

		level := records.ClampLevel(IntOrDefault(obj["level"], 0))

		kind := records.ActivityCompleted
		if s, ok := stringField(obj, "type"); ok && strings.EqualFold(s, string(records.ActivityExpected)) {
			kind = records.ActivityExpected
		}

		entry := records.ActivityEntry{
			Level:     level,
			StartTime: iso(start),
			EndTime:   iso(end),
			Duration:  derive.Duration(start, end),
			Type:      kind,
		}
		if s, ok := stringField(obj, "notes"); ok {
			entry.Notes = s
		}

		activity := records.Activity{Timestamp: iso(ts)}
		if kind == records.ActivityExpected {
			entry.ExpectedTime = entry.StartTime
			activity.ExpectedActivities = []records.ActivityEntry{entry}
		} else {
			entry.CompletedTime = entry.StartTime
			activity.CompletedActivities = []records.ActivityEntry{entry}
		}

		recs = append(recs, activity)
	}
	return recs, warnings
}

// durationSpan interprets a source duration value. "H:MM" and "HH:MM" parse
// as hours and minutes; a single numeric token is hours. ok is false when no
// duration was given at all; malformed values resolve to the default span
// with a warning rather than failing the row.
func durationSpan(v any) (span time.Duration, ok bool, warn string) {
	switch t := v.(type) {
	case nil:
		return 0, false, ""

	case float64:
		return time.Duration(t * float64(time.Hour)), true, ""

	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false, ""
		}
		if strings.Contains(s, ":") {
			parts := strings.Split(s, ":")
			if len(parts) == 2 {
				h, errH := strconv.Atoi(strings.TrimSpace(parts[0]))
				m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
				if errH == nil && errM == nil {
					return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, true, ""
				}
			}
			return defaultActivitySpan, true, "malformed duration " + strconv.Quote(s) + "; assuming one hour"
		}
		if hours, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(hours * float64(time.Hour)), true, ""
		}
		return defaultActivitySpan, true, "malformed duration " + strconv.Quote(s) + "; assuming one hour"

	default:
		return defaultActivitySpan, true, "duration has an unrecognized shape; assuming one hour"
	}
}
