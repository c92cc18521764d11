// Package transform converts generic parsed rows/objects into canonical
// domain records, one registry entry per import type.
//
// Transformers never fail for a single malformed row: bad timestamps and
// numerics are corrected to documented defaults so one bad line does not
// abort the batch. Rows that cannot produce any record at all (for example a
// blood sugar row with no reading) are dropped with a warning.
package transform

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order after RFC3339. They cover the formats
// older exports of the application emit.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseTimestamp attempts to parse a source timestamp string. Layouts
// without a zone are interpreted as UTC. The boolean reports success;
// callers decide the fallback.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TimeOrNow parses a source timestamp value, falling back to the current UTC
// time on any failure. The fallback is deliberately "now at transformation
// time", not a fixed epoch, so imported records still sort sensibly.
func TimeOrNow(v any) time.Time {
	if s, ok := stringValue(v); ok {
		if t, parsed := ParseTimestamp(s); parsed {
			return t
		}
	}
	return time.Now().UTC()
}

// FloatOrDefault parses a numeric source value, returning def on any
// failure. JSON numbers pass through; strings are parsed.
func FloatOrDefault(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return def
}

// FloatIfPresent parses obj[key] as a float only when the field carries a
// value; absent or empty fields return nil rather than zero. A present but
// unparsable value falls back to zero, consistent with FloatOrDefault.
func FloatIfPresent(obj map[string]any, key string) *float64 {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return nil
	}
	f := FloatOrDefault(v, 0)
	return &f
}

// IntOrDefault parses an integer source value, returning def on any failure.
// Float-typed JSON numbers are truncated.
func IntOrDefault(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
		// Integer fields sometimes arrive as "2.0".
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return int(f)
		}
	}
	return def
}

// stringValue renders a scalar source value as a trimmed string. Empty and
// nil values report ok=false so callers can treat them as absent.
func stringValue(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		s = fmt.Sprint(t)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// stringField returns the trimmed string value of obj[key]; ok is false when
// the field is absent or empty.
func stringField(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key]
	if !ok {
		return "", false
	}
	return stringValue(v)
}

// timeField parses obj[key] as a timestamp; ok is false when the field is
// absent, empty, or unparsable.
func timeField(obj map[string]any, key string) (time.Time, bool) {
	s, ok := stringField(obj, key)
	if !ok {
		return time.Time{}, false
	}
	return ParseTimestamp(s)
}

// iso renders a timestamp in the wire format every canonical record uses.
func iso(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
