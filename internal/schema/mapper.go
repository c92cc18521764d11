package schema

import "strings"

// MapFields matches observed source headers to canonical field names using
// case-insensitive exact matching on each field's label and aliases.
//
// Headers with no canonical counterpart are ignored; canonical fields with no
// matching header are simply absent from the result. Matching never fails.
func MapFields(observedHeaders []string, fields []FieldSpec) map[string]string {
	// Index every accepted spelling once, lowercased.
	byLabel := make(map[string]string, len(fields)*2)
	for _, f := range fields {
		byLabel[strings.ToLower(f.Label)] = f.Name
		byLabel[strings.ToLower(f.Name)] = f.Name
		for _, alias := range f.Aliases {
			byLabel[strings.ToLower(alias)] = f.Name
		}
	}

	mapping := make(map[string]string)
	for _, header := range observedHeaders {
		if canonical, ok := byLabel[strings.ToLower(strings.TrimSpace(header))]; ok {
			// First matching header wins for a given canonical field.
			if _, taken := mapping[canonical]; !taken {
				mapping[canonical] = header
			}
		}
	}
	return mapping
}

// Remap rewrites an object's keys to canonical field names using the tables
// for the given fields. Keys that map to nothing are kept as-is so
// transformers can still see unexpected source fields.
func Remap(obj map[string]any, fields []FieldSpec) map[string]any {
	headers := make([]string, 0, len(obj))
	for k := range obj {
		headers = append(headers, k)
	}
	mapping := MapFields(headers, fields)

	// Invert: observed header -> canonical name.
	toCanonical := make(map[string]string, len(mapping))
	for canonical, header := range mapping {
		toCanonical[header] = canonical
	}

	out := make(map[string]any, len(obj))
	for k, v := range obj {
		if canonical, ok := toCanonical[k]; ok {
			out[canonical] = v
		} else if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}
