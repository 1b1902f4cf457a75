// Package geojson normalizes raw portal payloads into typed weather
// observations and wraps stations into GeoJSON features.
package geojson

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is one station payload as returned by the portal, merged with
// directory metadata. Keys follow the upstream field names; values are
// whatever the JSON decoder produced, mostly numeric strings.
type Record map[string]any

// str returns the value under key rendered as a string, or "" when the
// key is absent, null, or not representable as text.
func (r Record) str(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// float walks the candidate keys in order and returns the first value
// that parses to a finite number. This is the declarative form of the
// portal's field-name fallback chains.
func (r Record) float(keys ...string) *float64 {
	for _, key := range keys {
		if f := ParseFloatSafe(r[key]); f != nil {
			return f
		}
	}
	return nil
}

// intOr parses an integer field, defaulting when absent or malformed.
func (r Record) intOr(key string, def int) int {
	s := strings.TrimSpace(r.str(key))
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// firstOf returns the first non-empty string among the candidate keys.
func (r Record) firstOf(keys ...string) string {
	for _, key := range keys {
		if s := r.str(key); s != "" {
			return s
		}
	}
	return ""
}

// ParseFloatSafe converts a raw payload value to a finite float.
// Empty strings, nulls, absent values, and non-numeric text all yield
// nil, so that absent readings marshal as JSON null instead of a bogus
// zero or NaN.
func ParseFloatSafe(v any) *float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return &t
	case json.Number:
		f, err := t.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	default:
		return nil
	}
}
