package schema

import (
	"strings"

	"go.uber.org/zap"

	"github.com/yatradesk/tourdata/internal/model"
)

// Validate filters raw candidates against the schema and returns the
// surviving records in input order, plus the count of dropped candidates.
// A rejected candidate never aborts the batch; it is counted and logged at
// debug level. Pure apart from logging: no I/O, records are not stamped
// with source or fetch time here.
func Validate(candidates []map[string]any, s Schema, subject model.Subject) ([]model.Record, int) {
	records := make([]model.Record, 0, len(candidates))
	dropped := 0

	for i, cand := range candidates {
		rec, reason := validateOne(cand, s, subject)
		if reason != "" {
			dropped++
			zap.L().Debug("schema: candidate rejected",
				zap.String("kind", string(s.Kind)),
				zap.String("subject", subject.String()),
				zap.Int("index", i),
				zap.String("reason", reason),
			)
			continue
		}
		records = append(records, rec)
	}

	return records, dropped
}

// validateOne returns the validated record, or a non-empty rejection reason.
func validateOne(cand map[string]any, s Schema, subject model.Subject) (model.Record, string) {
	payload := make(map[string]any, len(s.Fields))

	rawName, _ := lookup(cand, "name")
	name, ok := stringValue(rawName)
	if !ok || name == "" {
		return model.Record{}, "missing name"
	}

	for _, f := range s.Fields {
		raw, present := lookup(cand, f.Key, f.Aliases...)
		val, reason := coerce(raw, present, f)
		if reason != "" {
			return model.Record{}, f.Key + ": " + reason
		}
		payload[f.Key] = val
	}

	payload["name"] = name
	if s.Derive != nil {
		s.Derive(payload)
	}

	return model.Record{
		Kind:    s.Kind,
		Subject: subject,
		Name:    name,
		Payload: payload,
	}, ""
}

// coerce applies the field's type rule. An empty reason means the value (or
// its default) was accepted.
func coerce(raw any, present bool, f Field) (any, string) {
	if !present || raw == nil {
		if f.Required {
			return nil, "missing"
		}
		return defaultFor(f), ""
	}

	switch f.Type {
	case TypeString:
		s, ok := stringValue(raw)
		if !ok || s == "" {
			if f.Required {
				return nil, "not a string"
			}
			return defaultFor(f), ""
		}
		return s, ""

	case TypeStringList:
		return stringList(raw), ""

	case TypeFloat:
		n, ok := floatValue(raw)
		if !ok {
			return nil, "not a number"
		}
		if outOfRange(n, f) {
			return nil, "out of range"
		}
		return n, ""

	case TypeInt:
		n, ok := floatValue(raw)
		if !ok {
			return nil, "not a number"
		}
		if outOfRange(n, f) {
			return nil, "out of range"
		}
		return int(n), ""

	case TypeBool:
		if b, ok := raw.(bool); ok {
			return b, ""
		}
		return defaultFor(f), ""

	case TypeObjectList:
		items, ok := raw.([]any)
		if !ok {
			return defaultFor(f), ""
		}
		objs := make([]any, 0, len(items))
		for _, it := range items {
			if m, ok := it.(map[string]any); ok {
				objs = append(objs, trimStrings(m))
			}
		}
		return objs, ""

	case TypeCoordinates:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, "not an object"
		}
		lat, latOK := floatValue(m["lat"])
		lon, lonOK := floatValue(m["lon"])
		if !latOK || !lonOK {
			return nil, "lat/lon not numbers"
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, "lat/lon out of range"
		}
		return map[string]any{"lat": lat, "lon": lon}, ""
	}

	return nil, "unknown field type"
}

func defaultFor(f Field) any {
	if f.Default != nil {
		return f.Default
	}
	switch f.Type {
	case TypeStringList:
		return []string{}
	case TypeObjectList:
		return []any{}
	case TypeBool:
		return false
	default:
		return nil
	}
}

// lookup finds a value under the primary key or any alias.
func lookup(cand map[string]any, key string, aliases ...string) (any, bool) {
	if v, ok := cand[key]; ok {
		return v, true
	}
	for _, a := range aliases {
		if v, ok := cand[a]; ok {
			return v, true
		}
	}
	return nil, false
}

func stringValue(raw any) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func floatValue(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func outOfRange(n float64, f Field) bool {
	if f.Min != nil && n < *f.Min {
		return true
	}
	if f.Max != nil && n > *f.Max {
		return true
	}
	return false
}

// stringList coerces a value to a trimmed []string, dropping non-string
// elements. Anything that is not list-shaped becomes an empty list.
func stringList(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func trimStrings(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = strings.TrimSpace(s)
		} else {
			out[k] = v
		}
	}
	return out
}
