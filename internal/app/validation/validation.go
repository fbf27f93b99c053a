// Package validation checks untyped request payloads against the entity
// schemas and produces typed insert/patch values for the storage layer.
// Validators are composed per field so the nullable/optional overrides are
// explicit instead of patched onto a generated schema at runtime.
package validation

import (
	"fmt"
	"strings"
	"time"
)

// Failure reasons reported per field.
const (
	ReasonMissing          = "missing"
	ReasonInvalidType      = "invalid_type"
	ReasonInvalidEnum      = "invalid_enum"
	ReasonInvalidTimestamp = "invalid_timestamp"
	ReasonDuplicate        = "duplicate"
)

// FieldError describes a single failed field.
type FieldError struct {
	Field   string `json:"field"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Error aggregates field-level failures for one payload.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "validation failed: " + strings.Join(names, ", ")
}

// NewFieldError builds a single-field validation error. Services use it to
// surface domain conflicts (duplicate email) in the same shape as schema
// failures.
func NewFieldError(field, reason, message string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Reason: reason, Message: message}}}
}

// issues collects field errors while a schema walks its payload.
type issues struct {
	fields []FieldError
}

func (i *issues) add(field, reason, format string, args ...any) {
	i.fields = append(i.fields, FieldError{
		Field:   field,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	})
}

func (i *issues) err() error {
	if len(i.fields) == 0 {
		return nil
	}
	return &Error{Fields: i.fields}
}

// Field extractors. Each distinguishes absent, null, wrong type and (for
// enums and timestamps) invalid values, so the reported reason is precise.

func requireString(raw map[string]any, field string, iss *issues) (string, bool) {
	v, present := raw[field]
	if !present || v == nil {
		iss.add(field, ReasonMissing, "%s is required", field)
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		iss.add(field, ReasonInvalidType, "%s must be a string", field)
		return "", false
	}
	return s, true
}

func optionalString(raw map[string]any, field string, iss *issues) (*string, bool) {
	v, present := raw[field]
	if !present || v == nil {
		return nil, true
	}
	s, ok := v.(string)
	if !ok {
		iss.add(field, ReasonInvalidType, "%s must be a string", field)
		return nil, false
	}
	return &s, true
}

func requireEnum(raw map[string]any, field string, allowed []string, iss *issues) (string, bool) {
	s, ok := requireString(raw, field, iss)
	if !ok {
		return "", false
	}
	if !contains(allowed, s) {
		iss.add(field, ReasonInvalidEnum, "%s must be one of %s", field, strings.Join(allowed, ", "))
		return "", false
	}
	return s, true
}

func optionalEnum(raw map[string]any, field string, allowed []string, iss *issues) (*string, bool) {
	s, ok := optionalString(raw, field, iss)
	if !ok || s == nil {
		return nil, ok
	}
	if !contains(allowed, *s) {
		iss.add(field, ReasonInvalidEnum, "%s must be one of %s", field, strings.Join(allowed, ", "))
		return nil, false
	}
	return s, true
}

func requireInt(raw map[string]any, field string, iss *issues) (int, bool) {
	v, present := raw[field]
	if !present || v == nil {
		iss.add(field, ReasonMissing, "%s is required", field)
		return 0, false
	}
	// encoding/json decodes all numbers as float64.
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		iss.add(field, ReasonInvalidType, "%s must be an integer", field)
		return 0, false
	}
	return int(f), true
}

// requireTimestamp accepts an ISO-8601 date-time string or a numeric Unix
// millisecond timestamp and normalizes to time.Time.
func requireTimestamp(raw map[string]any, field string, iss *issues) (time.Time, bool) {
	v, present := raw[field]
	if !present || v == nil {
		iss.add(field, ReasonMissing, "%s is required", field)
		return time.Time{}, false
	}
	t, ok := coerceTimestamp(v)
	if !ok {
		iss.add(field, ReasonInvalidTimestamp, "%s must be an RFC3339 date-time or unix milliseconds", field)
		return time.Time{}, false
	}
	return t, true
}

func optionalTimestamp(raw map[string]any, field string, iss *issues) (*time.Time, bool) {
	v, present := raw[field]
	if !present || v == nil {
		return nil, true
	}
	t, ok := coerceTimestamp(v)
	if !ok {
		iss.add(field, ReasonInvalidTimestamp, "%s must be an RFC3339 date-time or unix milliseconds", field)
		return nil, false
	}
	return &t, true
}

func optionalObject(raw map[string]any, field string, iss *issues) (map[string]any, bool) {
	v, present := raw[field]
	if !present || v == nil {
		return nil, true
	}
	m, ok := v.(map[string]any)
	if !ok {
		iss.add(field, ReasonInvalidType, "%s must be an object", field)
		return nil, false
	}
	return m, true
}

func coerceTimestamp(v any) (time.Time, bool) {
	switch val := v.(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, val); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	case float64:
		return time.UnixMilli(int64(val)).UTC(), true
	default:
		return time.Time{}, false
	}
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
