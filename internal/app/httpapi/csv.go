package httpapi

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// encodeCSV renders a slice of records as CSV. The header row is the JSON
// field names of the first record in declared order; string values are
// double-quoted with internal quotes doubled, other values render bare.
// An empty slice yields an empty document. Rows are joined with newlines
// with no trailing newline. Later records are assumed to share the first
// record's shape.
func encodeCSV[T any](records []T) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	fields := csvFields(reflect.TypeOf(records[0]))
	if len(fields) == 0 {
		return "", fmt.Errorf("type %T has no exported JSON fields", records[0])
	}

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.name)
	}

	for _, rec := range records {
		b.WriteByte('\n')
		v := reflect.ValueOf(rec)
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvCell(v.Field(f.index)))
		}
	}
	return b.String(), nil
}

type csvField struct {
	name  string
	index int
}

func csvFields(t reflect.Type) []csvField {
	fields := make([]csvField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag := sf.Tag.Get("json"); tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
		}
		fields = append(fields, csvField{name: name, index: i})
	}
	return fields
}

// csvCell renders one value. Nil pointers render empty; times render as
// RFC 3339 quoted, matching their JSON representation.
func csvCell(v reflect.Value) string {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	switch value := v.Interface().(type) {
	case time.Time:
		return quoteCSV(value.Format(time.RFC3339))
	case string:
		return quoteCSV(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case bool:
		return strconv.FormatBool(value)
	default:
		if v.Kind() == reflect.String {
			return quoteCSV(v.String())
		}
		return fmt.Sprintf("%v", value)
	}
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
