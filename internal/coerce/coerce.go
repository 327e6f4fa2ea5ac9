// Package coerce converts the loosely typed values held by form controls
// (decoded JSON, YAML, or values set by a host UI) into comparable shapes.
package coerce

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// IsEmpty reports whether value is nil, an empty string, or an empty
// collection.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// IsBlank reports whether value is nil or the empty string. Collections and
// booleans are never blank: false and [] are explicit choices.
func IsBlank(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// Number converts numeric kinds and numeric strings to float64. Empty or
// unparseable strings and every other type report false.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// NumberOrNaN is Number with NaN standing in for values that do not coerce.
func NumberOrNaN(value any) float64 {
	if f, ok := Number(value); ok {
		return f
	}
	return math.NaN()
}

// Int converts a rule parameter to an int, truncating fractional bounds.
func Int(value any) (int, bool) {
	f, ok := Number(value)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// String renders value for substring and pattern checks. nil renders as the
// empty string and floats use the shortest representation ("18", not "18.0").
func String(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	}
	if list, ok := List(value); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = String(item)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(value)
}

// Length reports the length of strings (in runes) and collections.
func Length(value any) (int, bool) {
	if s, ok := value.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}

// List converts any slice or array into []any.
func List(value any) ([]any, bool) {
	if value == nil {
		return nil, false
	}
	if list, ok := value.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}

// StrictEqual compares two scalar values without cross-type coercion. Numbers
// compare by value regardless of the Go numeric type they were decoded into;
// strings, booleans and nil compare only with their own kind. Collections are
// never equal.
func StrictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if isNumeric(a) && isNumeric(b) {
		x, _ := Number(a)
		y, _ := Number(b)
		return x == y
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() || !ra.Type().Comparable() {
		return false
	}
	switch ra.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Struct, reflect.Func:
		return false
	}
	return a == b
}

// Contains reports whether list holds an element strictly equal to value.
func Contains(list []any, value any) bool {
	for _, item := range list {
		if StrictEqual(item, value) {
			return true
		}
	}
	return false
}

func isNumeric(value any) bool {
	switch value.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return true
	default:
		return false
	}
}
