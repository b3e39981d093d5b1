package protocol

import (
	"reflect"
	"strings"
	"time"
)

const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
)

// FormatTime renders a time value the way the wire format requires:
// midnight values as a bare date, everything else as date plus time.
func FormatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(DateFormat)
	}
	return t.Format(DateTimeFormat)
}

// canonicalize walks a value and replaces every time.Time with its
// canonical string form, so that JSON serialization never emits RFC3339
// timestamps on the wire.
func canonicalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return FormatTime(t)
	case *time.Time:
		if t == nil {
			return nil
		}
		return FormatTime(*t)
	case *Response:
		if t == nil {
			return nil
		}
		return canonicalize(t.wireMap())
	case Response:
		return canonicalize(t.wireMap())
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = canonicalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = canonicalize(val)
		}
		return out
	case []byte, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	}
	return canonicalizeReflect(reflect.ValueOf(v))
}

func canonicalizeReflect(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return canonicalize(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = canonicalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = canonicalize(iter.Value().Interface())
		}
		return out
	case reflect.Struct:
		return canonicalizeStruct(rv)
	default:
		return rv.Interface()
	}
}

// canonicalizeStruct flattens a struct into a map honoring json tags,
// so struct-typed response fields get the same date handling as maps.
func canonicalizeStruct(rv reflect.Value) any {
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		omitempty := false
		if tag, ok := field.Tag.Lookup("json"); ok {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					omitempty = true
				}
			}
		}
		fv := rv.Field(i)
		if omitempty && fv.IsZero() {
			continue
		}
		out[name] = canonicalize(fv.Interface())
	}
	return out
}
