// Package propbag provides typed access to schema property bags.
//
// Schema elements arrive as map[string]any (decoded YAML/JSON). This
// package bridges between the schemaless bag and typed Go structs using
// struct tags, tolerating the value shapes YAML decoding produces
// ([]any for sequences, float64 for numbers).
//
// Usage:
//
//	type props struct {
//	    IsA      string         `bag:"is_a"`
//	    Subsets  []string       `bag:"in_subset"`
//	    Mappings []string       `bag:"mappings"`
//	    Rest     map[string]any `bag:",rest"`
//	}
//
//	// Read: map → struct
//	var p props
//	propbag.Scan(raw, &p)
//
//	// Write: struct → map (Rest keys flattened back in)
//	raw = propbag.From(p)
package propbag

import (
	"reflect"
	"strings"
)

// Scan reads values from a map[string]any into a struct using `bag` tags.
// Fields without a matching key are left at their zero value. A
// map[string]any field tagged `bag:",rest"` collects every key not claimed
// by another tag. Handles JSON number coercion (float64 → int) and []any →
// []string with non-string entries skipped.
func Scan(m map[string]any, dst any) {
	if m == nil {
		return
	}

	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	claimed := make(map[string]bool, t.NumField())
	restIdx := -1

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key, rest := tagKey(field)
		if rest {
			restIdx = i
			continue
		}
		if key == "" {
			continue
		}
		claimed[key] = true

		val, ok := m[key]
		if !ok || val == nil {
			continue
		}

		setField(v.Field(i), val)
	}

	if restIdx >= 0 && v.Field(restIdx).Type() == reflect.TypeOf(map[string]any(nil)) {
		rest := make(map[string]any)
		for key, val := range m {
			if !claimed[key] {
				rest[key] = val
			}
		}
		if len(rest) > 0 {
			v.Field(restIdx).Set(reflect.ValueOf(rest))
		}
	}
}

// From converts a struct into a map[string]any using `bag` tags. Fields
// tagged "omitempty" are skipped at their zero value. A `bag:",rest"` map
// field is flattened into the result first, so tagged fields win on key
// collisions.
func From(src any) map[string]any {
	v := reflect.ValueOf(src)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	m := make(map[string]any)

	// Rest first so tagged fields overwrite colliding keys.
	for i := 0; i < t.NumField(); i++ {
		_, rest := tagKey(t.Field(i))
		if !rest {
			continue
		}
		if restMap, ok := v.Field(i).Interface().(map[string]any); ok {
			for key, val := range restMap {
				m[key] = val
			}
		}
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("bag")
		if tag == "" || tag == "-" {
			continue
		}

		key, omitempty, rest := parseTag(tag)
		if rest || key == "" {
			continue
		}
		fv := v.Field(i)

		if omitempty && fv.IsZero() {
			continue
		}

		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}

		m[key] = fv.Interface()
	}

	return m
}

func tagKey(f reflect.StructField) (key string, rest bool) {
	tag := f.Tag.Get("bag")
	if tag == "" || tag == "-" {
		return "", false
	}
	key, _, rest = parseTag(tag)
	return key, rest
}

func parseTag(tag string) (key string, omitempty, rest bool) {
	parts := strings.Split(tag, ",")
	key = parts[0]
	for _, opt := range parts[1:] {
		switch opt {
		case "omitempty":
			omitempty = true
		case "rest":
			rest = true
		}
	}
	return
}

func setField(fv reflect.Value, val any) {
	switch fv.Kind() {
	case reflect.String:
		if s, ok := val.(string); ok {
			fv.SetString(s)
		}

	case reflect.Int, reflect.Int64:
		switch n := val.(type) {
		case float64:
			fv.SetInt(int64(n))
		case int:
			fv.SetInt(int64(n))
		case int64:
			fv.SetInt(n)
		}

	case reflect.Float64:
		if n, ok := val.(float64); ok {
			fv.SetFloat(n)
		}

	case reflect.Bool:
		if b, ok := val.(bool); ok {
			fv.SetBool(b)
		}

	case reflect.Slice:
		if fv.Type().Elem().Kind() == reflect.String {
			switch items := val.(type) {
			case []string:
				fv.Set(reflect.ValueOf(items))
			case []any:
				strs := make([]string, 0, len(items))
				for _, item := range items {
					if s, ok := item.(string); ok {
						strs = append(strs, s)
					}
				}
				fv.Set(reflect.ValueOf(strs))
			}
		}

	case reflect.Pointer:
		// *float64, *bool for optional numeric/flag properties
		if fv.Type().Elem().Kind() == reflect.Float64 {
			if n, ok := val.(float64); ok {
				fv.Set(reflect.ValueOf(&n))
			}
		}
		if fv.Type().Elem().Kind() == reflect.Bool {
			if b, ok := val.(bool); ok {
				fv.Set(reflect.ValueOf(&b))
			}
		}
	}
}
