package core

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/segmentio/encoding/json"
)

const (
	ContentTypeText = "text/plain"
	ContentTypeJSON = "application/json"
)

// Field is one key/value pair of a Map.
type Field struct {
	Key   string
	Value any
}

// Map is a flat JSON object whose keys are written in insertion order.
type Map []Field

// Set replaces the value of an existing key or appends a new field.
func (m Map) Set(key string, value any) Map {
	for i := range m {
		if m[i].Key == key {
			m[i].Value = value
			return m
		}
	}
	return append(m, Field{Key: key, Value: value})
}

func (m Map) Get(key string) (any, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, f := range m {
		keys[i] = f.Key
	}
	return keys
}

func (m Map) MarshalJSON() ([]byte, error) {
	seen := make(map[string]struct{}, len(m))

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if _, dup := seen[f.Key]; dup {
			return nil, fmt.Errorf("duplicate key %q", f.Key)
		}
		seen[f.Key] = struct{}{}

		if !isPrimitive(f.Value) {
			return nil, fmt.Errorf("key %q holds unsupported %T", f.Key, f.Value)
		}

		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Serialize converts a handler return value into a response body and its
// content type. Strings pass through as text; flat mappings become JSON.
func Serialize(value any) ([]byte, string, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), ContentTypeText, nil
	case Map:
		body, err := v.MarshalJSON()
		if err != nil {
			return nil, "", &SerializationError{Value: value, Err: err}
		}
		return body, ContentTypeJSON, nil
	default:
		fields, ok := stringKeyed(value)
		if !ok {
			return nil, "", &SerializationError{Value: value}
		}
		for key, val := range fields {
			if !isPrimitive(val) {
				return nil, "", &SerializationError{
					Value: value,
					Err:   fmt.Errorf("key %q holds unsupported %T", key, val),
				}
			}
		}
		body, err := json.Marshal(fields)
		if err != nil {
			return nil, "", &SerializationError{Value: value, Err: err}
		}
		return body, ContentTypeJSON, nil
	}
}

// stringKeyed copies any map whose key kind is string, such as
// map[string]float64, into a map[string]any.
func stringKeyed(value any) (map[string]any, bool) {
	if m, ok := value.(map[string]any); ok && m != nil {
		return m, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	fields := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		fields[iter.Key().String()] = iter.Value().Interface()
	}
	return fields, true
}

func isPrimitive(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
