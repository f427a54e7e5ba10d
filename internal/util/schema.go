// Package util holds small shared helpers: a minimal JSON-Schema subset for
// tool argument validation and reflection-based schema derivation.
package util

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidationError reports one argument failing schema validation.
type ValidationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidateArgs checks args against a minimal JSON-Schema object: required
// fields must be present and typed fields must match. Extra fields are
// allowed.
func ValidateArgs(args map[string]any, schema map[string]any) error {
	required, _ := schema["required"].([]any)
	for _, entry := range required {
		name, ok := entry.(string)
		if !ok {
			continue
		}
		if _, present := args[name]; !present {
			return &ValidationError{Field: name, Message: "required field is missing"}
		}
	}
	// required may also be declared as []string when built in Go code.
	if names, ok := schema["required"].([]string); ok {
		for _, name := range names {
			if _, present := args[name]; !present {
				return &ValidationError{Field: name, Message: "required field is missing"}
			}
		}
	}

	properties, _ := schema["properties"].(map[string]any)
	for name, value := range args {
		prop, ok := properties[name].(map[string]any)
		if !ok {
			continue
		}
		want, _ := prop["type"].(string)
		if !matchesType(value, want) {
			return &ValidationError{
				Field:   name,
				Value:   value,
				Message: fmt.Sprintf("expected type %s, got %T", want, value),
			}
		}
	}
	return nil
}

// SchemaFromStruct derives a parameter schema from a struct's exported
// fields. JSON tags control naming; `description` tags become property
// descriptions; pointer and omitempty fields are optional.
func SchemaFromStruct(structType any) map[string]any {
	t := reflect.TypeOf(structType)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	properties := map[string]any{}
	var required []string

	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			tag := field.Tag.Get("json")
			if tag == "-" {
				continue
			}

			name := field.Name
			tagParts := strings.Split(tag, ",")
			if tagParts[0] != "" {
				name = tagParts[0]
			}

			prop := map[string]any{"type": jsonType(field.Type)}
			if desc := field.Tag.Get("description"); desc != "" {
				prop["description"] = desc
			}
			properties[name] = prop

			optional := field.Type.Kind() == reflect.Ptr
			for _, part := range tagParts[1:] {
				if strings.TrimSpace(part) == "omitempty" {
					optional = true
				}
			}
			if !optional {
				required = append(required, name)
			}
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Ptr:
		return jsonType(t.Elem())
	default:
		return "string"
	}
}

func matchesType(value any, want string) bool {
	if value == nil {
		return true
	}
	switch want {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer":
		switch v := value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64:
			// JSON numbers decode as float64; accept integral values.
			return v == float64(int64(v))
		}
		return false
	case "number":
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
			float32, float64:
			return true
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true
	}
}
