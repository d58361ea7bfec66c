// Package schema derives JSON Schema documents from Go types.
package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Generate produces a JSON Schema for the Go type T with every nested type
// inlined. It uses struct tags (json, jsonschema) to derive the schema.
func Generate[T any]() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	var zero T
	return r.Reflect(&zero)
}

// Properties returns the top-level properties of T's schema as plain maps,
// keyed by JSON name.
func Properties[T any]() map[string]any {
	return schemaProperties(Generate[T]())
}

// schemaProperties converts an ordered map of properties into a plain
// map[string]any.
func schemaProperties(s *jsonschema.Schema) map[string]any {
	if s.Properties == nil {
		return nil
	}
	props := make(map[string]any)
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		props[pair.Key] = propertySchema(pair.Value)
	}
	return props
}

// propertySchema converts a single property schema to a serializable map.
func propertySchema(s *jsonschema.Schema) map[string]any {
	m := make(map[string]any)

	if s.Type != "" {
		m["type"] = s.Type
	}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}

	// Nested object properties
	if s.Properties != nil && s.Properties.Len() > 0 {
		m["type"] = "object"
		m["properties"] = schemaProperties(s)
		if len(s.Required) > 0 {
			m["required"] = s.Required
		}
	}

	// Array items
	if s.Items != nil {
		m["items"] = propertySchema(s.Items)
	}

	return m
}

// GenerateJSON returns T's schema as indented JSON.
func GenerateJSON[T any]() (json.RawMessage, error) {
	return json.MarshalIndent(Generate[T](), "", "  ")
}
