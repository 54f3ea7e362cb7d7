package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// CanonicalSchema serializes the descriptor as a canonical JSON Schema
// document. This is what gets handed to providers as a schema hint and what
// the generation API returns to callers.
func (d *Descriptor) CanonicalSchema() (json.RawMessage, error) {
	doc := map[string]any{
		"type": "object",
	}
	if d.Name != "" {
		doc["title"] = d.Name
	}
	if d.Description != "" {
		doc["description"] = d.Description
	}

	props, required := canonicalFields(d.Fields)
	doc["properties"] = props
	if len(required) > 0 {
		doc["required"] = required
	}
	doc["additionalProperties"] = false

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize canonical schema: %w", err)
	}
	return raw, nil
}

func canonicalFields(fields []Field) (map[string]any, []string) {
	props := make(map[string]any, len(fields))
	var required []string
	for _, f := range fields {
		props[f.Name] = canonicalField(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return props, required
}

func canonicalField(f Field) map[string]any {
	node := map[string]any{}
	if f.Description != "" {
		node["description"] = f.Description
	}
	if f.Default != nil {
		node["default"] = f.Default
	}

	switch f.Type {
	case TypeEnum:
		node["type"] = "string"
		node["enum"] = f.Enum
	case TypeUnion:
		variants := make([]any, len(f.Variants))
		for i, v := range f.Variants {
			variants[i] = map[string]any{"type": string(v)}
		}
		node["anyOf"] = variants
	case TypeArray:
		node["type"] = "array"
		if f.Items != nil {
			node["items"] = canonicalField(*f.Items)
		}
	case TypeObject:
		node["type"] = "object"
		props, required := canonicalFields(f.Fields)
		node["properties"] = props
		if len(required) > 0 {
			node["required"] = required
		}
	default:
		node["type"] = string(f.Type)
	}
	return node
}

// CompileCheck verifies the canonical schema document compiles as a real
// JSON Schema. Used as a structural sanity check on inferred schemas before
// they are returned to callers.
func (d *Descriptor) CompileCheck() error {
	raw, err := d.CanonicalSchema()
	if err != nil {
		return &SchemaError{Reason: "canonical schema serialization failed", Err: err}
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(raw)); err != nil {
		return &SchemaError{Reason: "failed to load canonical schema", Err: err}
	}
	if _, err := compiler.Compile("schema.json"); err != nil {
		return &SchemaError{Reason: "canonical schema does not compile", Err: err}
	}
	return nil
}
