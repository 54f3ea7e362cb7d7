package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// maxNestingDepth bounds descriptor recursion. The input document is a
// finite tree (no $ref), so this only guards against absurd inputs.
const maxNestingDepth = 32

// Translate converts a JSON-Schema-shaped document into a Descriptor.
// Supported keywords: type, properties, required, items, enum, anyOf/oneOf,
// description, default, title. $ref is rejected so the result is always
// acyclic. Structural problems return a *SchemaError and must be surfaced
// before any provider call.
func Translate(doc []byte) (*Descriptor, error) {
	root, err := decodeOrdered(doc)
	if err != nil {
		return nil, &SchemaError{Reason: "schema document is not valid JSON", Err: err}
	}

	obj, ok := root.(*orderedObject)
	if !ok {
		return nil, schemaErrorf("schema document must be a JSON object")
	}

	d, err := translateObject(obj, 0)
	if err != nil {
		return nil, err
	}
	if title, ok := obj.stringValue("title"); ok {
		d.Name = title
	}
	if desc, ok := obj.stringValue("description"); ok {
		d.Description = desc
	}
	return d, nil
}

func translateObject(obj *orderedObject, depth int) (*Descriptor, error) {
	if depth > maxNestingDepth {
		return nil, schemaErrorf("nesting exceeds %d levels", maxNestingDepth)
	}
	if obj.has("$ref") {
		return nil, schemaErrorf("$ref is not supported")
	}
	if typ, ok := obj.stringValue("type"); ok && typ != "object" {
		return nil, schemaErrorf("expected type \"object\", got %q", typ)
	}

	d := &Descriptor{}

	var props *orderedObject
	if v, ok := obj.get("properties"); ok {
		props, ok = v.(*orderedObject)
		if !ok {
			return nil, schemaErrorf("\"properties\" must be an object")
		}
	}

	required := map[string]bool{}
	if v, ok := obj.get("required"); ok {
		list, ok := v.([]any)
		if !ok {
			return nil, schemaErrorf("\"required\" must be an array of field names")
		}
		for _, item := range list {
			name, ok := item.(string)
			if !ok {
				return nil, schemaErrorf("\"required\" must contain only strings")
			}
			required[name] = true
		}
	}

	if props != nil {
		for _, name := range props.keys {
			raw, _ := props.get(name)
			fieldObj, ok := raw.(*orderedObject)
			if !ok {
				return nil, schemaErrorf("property %q must be an object", name)
			}
			field, err := translateField(name, fieldObj, depth+1)
			if err != nil {
				return nil, err
			}
			field.Required = required[name]
			d.Fields = append(d.Fields, *field)
			delete(required, name)
		}
	}

	// Required names that never appeared in properties are a structural bug
	// in the input, not something a corrective prompt can fix.
	for name := range required {
		return nil, schemaErrorf("required field %q is not declared in properties", name)
	}

	return d, nil
}

func translateField(name string, obj *orderedObject, depth int) (*Field, error) {
	if depth > maxNestingDepth {
		return nil, schemaErrorf("nesting exceeds %d levels", maxNestingDepth)
	}
	if obj.has("$ref") {
		return nil, schemaErrorf("field %q: $ref is not supported", name)
	}

	field := &Field{Name: name}
	if desc, ok := obj.stringValue("description"); ok {
		field.Description = desc
	}
	if def, ok := obj.get("default"); ok {
		field.Default = plainValue(def)
	}

	// enum wins over type: {"type":"string","enum":[...]} is still an enum.
	if v, ok := obj.get("enum"); ok {
		list, ok := v.([]any)
		if !ok || len(list) == 0 {
			return nil, schemaErrorf("field %q: \"enum\" must be a non-empty array", name)
		}
		field.Type = TypeEnum
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, schemaErrorf("field %q: enum values must be strings", name)
			}
			field.Enum = append(field.Enum, s)
		}
		return field, nil
	}

	if v, ok := obj.get("anyOf"); ok {
		return translateUnion(name, field, v)
	}
	if v, ok := obj.get("oneOf"); ok {
		return translateUnion(name, field, v)
	}

	typeVal, ok := obj.get("type")
	if !ok {
		return nil, schemaErrorf("field %q: missing \"type\"", name)
	}

	switch t := typeVal.(type) {
	case string:
		return translateTypedField(name, field, t, obj, depth)
	case []any:
		// ["string","null"] style: null only relaxes requiredness upstream.
		var variants []FieldType
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, schemaErrorf("field %q: type list must contain strings", name)
			}
			if s == "null" {
				continue
			}
			ft, err := primitiveType(name, s)
			if err != nil {
				return nil, err
			}
			variants = append(variants, ft)
		}
		switch len(variants) {
		case 0:
			return nil, schemaErrorf("field %q: type list has no usable types", name)
		case 1:
			field.Type = variants[0]
		default:
			field.Type = TypeUnion
			field.Variants = variants
		}
		return field, nil
	default:
		return nil, schemaErrorf("field %q: \"type\" must be a string", name)
	}
}

func translateTypedField(name string, field *Field, typ string, obj *orderedObject, depth int) (*Field, error) {
	switch typ {
	case "string":
		field.Type = TypeString
	case "integer":
		field.Type = TypeInteger
	case "number":
		field.Type = TypeNumber
	case "boolean":
		field.Type = TypeBoolean
	case "array":
		field.Type = TypeArray
		if v, ok := obj.get("items"); ok {
			itemsObj, ok := v.(*orderedObject)
			if !ok {
				return nil, schemaErrorf("field %q: \"items\" must be an object", name)
			}
			items, err := translateField(name+"[]", itemsObj, depth+1)
			if err != nil {
				return nil, err
			}
			items.Name = ""
			field.Items = items
		}
	case "object":
		field.Type = TypeObject
		nested, err := translateObject(obj, depth)
		if err != nil {
			return nil, err
		}
		field.Fields = nested.Fields
	default:
		return nil, schemaErrorf("field %q: unknown type keyword %q", name, typ)
	}
	return field, nil
}

func translateUnion(name string, field *Field, v any) (*Field, error) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, schemaErrorf("field %q: union must be a non-empty array", name)
	}
	field.Type = TypeUnion
	for _, item := range list {
		variantObj, ok := item.(*orderedObject)
		if !ok {
			return nil, schemaErrorf("field %q: union variants must be objects", name)
		}
		typ, ok := variantObj.stringValue("type")
		if !ok {
			return nil, schemaErrorf("field %q: union variant missing \"type\"", name)
		}
		if typ == "null" {
			continue
		}
		ft, err := primitiveType(name, typ)
		if err != nil {
			return nil, err
		}
		field.Variants = append(field.Variants, ft)
	}
	if len(field.Variants) == 0 {
		return nil, schemaErrorf("field %q: union has no usable variants", name)
	}
	return field, nil
}

func primitiveType(name, typ string) (FieldType, error) {
	switch typ {
	case "string":
		return TypeString, nil
	case "integer":
		return TypeInteger, nil
	case "number":
		return TypeNumber, nil
	case "boolean":
		return TypeBoolean, nil
	default:
		return "", schemaErrorf("field %q: union variants must be primitive, got %q", name, typ)
	}
}

// FieldSpec is an explicit field declaration, the alternative to a
// JSON-Schema document. Also used for the field lists proposed by the
// schema inference engine.
type FieldSpec struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Required    bool        `json:"required"`
	Default     any         `json:"default,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
	Items       *FieldSpec  `json:"items,omitempty"`
	Fields      []FieldSpec `json:"fields,omitempty"`
}

// FromFields builds a Descriptor from explicit field declarations.
// Duplicate field names and unknown type names are *SchemaError.
func FromFields(specs []FieldSpec) (*Descriptor, error) {
	fields, err := fieldsFromSpecs(specs, 0)
	if err != nil {
		return nil, err
	}
	return &Descriptor{Fields: fields}, nil
}

func fieldsFromSpecs(specs []FieldSpec, depth int) ([]Field, error) {
	if depth > maxNestingDepth {
		return nil, schemaErrorf("nesting exceeds %d levels", maxNestingDepth)
	}

	seen := map[string]bool{}
	fields := make([]Field, 0, len(specs))
	for _, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return nil, schemaErrorf("field name must not be empty")
		}
		if seen[name] {
			return nil, schemaErrorf("duplicate field name %q", name)
		}
		seen[name] = true

		field, err := fieldFromSpec(name, spec, depth)
		if err != nil {
			return nil, err
		}
		fields = append(fields, *field)
	}
	return fields, nil
}

func fieldFromSpec(name string, spec FieldSpec, depth int) (*Field, error) {
	ft, err := ParseFieldType(spec.Type)
	if err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("field %q", name), Err: err}
	}

	field := &Field{
		Name:        name,
		Type:        ft,
		Description: spec.Description,
		Required:    spec.Required,
		Default:     spec.Default,
	}

	switch ft {
	case TypeEnum:
		if len(spec.Enum) == 0 {
			return nil, schemaErrorf("field %q: enum requires allowed values", name)
		}
		field.Enum = append(field.Enum, spec.Enum...)
	case TypeArray:
		if spec.Items != nil {
			items, err := fieldFromSpec(name+"[]", *spec.Items, depth+1)
			if err != nil {
				return nil, err
			}
			items.Name = ""
			field.Items = items
		}
	case TypeObject:
		nested, err := fieldsFromSpecs(spec.Fields, depth+1)
		if err != nil {
			return nil, err
		}
		field.Fields = nested
	case TypeUnion:
		return nil, schemaErrorf("field %q: union fields require a JSON-Schema document with anyOf", name)
	}

	return field, nil
}

// orderedObject is a JSON object that preserves key declaration order and
// rejects duplicate keys. Values are string, bool, json.Number, nil, []any,
// or *orderedObject.
type orderedObject struct {
	keys   []string
	values map[string]any
}

func (o *orderedObject) get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *orderedObject) has(key string) bool {
	_, ok := o.values[key]
	return ok
}

func (o *orderedObject) stringValue(key string) (string, bool) {
	v, ok := o.values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func decodeOrdered(doc []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	// Trailing content after the document is an error.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected content after schema document")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := &orderedObject{values: map[string]any{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key := keyTok.(string)
				if obj.has(key) {
					return nil, fmt.Errorf("duplicate key %q", key)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.keys = append(obj.keys, key)
				obj.values[key] = val
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			var arr []any
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	default:
		return tok, nil
	}
}

// plainValue converts decodeOrdered output back into plain decoded-JSON
// values (map[string]any, []any, float64) for defaults and comparisons.
func plainValue(v any) any {
	switch t := v.(type) {
	case *orderedObject:
		m := make(map[string]any, len(t.keys))
		for _, k := range t.keys {
			m[k] = plainValue(t.values[k])
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plainValue(item)
		}
		return out
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	default:
		return v
	}
}
