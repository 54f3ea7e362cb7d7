// Package schema translates externally supplied schema documents into
// provider-agnostic descriptors and validates decoded JSON against them.
// Every extraction and generation request flows through this package before
// any LLM call is made.
package schema

import (
	"fmt"
	"strings"
)

// FieldType is the declared type of a schema field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
	TypeEnum    FieldType = "enum"
	TypeUnion   FieldType = "union"
)

// ParseFieldType normalizes a type name into a FieldType.
// Accepts common aliases ("str", "int", "float", "bool", "list", "dict")
// since callers and LLM proposals are loose about naming.
func ParseFieldType(name string) (FieldType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "str", "text":
		return TypeString, nil
	case "integer", "int":
		return TypeInteger, nil
	case "number", "float", "double":
		return TypeNumber, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	case "array", "list":
		return TypeArray, nil
	case "object", "dict", "map":
		return TypeObject, nil
	case "enum":
		return TypeEnum, nil
	case "union":
		return TypeUnion, nil
	default:
		return "", fmt.Errorf("unknown field type %q", name)
	}
}

// Field describes one field of a Descriptor.
// Exactly one of Enum/Items/Fields/Variants is populated, depending on Type.
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool
	Default     any

	// Enum holds the allowed values when Type is TypeEnum (case-sensitive).
	Enum []string
	// Items describes the element type when Type is TypeArray. A nil Items
	// accepts elements of any type.
	Items *Field
	// Fields holds the nested descriptor fields when Type is TypeObject.
	Fields []Field
	// Variants holds the accepted primitive types when Type is TypeUnion.
	Variants []FieldType
}

// Descriptor is the internal representation of a target data shape.
// Field order follows the declaration order of the source document.
// Descriptors are immutable once built and live only for the request that
// created them.
type Descriptor struct {
	Name        string
	Description string
	Fields      []Field
}

// PromptDescription renders the descriptor as a human-readable field list
// suitable for embedding in an LLM prompt.
func (d *Descriptor) PromptDescription() string {
	var b strings.Builder
	if d.Description != "" {
		b.WriteString(d.Description)
		b.WriteString("\n")
	}
	b.WriteString("Fields:\n")
	writeFieldLines(&b, d.Fields, 0)
	return b.String()
}

func writeFieldLines(b *strings.Builder, fields []Field, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, f := range fields {
		req := "optional"
		if f.Required {
			req = "required"
		}
		b.WriteString(fmt.Sprintf("%s- %s (%s, %s)", indent, f.Name, fieldTypeLabel(f), req))
		if f.Description != "" {
			b.WriteString(": " + f.Description)
		}
		b.WriteString("\n")
		if f.Type == TypeObject {
			writeFieldLines(b, f.Fields, depth+1)
		}
		if f.Type == TypeArray && f.Items != nil && f.Items.Type == TypeObject {
			writeFieldLines(b, f.Items.Fields, depth+1)
		}
	}
}

func fieldTypeLabel(f Field) string {
	switch f.Type {
	case TypeEnum:
		return fmt.Sprintf("enum of %s", strings.Join(f.Enum, "|"))
	case TypeArray:
		if f.Items != nil {
			return fmt.Sprintf("array of %s", fieldTypeLabel(*f.Items))
		}
		return "array"
	case TypeUnion:
		parts := make([]string, len(f.Variants))
		for i, v := range f.Variants {
			parts[i] = string(v)
		}
		return strings.Join(parts, " or ")
	default:
		return string(f.Type)
	}
}

// FieldNames returns the top-level field names in declaration order.
func (d *Descriptor) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldByName returns the top-level field with the given name.
func (d *Descriptor) FieldByName(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
