package modelgen

import (
	"fmt"
	"strings"

	"github.com/schemaforge/schemaforge/internal/schema"
)

// initialisms are kept uppercase in generated identifiers.
var initialisms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"uri":  "URI",
	"api":  "API",
	"uuid": "UUID",
	"http": "HTTP",
	"json": "JSON",
	"html": "HTML",
	"sql":  "SQL",
	"ip":   "IP",
}

// GoModelSource renders a descriptor as Go struct declarations with json
// tags. Optional fields become pointers with omitempty; object fields become
// nested struct types.
func GoModelSource(modelName, description string, desc *schema.Descriptor) string {
	var b strings.Builder

	structName := exportedName(modelName)
	var nested []nestedStruct

	if description != "" {
		fmt.Fprintf(&b, "// %s %s\n", structName, strings.TrimRight(description, ".")+".")
	}
	writeStruct(&b, structName, desc.Fields, &nested)

	for i := 0; i < len(nested); i++ {
		n := nested[i]
		b.WriteString("\n")
		writeStruct(&b, n.name, n.fields, &nested)
	}

	return b.String()
}

type nestedStruct struct {
	name   string
	fields []schema.Field
}

func writeStruct(b *strings.Builder, name string, fields []schema.Field, nested *[]nestedStruct) {
	fmt.Fprintf(b, "type %s struct {\n", name)
	for _, f := range fields {
		goName := exportedName(f.Name)
		goType := goFieldType(name, f, nested)
		tag := f.Name
		if !f.Required {
			// Slices carry omitempty without indirection.
			if !strings.HasPrefix(goType, "[]") {
				goType = "*" + goType
			}
			tag += ",omitempty"
		}
		if f.Description != "" {
			fmt.Fprintf(b, "\t// %s\n", f.Description)
		}
		fmt.Fprintf(b, "\t%s %s `json:%q`\n", goName, goType, tag)
	}
	b.WriteString("}\n")
}

func goFieldType(parent string, f schema.Field, nested *[]nestedStruct) string {
	switch f.Type {
	case schema.TypeString, schema.TypeEnum:
		return "string"
	case schema.TypeInteger:
		return "int64"
	case schema.TypeNumber:
		return "float64"
	case schema.TypeBoolean:
		return "bool"
	case schema.TypeArray:
		if f.Items == nil {
			return "[]any"
		}
		item := *f.Items
		item.Required = true // element types are never pointers
		item.Name = strings.TrimSuffix(f.Name, "s")
		return "[]" + goFieldType(parent, item, nested)
	case schema.TypeObject:
		name := parent + exportedName(f.Name)
		*nested = append(*nested, nestedStruct{name: name, fields: f.Fields})
		return name
	default:
		return "any"
	}
}

// exportedName converts snake_case or kebab-case to an exported Go
// identifier, keeping common initialisms uppercase.
func exportedName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var b strings.Builder
	for _, part := range parts {
		lower := strings.ToLower(part)
		if up, ok := initialisms[lower]; ok {
			b.WriteString(up)
			continue
		}
		b.WriteString(strings.ToUpper(lower[:1]))
		b.WriteString(lower[1:])
	}
	if b.Len() == 0 {
		return "Model"
	}
	return b.String()
}
