package schema

import (
	"reflect"
	"strings"
	"testing"
)

const personSchema = `{
	"title": "Person",
	"type": "object",
	"properties": {
		"name": {"type": "string", "description": "Full name"},
		"age": {"type": "integer"},
		"height": {"type": "number"},
		"occupation": {"type": "string"}
	},
	"required": ["name", "age", "height"]
}`

func TestTranslate_PreservesFieldOrder(t *testing.T) {
	d, err := Translate([]byte(personSchema))
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	want := []string{"name", "age", "height", "occupation"}
	if got := d.FieldNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("field order = %v, want %v", got, want)
	}

	name, ok := d.FieldByName("name")
	if !ok || !name.Required || name.Type != TypeString {
		t.Fatalf("name field = %+v, want required string", name)
	}
	occ, _ := d.FieldByName("occupation")
	if occ.Required {
		t.Fatal("occupation should be optional")
	}
}

func TestTranslate_Idempotent(t *testing.T) {
	d1, err := Translate([]byte(personSchema))
	if err != nil {
		t.Fatalf("first Translate() error = %v", err)
	}
	d2, err := Translate([]byte(personSchema))
	if err != nil {
		t.Fatalf("second Translate() error = %v", err)
	}
	if !reflect.DeepEqual(d1, d2) {
		t.Fatal("translating the same document twice produced different descriptors")
	}
}

func TestTranslate_StructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"type":`},
		{"not an object", `[1,2,3]`},
		{"wrong root type", `{"type":"array"}`},
		{"duplicate property", `{"type":"object","properties":{"a":{"type":"string"},"a":{"type":"integer"}}}`},
		{"unknown type keyword", `{"type":"object","properties":{"a":{"type":"decimal"}}}`},
		{"ref not supported", `{"type":"object","properties":{"a":{"$ref":"#/defs/a"}}}`},
		{"required without property", `{"type":"object","properties":{"a":{"type":"string"}},"required":["b"]}`},
		{"missing type", `{"type":"object","properties":{"a":{"description":"no type"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Translate([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !IsSchemaError(err) {
				t.Fatalf("expected SchemaError, got %T: %v", err, err)
			}
		})
	}
}

func TestTranslate_NestedAndComposite(t *testing.T) {
	doc := `{
		"type": "object",
		"properties": {
			"status": {"enum": ["active", "inactive"]},
			"tags": {"type": "array", "items": {"type": "string"}},
			"address": {
				"type": "object",
				"properties": {
					"city": {"type": "string"},
					"zip": {"type": "string"}
				},
				"required": ["city"]
			},
			"score": {"anyOf": [{"type": "integer"}, {"type": "string"}]}
		},
		"required": ["status"]
	}`

	d, err := Translate([]byte(doc))
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	status, _ := d.FieldByName("status")
	if status.Type != TypeEnum || len(status.Enum) != 2 {
		t.Fatalf("status = %+v, want enum of 2 values", status)
	}
	tags, _ := d.FieldByName("tags")
	if tags.Type != TypeArray || tags.Items == nil || tags.Items.Type != TypeString {
		t.Fatalf("tags = %+v, want array of string", tags)
	}
	addr, _ := d.FieldByName("address")
	if addr.Type != TypeObject || len(addr.Fields) != 2 {
		t.Fatalf("address = %+v, want object with 2 fields", addr)
	}
	if !addr.Fields[0].Required || addr.Fields[1].Required {
		t.Fatalf("address requiredness wrong: %+v", addr.Fields)
	}
	score, _ := d.FieldByName("score")
	if score.Type != TypeUnion || len(score.Variants) != 2 {
		t.Fatalf("score = %+v, want union of 2 variants", score)
	}
}

func TestFromFields(t *testing.T) {
	t.Run("builds descriptor", func(t *testing.T) {
		d, err := FromFields([]FieldSpec{
			{Name: "product_id", Type: "string", Required: true},
			{Name: "price", Type: "float", Required: true},
			{Name: "in_stock", Type: "bool", Default: true},
		})
		if err != nil {
			t.Fatalf("FromFields() error = %v", err)
		}
		if len(d.Fields) != 3 {
			t.Fatalf("got %d fields, want 3", len(d.Fields))
		}
		if d.Fields[1].Type != TypeNumber {
			t.Fatalf("price type = %s, want number", d.Fields[1].Type)
		}
	})

	t.Run("duplicate names rejected", func(t *testing.T) {
		_, err := FromFields([]FieldSpec{
			{Name: "a", Type: "string"},
			{Name: "a", Type: "integer"},
		})
		if !IsSchemaError(err) {
			t.Fatalf("expected SchemaError, got %v", err)
		}
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		_, err := FromFields([]FieldSpec{{Name: "a", Type: "datetime"}})
		if !IsSchemaError(err) {
			t.Fatalf("expected SchemaError, got %v", err)
		}
	})
}

func TestValidate(t *testing.T) {
	d, err := Translate([]byte(personSchema))
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	t.Run("accepts conforming object", func(t *testing.T) {
		out, errs := d.Validate(map[string]any{
			"name":       "John",
			"age":        float64(32),
			"height":     182.5,
			"occupation": "software engineer",
		})
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if out["name"] != "John" || out["age"] != float64(32) {
			t.Fatalf("validated data wrong: %v", out)
		}
	})

	t.Run("missing required fields enumerated", func(t *testing.T) {
		_, errs := d.Validate(map[string]any{"name": "John"})
		if len(errs) != 2 {
			t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
		}
		text := JoinFieldErrors(errs)
		if !strings.Contains(text, "age") || !strings.Contains(text, "height") {
			t.Fatalf("error text should name age and height: %s", text)
		}
	})

	t.Run("numeric string not coerced", func(t *testing.T) {
		_, errs := d.Validate(map[string]any{
			"name":   "John",
			"age":    "thirty-two",
			"height": 182.5,
		})
		if len(errs) != 1 || errs[0].Field != "age" {
			t.Fatalf("expected one error on age, got %v", errs)
		}
		if !strings.Contains(errs[0].Message, "expected integer") {
			t.Fatalf("message should say expected integer: %s", errs[0].Message)
		}
	})

	t.Run("non-integral number rejected for integer", func(t *testing.T) {
		_, errs := d.Validate(map[string]any{
			"name":   "John",
			"age":    32.5,
			"height": 182.5,
		})
		if len(errs) != 1 || errs[0].Field != "age" {
			t.Fatalf("expected one error on age, got %v", errs)
		}
	})

	t.Run("non-object input rejected", func(t *testing.T) {
		_, errs := d.Validate([]any{"not", "an", "object"})
		if len(errs) != 1 {
			t.Fatalf("expected one error, got %v", errs)
		}
	})
}

func TestValidate_DefaultsAndNesting(t *testing.T) {
	doc := `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"country": {"type": "string", "default": "US"},
			"address": {
				"type": "object",
				"properties": {"city": {"type": "string"}},
				"required": ["city"]
			},
			"scores": {"type": "array", "items": {"type": "integer"}}
		},
		"required": ["name", "address"]
	}`
	d, err := Translate([]byte(doc))
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	t.Run("default applied for missing optional", func(t *testing.T) {
		out, errs := d.Validate(map[string]any{
			"name":    "Ada",
			"address": map[string]any{"city": "London"},
		})
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if out["country"] != "US" {
			t.Fatalf("country default not applied: %v", out["country"])
		}
	})

	t.Run("nested errors carry paths", func(t *testing.T) {
		_, errs := d.Validate(map[string]any{
			"name":    "Ada",
			"address": map[string]any{},
			"scores":  []any{float64(1), "two"},
		})
		text := JoinFieldErrors(errs)
		if !strings.Contains(text, "address.city") {
			t.Fatalf("expected address.city error, got: %s", text)
		}
		if !strings.Contains(text, "scores[1]") {
			t.Fatalf("expected scores[1] error, got: %s", text)
		}
	})
}

func TestValidate_EnumCaseSensitive(t *testing.T) {
	d, err := FromFields([]FieldSpec{
		{Name: "status", Type: "enum", Enum: []string{"Active", "Inactive"}, Required: true},
	})
	if err != nil {
		t.Fatalf("FromFields() error = %v", err)
	}

	if _, errs := d.Validate(map[string]any{"status": "Active"}); len(errs) > 0 {
		t.Fatalf("exact match rejected: %v", errs)
	}
	if _, errs := d.Validate(map[string]any{"status": "active"}); len(errs) == 0 {
		t.Fatal("case-insensitive match should be rejected")
	}
}

func TestCanonicalSchema_RoundTrip(t *testing.T) {
	d, err := Translate([]byte(personSchema))
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	raw, err := d.CanonicalSchema()
	if err != nil {
		t.Fatalf("CanonicalSchema() error = %v", err)
	}

	d2, err := Translate(raw)
	if err != nil {
		t.Fatalf("re-translating canonical schema failed: %v", err)
	}
	if len(d2.Fields) != len(d.Fields) {
		t.Fatalf("round trip lost fields: %d != %d", len(d2.Fields), len(d.Fields))
	}

	if err := d.CompileCheck(); err != nil {
		t.Fatalf("CompileCheck() error = %v", err)
	}
}

func TestPromptDescription(t *testing.T) {
	d, err := Translate([]byte(personSchema))
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	text := d.PromptDescription()
	if !strings.Contains(text, "name (string, required)") {
		t.Fatalf("expected name field line, got: %s", text)
	}
	if !strings.Contains(text, "occupation (string, optional)") {
		t.Fatalf("expected occupation field line, got: %s", text)
	}
	if !strings.Contains(text, "Full name") {
		t.Fatalf("expected description text, got: %s", text)
	}
}
