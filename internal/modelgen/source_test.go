package modelgen

import (
	"strings"
	"testing"

	"github.com/schemaforge/schemaforge/internal/schema"
)

func TestGoModelSource(t *testing.T) {
	desc, err := schema.FromFields([]schema.FieldSpec{
		{Name: "user_id", Type: "integer", Required: true},
		{Name: "name", Type: "string", Description: "Full name", Required: true},
		{Name: "tags", Type: "array", Items: &schema.FieldSpec{Type: "string"}},
		{Name: "address", Type: "object", Required: true, Fields: []schema.FieldSpec{
			{Name: "city", Type: "string", Required: true},
			{Name: "zip", Type: "string"},
		}},
	})
	if err != nil {
		t.Fatalf("FromFields: %v", err)
	}

	src := GoModelSource("user_profile", "A user profile", desc)

	for _, want := range []string{
		"// UserProfile A user profile.",
		"type UserProfile struct {",
		"UserID int64 `json:\"user_id\"`",
		"// Full name",
		"Name string `json:\"name\"`",
		"Tags []string `json:\"tags,omitempty\"`",
		"Address UserProfileAddress `json:\"address\"`",
		"type UserProfileAddress struct {",
		"City string `json:\"city\"`",
		"Zip *string `json:\"zip,omitempty\"`",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("source missing %q:\n%s", want, src)
		}
	}
}

func TestExportedName(t *testing.T) {
	tests := map[string]string{
		"user_id":    "UserID",
		"api-key":    "APIKey",
		"simple":     "Simple",
		"http_url":   "HTTPURL",
		"order item": "OrderItem",
		"":           "Model",
	}
	for in, want := range tests {
		if got := exportedName(in); got != want {
			t.Errorf("exportedName(%q) = %q, want %q", in, got, want)
		}
	}
}
