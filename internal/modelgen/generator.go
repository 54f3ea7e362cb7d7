// Package modelgen infers data models from sample data. It drives the same
// validate-and-correct extraction loop as structured extraction, but against
// a meta-schema describing field proposals, and turns accepted proposals
// into schema descriptors and Go source.
package modelgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/schemaforge/schemaforge/internal/schema"
	"github.com/schemaforge/schemaforge/internal/structurer"
)

// ExpectedField is a caller-supplied hint that must survive into the
// proposed model.
type ExpectedField struct {
	Name        string `json:"name"`
	FieldType   string `json:"field_type,omitempty"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
}

// Request is one model generation job.
type Request struct {
	SampleData     string
	ModelName      string
	Description    string
	Requirements   string
	ExpectedFields []ExpectedField

	// Model is a "provider:model" identifier. Empty uses the default.
	Model string
}

// FieldSummary describes one field of the generated model.
type FieldSummary struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
}

// Result is the outcome of a generation job.
type Result struct {
	Success     bool                   `json:"success"`
	Error       string                 `json:"error,omitempty"`
	FailureKind structurer.FailureKind `json:"-"`

	ModelName  string             `json:"model_name,omitempty"`
	Descriptor *schema.Descriptor `json:"-"`
	Schema     json.RawMessage    `json:"schema,omitempty"`
	GoSource   string             `json:"model_code,omitempty"`
	Fields     []FieldSummary     `json:"fields,omitempty"`
	Rationale  string             `json:"rationale,omitempty"`

	Provider  string `json:"provider,omitempty"`
	ModelUsed string `json:"model_used,omitempty"`
	RequestID string `json:"request_id"`
	Attempts  int    `json:"-"`
}

// Generator runs generation jobs through an extraction orchestrator.
type Generator struct {
	orch   *structurer.Orchestrator
	logger *slog.Logger
}

// New creates a Generator.
func New(orch *structurer.Orchestrator, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{orch: orch, logger: logger}
}

// metaDescriptor is the schema the LLM's proposal must satisfy. Field types
// are plain strings so the verify hook can report unknown types as field
// errors instead of enum mismatches.
func metaDescriptor() *schema.Descriptor {
	return &schema.Descriptor{
		Fields: []schema.Field{
			{
				Name:     "fields",
				Type:     schema.TypeArray,
				Required: true,
				Items: &schema.Field{
					Type: schema.TypeObject,
					Fields: []schema.Field{
						{Name: "name", Type: schema.TypeString, Required: true},
						{Name: "type", Type: schema.TypeString, Required: true},
						{Name: "description", Type: schema.TypeString},
						{Name: "required", Type: schema.TypeBoolean, Default: false},
						{Name: "default", Type: schema.TypeUnion, Variants: []schema.FieldType{
							schema.TypeString, schema.TypeNumber, schema.TypeBoolean,
						}},
					},
				},
			},
			{Name: "rationale", Type: schema.TypeString, Required: true},
		},
	}
}

// Generate runs one generation job to completion. Like Structure, failures
// are carried in the result.
func (g *Generator) Generate(ctx context.Context, req *Request) *Result {
	result := &Result{ModelName: req.ModelName}

	if req.SampleData == "" {
		result.Error = "sample data must not be empty"
		result.FailureKind = structurer.FailSchema
		return result
	}
	if req.ModelName == "" {
		result.Error = "model name must not be empty"
		result.FailureKind = structurer.FailSchema
		return result
	}

	extraction := g.orch.Structure(ctx, &structurer.Request{
		Content:      generationUserPrompt(req),
		Descriptor:   metaDescriptor(),
		SystemPrompt: generationSystemPrompt(req),
		Model:        req.Model,
		Verify:       func(data map[string]any) []schema.FieldError { return verifyProposal(req, data) },
		Operation:    "generate_model",
	})

	result.Provider = extraction.Provider
	result.ModelUsed = extraction.ModelUsed
	result.RequestID = extraction.RequestID
	result.Attempts = len(extraction.Attempts)

	if !extraction.Success {
		result.Error = extraction.Error
		result.FailureKind = extraction.FailureKind
		return result
	}

	specs, _ := proposalSpecs(extraction.Data)
	desc, err := schema.FromFields(specs)
	if err != nil {
		// Verify accepted the proposal, so this should not happen.
		result.Error = fmt.Sprintf("accepted proposal failed translation: %v", err)
		result.FailureKind = structurer.FailSchema
		return result
	}
	desc.Name = req.ModelName
	desc.Description = req.Description

	canonical, err := desc.CanonicalSchema()
	if err != nil {
		result.Error = fmt.Sprintf("failed to build schema document: %v", err)
		result.FailureKind = structurer.FailSchema
		return result
	}

	result.Success = true
	result.Descriptor = desc
	result.Schema = canonical
	result.GoSource = GoModelSource(req.ModelName, req.Description, desc)
	result.Fields = fieldSummaries(desc)
	if rationale, ok := extraction.Data["rationale"].(string); ok {
		result.Rationale = rationale
	}

	g.logger.Info("model generated",
		"request_id", result.RequestID,
		"model_name", req.ModelName,
		"fields", len(result.Fields),
		"attempts", result.Attempts)
	return result
}

// verifyProposal translates the proposed field list and checks it against
// the expected-field hints. Problems come back as field errors so they feed
// the corrective retry loop.
func verifyProposal(req *Request, data map[string]any) []schema.FieldError {
	specs, errs := proposalSpecs(data)
	if len(errs) > 0 {
		return errs
	}
	if len(specs) == 0 {
		return []schema.FieldError{{Field: "fields", Message: "proposal contains no fields"}}
	}

	desc, err := schema.FromFields(specs)
	if err != nil {
		return []schema.FieldError{{Field: "fields", Message: err.Error()}}
	}
	if err := desc.CompileCheck(); err != nil {
		return []schema.FieldError{{Field: "fields", Message: fmt.Sprintf("proposed schema does not compile: %v", err)}}
	}

	var fieldErrs []schema.FieldError
	for _, ef := range req.ExpectedFields {
		if _, ok := desc.FieldByName(ef.Name); !ok {
			fieldErrs = append(fieldErrs, schema.FieldError{
				Field:   "fields",
				Message: fmt.Sprintf("expected field %q missing from proposal", ef.Name),
			})
		}
	}
	return fieldErrs
}

// proposalSpecs converts the validated proposal into field specs.
func proposalSpecs(data map[string]any) ([]schema.FieldSpec, []schema.FieldError) {
	raw, _ := data["fields"].([]any)
	specs := make([]schema.FieldSpec, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, []schema.FieldError{{Field: fmt.Sprintf("fields[%d]", i), Message: "field definition must be an object"}}
		}
		spec := schema.FieldSpec{}
		spec.Name, _ = obj["name"].(string)
		spec.Type, _ = obj["type"].(string)
		spec.Description, _ = obj["description"].(string)
		spec.Required, _ = obj["required"].(bool)
		spec.Default = obj["default"]
		specs = append(specs, spec)
	}
	return specs, nil
}

func fieldSummaries(desc *schema.Descriptor) []FieldSummary {
	out := make([]FieldSummary, 0, len(desc.Fields))
	for _, f := range desc.Fields {
		out = append(out, FieldSummary{
			Name:        f.Name,
			Type:        string(f.Type),
			Description: f.Description,
			Required:    f.Required,
			Default:     f.Default,
		})
	}
	return out
}
