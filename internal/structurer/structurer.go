// Package structurer orchestrates LLM-backed structured extraction: it
// prompts a provider, validates the response against a schema descriptor,
// and retries with corrective prompts until the response validates or the
// attempt ceiling is reached.
package structurer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/schemaforge/schemaforge/internal/llmcall"
	"github.com/schemaforge/schemaforge/internal/providers"
	"github.com/schemaforge/schemaforge/internal/schema"
)

// DefaultMaxAttempts bounds the validate-and-correct loop.
const DefaultMaxAttempts = 3

// FailureKind classifies why an extraction failed, for boundary-layer
// status mapping.
type FailureKind string

const (
	FailNone       FailureKind = ""
	FailSchema     FailureKind = "schema"
	FailConfig     FailureKind = "config"
	FailProvider   FailureKind = "provider"
	FailValidation FailureKind = "validation"
)

// Defaults are applied to requests that leave the corresponding field unset.
type Defaults struct {
	Model       string
	MaxAttempts int
	Temperature float64
}

// Request is one extraction job.
type Request struct {
	Content      string
	Descriptor   *schema.Descriptor
	SystemPrompt string

	// Model is a "provider:model" identifier. Empty uses the default.
	Model string

	// SchemaInPrompt embeds a textual schema description in the system
	// prompt in addition to the structured schema hint.
	SchemaInPrompt bool

	Temperature float64
	MaxAttempts int

	// Verify runs after descriptor validation on each attempt. Returned
	// field errors are treated exactly like validation errors: they feed
	// the corrective prompt and consume an attempt.
	Verify func(map[string]any) []schema.FieldError

	// Operation labels recorded calls ("structure" when empty).
	Operation string
}

// Attempt records one loop iteration.
type Attempt struct {
	Index       int                `json:"index"`
	Prompt      string             `json:"prompt"`
	RawResponse string             `json:"raw_response"`
	FieldErrors []schema.FieldError `json:"field_errors,omitempty"`
}

// Result is the outcome of an extraction. Failures are carried in the
// result rather than returned as errors.
type Result struct {
	Success     bool           `json:"success"`
	Data        map[string]any `json:"data,omitempty"`
	Error       string         `json:"error,omitempty"`
	FailureKind FailureKind    `json:"-"`

	Provider  string    `json:"provider,omitempty"`
	ModelUsed string    `json:"model_used,omitempty"`
	RequestID string    `json:"request_id"`
	Attempts  []Attempt `json:"-"`
}

// Orchestrator drives the extract-validate-correct loop.
type Orchestrator struct {
	registry *providers.Registry
	defaults Defaults
	recorder *llmcall.Recorder
	logger   *slog.Logger
}

// New creates an Orchestrator. recorder may be nil to disable call recording.
func New(registry *providers.Registry, defaults Defaults, recorder *llmcall.Recorder, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if defaults.MaxAttempts <= 0 {
		defaults.MaxAttempts = DefaultMaxAttempts
	}
	return &Orchestrator{
		registry: registry,
		defaults: defaults,
		recorder: recorder,
		logger:   logger,
	}
}

// validationFailure is the only retryable error inside the loop.
type validationFailure struct {
	rawResponse string
	fieldErrors []schema.FieldError
}

func (v *validationFailure) Error() string {
	return "validation failed: " + schema.JoinFieldErrors(v.fieldErrors)
}

// Structure runs one extraction job to completion.
func (o *Orchestrator) Structure(ctx context.Context, req *Request) *Result {
	requestID := uuid.New().String()
	result := &Result{RequestID: requestID}

	if req.Descriptor == nil || len(req.Descriptor.Fields) == 0 {
		result.Error = "schema descriptor has no fields"
		result.FailureKind = FailSchema
		return result
	}

	modelID := req.Model
	if modelID == "" {
		modelID = o.defaults.Model
	}
	provider, model, err := o.registry.Resolve(modelID)
	if err != nil {
		result.Error = err.Error()
		result.FailureKind = FailConfig
		return result
	}
	result.Provider = provider.Name()

	schemaHint, err := req.Descriptor.CanonicalSchema()
	if err != nil {
		result.Error = fmt.Sprintf("failed to build schema document: %v", err)
		result.FailureKind = FailSchema
		return result
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = o.defaults.Temperature
	}
	maxAttempts := req.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = o.defaults.MaxAttempts
	}
	operation := req.Operation
	if operation == "" {
		operation = "structure"
	}

	systemPrompt := buildSystemPrompt(req)

	var data map[string]any
	attempt := 0

	loopErr := retry.Do(
		func() error {
			attempt++

			userPrompt := buildUserPrompt(req)
			if n := len(result.Attempts); n > 0 {
				prev := result.Attempts[n-1]
				userPrompt = buildCorrectivePrompt(req.Descriptor, prev.RawResponse, prev.FieldErrors)
			}

			completion, err := provider.Complete(ctx, &providers.CompletionRequest{
				Messages:    providers.SystemAndUser(systemPrompt, userPrompt),
				Model:       model,
				Temperature: temperature,
				SchemaHint:  schemaHint,
				RequestID:   requestID,
			})
			if o.recorder != nil {
				o.recorder.Record(completion, llmcall.RecordOptions{
					Operation: operation,
					RequestID: requestID,
					Attempt:   attempt,
				})
			}
			if err != nil {
				return err
			}
			result.ModelUsed = completion.ModelUsed

			rec := Attempt{Index: attempt, Prompt: userPrompt, RawResponse: completion.Content}

			parsed := completion.ParsedJSON
			if len(parsed) == 0 {
				parsed, err = providers.ParseStructuredJSON(completion.Content)
				if err != nil {
					rec.FieldErrors = []schema.FieldError{{Field: "$", Message: "response is not valid JSON"}}
					result.Attempts = append(result.Attempts, rec)
					return &validationFailure{rawResponse: completion.Content, fieldErrors: rec.FieldErrors}
				}
			}

			var value any
			if err := json.Unmarshal(parsed, &value); err != nil {
				rec.FieldErrors = []schema.FieldError{{Field: "$", Message: "response is not valid JSON"}}
				result.Attempts = append(result.Attempts, rec)
				return &validationFailure{rawResponse: completion.Content, fieldErrors: rec.FieldErrors}
			}

			validated, fieldErrors := req.Descriptor.Validate(value)
			if len(fieldErrors) == 0 && req.Verify != nil {
				fieldErrors = req.Verify(validated)
			}
			if len(fieldErrors) > 0 {
				rec.FieldErrors = fieldErrors
				result.Attempts = append(result.Attempts, rec)
				o.logger.Warn("attempt failed validation",
					"request_id", requestID,
					"attempt", attempt,
					"errors", len(fieldErrors))
				return &validationFailure{rawResponse: completion.Content, fieldErrors: fieldErrors}
			}

			result.Attempts = append(result.Attempts, rec)
			data = validated
			return nil
		},
		retry.Attempts(uint(maxAttempts)),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(0),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			var vf *validationFailure
			return errors.As(err, &vf)
		}),
	)

	if loopErr != nil {
		o.classifyFailure(result, loopErr, attempt)
		return result
	}

	result.Success = true
	result.Data = data
	o.logger.Info("extraction complete",
		"request_id", requestID,
		"provider", result.Provider,
		"model", result.ModelUsed,
		"attempts", attempt)
	return result
}

func (o *Orchestrator) classifyFailure(result *Result, err error, attempts int) {
	var vf *validationFailure
	switch {
	case errors.As(err, &vf):
		result.FailureKind = FailValidation
		result.Error = fmt.Sprintf("response failed validation after %d attempts: %s", attempts, schema.JoinFieldErrors(vf.fieldErrors))
	case providers.IsConfigurationError(err):
		result.FailureKind = FailConfig
		result.Error = err.Error()
	case schema.IsSchemaError(err):
		result.FailureKind = FailSchema
		result.Error = err.Error()
	default:
		result.FailureKind = FailProvider
		result.Error = err.Error()
	}
	o.logger.Error("extraction failed",
		"request_id", result.RequestID,
		"kind", string(result.FailureKind),
		"attempts", attempts,
		"error", result.Error)
}
