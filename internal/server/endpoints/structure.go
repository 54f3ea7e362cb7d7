package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemaforge/schemaforge/internal/api"
	"github.com/schemaforge/schemaforge/internal/schema"
	"github.com/schemaforge/schemaforge/internal/structurer"
	"github.com/schemaforge/schemaforge/internal/svcctx"
)

// StructureRequest is the request body for POST /api/v1/structure.
type StructureRequest struct {
	// Content is the unstructured text to extract from.
	Content string `json:"content"`

	// SchemaDescription is either a JSON-Schema-shaped object or an array
	// of explicit field declarations.
	SchemaDescription json.RawMessage `json:"schema_description"`

	SystemPrompt string `json:"system_prompt,omitempty"`

	// ModelName is a "provider:model" identifier.
	ModelName string `json:"model_name,omitempty"`

	// NeedSchemaDescription embeds a textual schema description in the
	// system prompt.
	NeedSchemaDescription bool `json:"is_need_schema_description,omitempty"`
}

// StructureResponse is the response body for POST /api/v1/structure.
type StructureResponse struct {
	Success   bool           `json:"success"`
	Data      map[string]any `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
	ModelUsed string         `json:"model_used,omitempty"`
	Attempts  int            `json:"attempts,omitempty"`
}

// StructureEndpoint handles POST /api/v1/structure.
type StructureEndpoint struct{}

func (e *StructureEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/v1/structure", e.handler
}

func (e *StructureEndpoint) Protected() bool { return true }

// handler godoc
//
//	@Summary		Extract structured data
//	@Description	Extract structured data from unstructured content, validated against the provided schema
//	@Tags			structure
//	@Accept			json
//	@Produce		json
//	@Param			request	body		StructureRequest	true	"Extraction request"
//	@Success		200		{object}	StructureResponse
//	@Failure		400		{object}	StructureResponse	"Invalid schema or configuration"
//	@Failure		422		{object}	StructureResponse	"Retries exhausted without a valid response"
//	@Failure		502		{object}	StructureResponse	"Provider failure"
//	@Security		ApiKeyAuth
//	@Router			/api/v1/structure [post]
func (e *StructureEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req StructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content must not be empty")
		return
	}

	desc, err := parseSchemaDescription(req.SchemaDescription)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, StructureResponse{Success: false, Error: err.Error()})
		return
	}

	orch := svcctx.StructurerFrom(r.Context())
	if orch == nil {
		writeError(w, http.StatusServiceUnavailable, "server not fully initialized")
		return
	}

	result := orch.Structure(r.Context(), &structurer.Request{
		Content:        req.Content,
		Descriptor:     desc,
		SystemPrompt:   req.SystemPrompt,
		Model:          req.ModelName,
		SchemaInPrompt: req.NeedSchemaDescription,
	})

	writeJSON(w, statusForFailure(result.FailureKind), StructureResponse{
		Success:   result.Success,
		Data:      result.Data,
		Error:     result.Error,
		ModelUsed: result.ModelUsed,
		Attempts:  len(result.Attempts),
	})
}

// parseSchemaDescription accepts either a JSON Schema document (object) or
// an array of field declarations.
func parseSchemaDescription(raw json.RawMessage) (*schema.Descriptor, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("schema_description must not be empty")
	}

	switch firstJSONByte(raw) {
	case '[':
		var specs []schema.FieldSpec
		if err := json.Unmarshal(raw, &specs); err != nil {
			return nil, fmt.Errorf("invalid field list: %w", err)
		}
		return schema.FromFields(specs)
	case '{':
		return schema.Translate(raw)
	default:
		return nil, fmt.Errorf("schema_description must be an object or an array")
	}
}

func firstJSONByte(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

// statusForFailure maps extraction outcomes onto HTTP status codes.
func statusForFailure(kind structurer.FailureKind) int {
	switch kind {
	case structurer.FailNone:
		return http.StatusOK
	case structurer.FailSchema, structurer.FailConfig:
		return http.StatusBadRequest
	case structurer.FailValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (e *StructureEndpoint) Command(getClient func() *api.Client) *cobra.Command {
	var requestFile string
	cmd := &cobra.Command{
		Use:   "structure",
		Short: "Extract structured data from content",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(requestFile)
			if err != nil {
				return fmt.Errorf("failed to read request file: %w", err)
			}
			var req StructureRequest
			if err := json.Unmarshal(body, &req); err != nil {
				return fmt.Errorf("invalid request file: %w", err)
			}

			var resp StructureResponse
			if err := getClient().Post(cmd.Context(), "/api/v1/structure", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&requestFile, "file", "f", "", "JSON file with the extraction request")
	cmd.MarkFlagRequired("file")
	return cmd
}
