package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemaforge/schemaforge/internal/api"
	"github.com/schemaforge/schemaforge/internal/modelgen"
	"github.com/schemaforge/schemaforge/internal/svcctx"
)

// GenerateModelRequest is the request body for POST /api/v1/generate-model.
type GenerateModelRequest struct {
	SampleData   string `json:"sample_data"`
	ModelName    string `json:"model_name"`
	Description  string `json:"description,omitempty"`
	Requirements string `json:"requirements,omitempty"`

	// ExpectedFields are hints the generated model must include.
	ExpectedFields []modelgen.ExpectedField `json:"expected_fields,omitempty"`

	// LLMModelName is a "provider:model" identifier.
	LLMModelName string `json:"llm_model_name,omitempty"`
}

// GenerateModelResponse is the response body for POST /api/v1/generate-model.
type GenerateModelResponse struct {
	Success   bool                    `json:"success"`
	ModelName string                  `json:"model_name,omitempty"`
	ModelCode string                  `json:"model_code,omitempty"`
	Schema    json.RawMessage         `json:"schema,omitempty"`
	Fields    []modelgen.FieldSummary `json:"fields,omitempty"`
	Rationale string                  `json:"rationale,omitempty"`
	Error     string                  `json:"error,omitempty"`
	ModelUsed string                  `json:"model_used,omitempty"`
}

// GenerateModelEndpoint handles POST /api/v1/generate-model.
type GenerateModelEndpoint struct{}

func (e *GenerateModelEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/v1/generate-model", e.handler
}

func (e *GenerateModelEndpoint) Protected() bool { return true }

// handler godoc
//
//	@Summary		Generate a data model
//	@Description	Infer a data model from sample data and return its schema and Go source
//	@Tags			generate
//	@Accept			json
//	@Produce		json
//	@Param			request	body		GenerateModelRequest	true	"Generation request"
//	@Success		200		{object}	GenerateModelResponse
//	@Failure		400		{object}	GenerateModelResponse	"Invalid request or configuration"
//	@Failure		422		{object}	GenerateModelResponse	"Retries exhausted without a valid proposal"
//	@Failure		502		{object}	GenerateModelResponse	"Provider failure"
//	@Security		ApiKeyAuth
//	@Router			/api/v1/generate-model [post]
func (e *GenerateModelEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req GenerateModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	gen := svcctx.GeneratorFrom(r.Context())
	if gen == nil {
		writeError(w, http.StatusServiceUnavailable, "server not fully initialized")
		return
	}

	result := gen.Generate(r.Context(), &modelgen.Request{
		SampleData:     req.SampleData,
		ModelName:      req.ModelName,
		Description:    req.Description,
		Requirements:   req.Requirements,
		ExpectedFields: req.ExpectedFields,
		Model:          req.LLMModelName,
	})

	writeJSON(w, statusForFailure(result.FailureKind), GenerateModelResponse{
		Success:   result.Success,
		ModelName: result.ModelName,
		ModelCode: result.GoSource,
		Schema:    result.Schema,
		Fields:    result.Fields,
		Rationale: result.Rationale,
		Error:     result.Error,
		ModelUsed: result.ModelUsed,
	})
}

func (e *GenerateModelEndpoint) Command(getClient func() *api.Client) *cobra.Command {
	var requestFile string
	cmd := &cobra.Command{
		Use:   "generate-model",
		Short: "Infer a data model from sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(requestFile)
			if err != nil {
				return fmt.Errorf("failed to read request file: %w", err)
			}
			var req GenerateModelRequest
			if err := json.Unmarshal(body, &req); err != nil {
				return fmt.Errorf("invalid request file: %w", err)
			}

			var resp GenerateModelResponse
			if err := getClient().Post(cmd.Context(), "/api/v1/generate-model", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&requestFile, "file", "f", "", "JSON file with the generation request")
	cmd.MarkFlagRequired("file")
	return cmd
}
