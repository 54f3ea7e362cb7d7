package endpoints

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/schemaforge/schemaforge/internal/api"
	"github.com/schemaforge/schemaforge/internal/llmcall"
	"github.com/schemaforge/schemaforge/internal/svcctx"
)

// LLMCallsResponse contains recent LLM calls.
type LLMCallsResponse struct {
	Calls []*llmcall.Call `json:"calls"`
	Total int             `json:"total"`
}

// ListLLMCallsEndpoint handles GET /api/v1/llm-calls.
type ListLLMCallsEndpoint struct{}

func (e *ListLLMCallsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/v1/llm-calls", e.handler
}

func (e *ListLLMCallsEndpoint) Protected() bool { return true }

// handler godoc
//
//	@Summary		List recent LLM calls
//	@Description	Get recent provider calls with timing, token usage, and outcome
//	@Tags			llmcalls
//	@Produce		json
//	@Param			limit	query		int	false	"Max results (default 100)"
//	@Success		200		{object}	LLMCallsResponse
//	@Security		ApiKeyAuth
//	@Router			/api/v1/llm-calls [get]
func (e *ListLLMCallsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	recorder := svcctx.RecorderFrom(r.Context())
	if recorder == nil {
		writeError(w, http.StatusServiceUnavailable, "server not fully initialized")
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, LLMCallsResponse{
		Calls: recorder.Recent(limit),
		Total: recorder.Total(),
	})
}

func (e *ListLLMCallsEndpoint) Command(getClient func() *api.Client) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "llm-calls",
		Short: "List recent LLM provider calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp LLMCallsResponse
			path := fmt.Sprintf("/api/v1/llm-calls?limit=%d", limit)
			if err := getClient().Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of calls to return")
	return cmd
}
