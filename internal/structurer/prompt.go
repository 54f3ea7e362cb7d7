package structurer

import (
	"fmt"
	"strings"

	"github.com/schemaforge/schemaforge/internal/schema"
)

// DefaultSystemPrompt is used when a request does not supply one.
const DefaultSystemPrompt = "You are a data structuring expert. Please extract structured information from the provided content."

const maxEmbeddedResponse = 12000

// buildSystemPrompt assembles the system prompt, optionally embedding a
// textual schema description.
func buildSystemPrompt(req *Request) string {
	system := req.SystemPrompt
	if system == "" {
		system = DefaultSystemPrompt
	}
	if req.SchemaInPrompt && req.Descriptor != nil {
		system += "\n\nThe output must conform to the following schema:\n" + req.Descriptor.PromptDescription()
	}
	return system
}

// buildUserPrompt is the first-attempt user message.
func buildUserPrompt(req *Request) string {
	return "Content to extract from:\n" + req.Content
}

// buildCorrectivePrompt asks the model to fix a response that failed
// validation. It embeds the previous raw response and the exact field errors
// so the model can see what to change.
func buildCorrectivePrompt(desc *schema.Descriptor, rawResponse string, fieldErrors []schema.FieldError) string {
	raw := strings.TrimSpace(rawResponse)
	if len(raw) > maxEmbeddedResponse {
		raw = raw[:maxEmbeddedResponse] + "\n...[truncated]"
	}

	var b strings.Builder
	b.WriteString("Your previous response did not satisfy the required schema.\n\n")
	b.WriteString("Previous response:\n")
	b.WriteString(raw)
	b.WriteString("\n\nValidation errors:\n")
	for _, fe := range fieldErrors {
		fmt.Fprintf(&b, "- %s\n", fe.String())
	}
	if desc != nil {
		b.WriteString("\nRequired schema:\n")
		b.WriteString(desc.PromptDescription())
	}
	b.WriteString("\nReturn ONLY a corrected JSON object that fixes every error above. No markdown, no commentary.")
	return b.String()
}
