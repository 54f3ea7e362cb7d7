package modelgen

import (
	"fmt"
	"strings"
)

// generationSystemPrompt instructs the model to propose a schema. Expected
// field hints are restated here so corrective retries cannot drop them.
func generationSystemPrompt(req *Request) string {
	var b strings.Builder
	b.WriteString("You are a data modeling expert. Analyze the provided sample data and propose a structured data model for it.\n")
	b.WriteString("Respond with a JSON object containing:\n")
	b.WriteString(`- "fields": an array of field definitions, each with "name", "type" (one of string, integer, number, boolean, array, object), optional "description", "required" (boolean), and optional "default"` + "\n")
	b.WriteString(`- "rationale": a short explanation of the modeling choices` + "\n")

	if len(req.ExpectedFields) > 0 {
		b.WriteString("\nThe model MUST include these fields:\n")
		for _, ef := range req.ExpectedFields {
			fmt.Fprintf(&b, "- %s", ef.Name)
			if ef.FieldType != "" {
				fmt.Fprintf(&b, " (%s)", ef.FieldType)
			}
			if ef.Description != "" {
				fmt.Fprintf(&b, ": %s", ef.Description)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// generationUserPrompt carries the sample data and requirements.
func generationUserPrompt(req *Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Model name: %s\n", req.ModelName)
	if req.Description != "" {
		fmt.Fprintf(&b, "Model description: %s\n", req.Description)
	}
	if req.Requirements != "" {
		fmt.Fprintf(&b, "Requirements: %s\n", req.Requirements)
	}
	b.WriteString("\nSample data:\n")
	b.WriteString(req.SampleData)
	return b.String()
}
