package schema

import (
	"errors"
	"fmt"
	"strings"
)

// SchemaError indicates a structurally invalid schema input (duplicate field
// names, unknown type keyword, unsupported nesting). It is fatal: callers
// must not issue any provider call for the request that produced it.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid schema: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid schema: %s", e.Reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IsSchemaError reports whether err is (or wraps) a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Reason: fmt.Sprintf(format, args...)}
}

// FieldError describes a single field-level validation failure.
// Field is a dotted path from the root ("age", "address.city", "tags[2]").
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("field %s: %s", e.Field, e.Message)
}

// JoinFieldErrors renders field errors one per line, the form embedded in
// corrective prompts and error summaries.
func JoinFieldErrors(errs []FieldError) string {
	lines := make([]string, len(errs))
	for i, fe := range errs {
		lines[i] = fe.String()
	}
	return strings.Join(lines, "\n")
}

func joinPath(parent, field string) string {
	if parent == "" {
		return field
	}
	return parent + "." + field
}
