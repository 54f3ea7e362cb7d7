package schema

import (
	"fmt"
	"math"
)

// Validate checks a decoded JSON value against the descriptor.
// On success it returns the validated object with declared defaults applied
// for missing optional fields. On failure it returns the field-level errors;
// the returned map is nil.
//
// Typing is strict: numeric strings are not coerced to numbers, integers
// must be whole, enum comparison is case-sensitive. Anything looser would
// mask LLM formatting mistakes instead of feeding them back as corrections.
func (d *Descriptor) Validate(value any) (map[string]any, []FieldError) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, []FieldError{{Field: "", Message: fmt.Sprintf("expected a JSON object, got %s", typeName(value))}}
	}

	out, errs := validateFields(d.Fields, obj, "")
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func validateFields(fields []Field, obj map[string]any, path string) (map[string]any, []FieldError) {
	var errs []FieldError
	out := make(map[string]any, len(fields))

	for _, f := range fields {
		fieldPath := joinPath(path, f.Name)
		raw, present := obj[f.Name]

		if !present || raw == nil {
			if f.Required {
				errs = append(errs, FieldError{Field: fieldPath, Message: fmt.Sprintf("missing required field of type %s", fieldTypeLabel(f))})
				continue
			}
			if f.Default != nil {
				out[f.Name] = f.Default
			}
			continue
		}

		val, fieldErrs := validateValue(f, raw, fieldPath)
		if len(fieldErrs) > 0 {
			errs = append(errs, fieldErrs...)
			continue
		}
		out[f.Name] = val
	}

	return out, errs
}

func validateValue(f Field, raw any, path string) (any, []FieldError) {
	switch f.Type {
	case TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, []FieldError{typeMismatch(path, "string", raw)}
		}
		return s, nil

	case TypeInteger:
		n, ok := raw.(float64)
		if !ok {
			return nil, []FieldError{typeMismatch(path, "integer", raw)}
		}
		if n != math.Trunc(n) {
			return nil, []FieldError{{Field: path, Message: fmt.Sprintf("expected integer, got non-integral number %v", n)}}
		}
		return n, nil

	case TypeNumber:
		n, ok := raw.(float64)
		if !ok {
			return nil, []FieldError{typeMismatch(path, "number", raw)}
		}
		return n, nil

	case TypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, []FieldError{typeMismatch(path, "boolean", raw)}
		}
		return b, nil

	case TypeEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, []FieldError{typeMismatch(path, "enum value", raw)}
		}
		for _, allowed := range f.Enum {
			if s == allowed {
				return s, nil
			}
		}
		return nil, []FieldError{{Field: path, Message: fmt.Sprintf("value %q is not one of the allowed values %v", s, f.Enum)}}

	case TypeArray:
		arr, ok := raw.([]any)
		if !ok {
			return nil, []FieldError{typeMismatch(path, "array", raw)}
		}
		if f.Items == nil {
			return arr, nil
		}
		var errs []FieldError
		out := make([]any, 0, len(arr))
		for i, item := range arr {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			val, itemErrs := validateValue(*f.Items, item, itemPath)
			if len(itemErrs) > 0 {
				errs = append(errs, itemErrs...)
				continue
			}
			out = append(out, val)
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return out, nil

	case TypeObject:
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, []FieldError{typeMismatch(path, "object", raw)}
		}
		out, errs := validateFields(f.Fields, obj, path)
		if len(errs) > 0 {
			return nil, errs
		}
		return out, nil

	case TypeUnion:
		for _, variant := range f.Variants {
			probe := Field{Name: f.Name, Type: variant, Enum: f.Enum}
			if val, errs := validateValue(probe, raw, path); len(errs) == 0 {
				return val, nil
			}
		}
		return nil, []FieldError{{Field: path, Message: fmt.Sprintf("expected %s, got %s", fieldTypeLabel(f), typeName(raw))}}

	default:
		return nil, []FieldError{{Field: path, Message: fmt.Sprintf("unsupported field type %q", f.Type)}}
	}
}

func typeMismatch(path, want string, got any) FieldError {
	return FieldError{Field: path, Message: fmt.Sprintf("expected %s, got %s", want, typeName(got))}
}

func typeName(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("string %q", t)
	case float64:
		return fmt.Sprintf("number %v", t)
	case bool:
		return fmt.Sprintf("boolean %v", t)
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
