package application

// Field is one entry of a caller-supplied field map. The slice preserves the
// order fields appeared in the request body, so "first disallowed field"
// is deterministic for a given request.
type Field struct {
	Name  string
	Value any
}

// checkAllowed is the allow-list gate that runs before any ownership check on
// field-map updates. The first field not in allowed rejects the entire
// request, naming that field.
func checkAllowed(fields []Field, allowed map[string]bool) error {
	if len(fields) == 0 {
		return &FieldError{Field: "body", Reason: "no fields to update"}
	}
	for _, f := range fields {
		if !allowed[f.Name] {
			return &FieldError{Field: f.Name, Reason: "field not allowed"}
		}
	}
	return nil
}

func stringValue(f Field) (string, error) {
	s, ok := f.Value.(string)
	if !ok {
		return "", &FieldError{Field: f.Name, Reason: "expected string"}
	}
	return s, nil
}

func floatValue(f Field) (float64, error) {
	switch v := f.Value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, &FieldError{Field: f.Name, Reason: "expected number"}
	}
}
