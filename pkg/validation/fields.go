package validation

import (
	"encoding/json"
	"errors"
	"io"
)

// OrderedField is one top-level member of a JSON object body, in document
// order. Field-map endpoints reject on the first disallowed field, so the
// iteration order has to match the order the client sent. A plain
// map[string]any loses it.
type OrderedField struct {
	Name  string
	Value any
}

// DecodeOrderedFields reads a flat JSON object from r, preserving the order
// of its top-level keys. Nested values are decoded like encoding/json would
// decode into any.
func DecodeOrderedFields(r io.Reader) ([]OrderedField, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.New("invalid json body")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("body must be a json object")
	}

	var out []OrderedField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.New("invalid json body")
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.New("invalid json body")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.New("invalid json body")
		}
		var val any
		if err := json.Unmarshal(raw, &val); err != nil {
			return nil, errors.New("invalid json body")
		}
		out = append(out, OrderedField{Name: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.New("invalid json body")
	}
	return out, nil
}
