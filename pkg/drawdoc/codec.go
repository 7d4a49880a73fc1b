package drawdoc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Serialize encodes elements as the portable JSON array format.
func Serialize(elements []Element) ([]byte, error) {
	if elements == nil {
		elements = []Element{}
	}
	return json.MarshalIndent(elements, "", "  ")
}

// Deserialize decodes and structurally validates a JSON element array.
// Validation fails fast on the first offending entry and the returned error
// names its index and field.
func Deserialize(data []byte) ([]Element, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("drawdoc: parse: %w", err)
	}
	entries, ok := root.([]any)
	if !ok {
		return nil, ErrNotArray
	}
	for i, entry := range entries {
		if err := validateEntry(entry); err != nil {
			return nil, fmt.Errorf("%w: element[%d]%s", ErrInvalidElement, i, err.Error())
		}
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("drawdoc: parse: %w", err)
	}
	out := make([]Element, 0, len(raws))
	for i, raw := range raws {
		var el Element
		if err := json.Unmarshal(raw, &el); err != nil {
			return nil, fmt.Errorf("%w: element[%d]: %v", ErrInvalidElement, i, err)
		}
		if err := CheckShape(el); err != nil {
			return nil, fmt.Errorf("%w: element[%d].points: %w", ErrInvalidElement, i, err)
		}
		out = append(out, el)
	}
	return out, nil
}

// validateEntry returns an error whose message starts with the offending
// field path, e.g. ".points[2].x: expected number".
func validateEntry(entry any) error {
	obj, ok := entry.(map[string]any)
	if !ok {
		return errors.New(": expected object")
	}
	if _, ok := obj["id"].(string); !ok {
		return errors.New(".id: expected string")
	}
	typ, ok := obj["type"].(string)
	if !ok {
		return errors.New(".type: expected string")
	}
	if !ElementType(typ).Valid() {
		return fmt.Errorf(".type: unknown element type %q", typ)
	}
	points, ok := obj["points"].([]any)
	if !ok {
		return errors.New(".points: expected array")
	}
	for j, p := range points {
		pt, ok := p.(map[string]any)
		if !ok {
			return fmt.Errorf(".points[%d]: expected object", j)
		}
		if _, ok := pt["x"].(float64); !ok {
			return fmt.Errorf(".points[%d].x: expected number", j)
		}
		if _, ok := pt["y"].(float64); !ok {
			return fmt.Errorf(".points[%d].y: expected number", j)
		}
	}
	style, ok := obj["style"].(map[string]any)
	if !ok {
		return errors.New(".style: expected object")
	}
	if _, ok := style["strokeColor"].(string); !ok {
		return errors.New(".style.strokeColor: expected string")
	}
	if _, ok := style["strokeWidth"].(float64); !ok {
		return errors.New(".style.strokeWidth: expected number")
	}
	if _, ok := obj["layerId"].(string); !ok {
		return errors.New(".layerId: expected string")
	}
	return nil
}
