package schema

import "encoding/json"

// ApplyDefaults merges the schema's property defaults into a JSON object,
// filling in any top-level keys the input does not carry. Empty or absent
// input is treated as an empty object. The returned document is what tool
// handlers actually decode, so defaults are applied once, before decoding,
// instead of being scattered across handler bodies.
func (s *Schema) ApplyDefaults(input json.RawMessage) (json.RawMessage, error) {
	if s.Type != typeObject || len(s.Properties) == 0 {
		if len(input) == 0 {
			return json.RawMessage(`{}`), nil
		}
		return input, nil
	}

	obj := make(map[string]json.RawMessage)
	if len(input) > 0 {
		if err := json.Unmarshal(input, &obj); err != nil {
			return nil, err
		}
	}

	changed := false
	for name, prop := range s.Properties {
		if prop.Default == nil {
			continue
		}
		if _, present := obj[name]; present {
			continue
		}
		raw, err := json.Marshal(prop.Default)
		if err != nil {
			return nil, err
		}
		obj[name] = raw
		changed = true
	}

	if !changed && len(input) > 0 {
		return input, nil
	}
	return json.Marshal(obj)
}
