package db

import "encoding/json"

// MarshalJSONB encodes a value for a jsonb column, passing nil through so
// empty document sections stay NULL.
func MarshalJSONB(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// UnmarshalJSONB decodes a jsonb column, treating NULL as absent.
func UnmarshalJSONB(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
