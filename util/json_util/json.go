// Package json_util handles the free-form JSON documents (location geometry)
// that are stored as serialized text.
package json_util

import (
	"errors"

	"github.com/goccy/go-json"
)

// RawMessage is a JSON raw message that marshals an empty value as "null".
type RawMessage []byte

func (m RawMessage) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("null"), nil
	}
	return m, nil
}

// UnmarshalJSON sets *m to a copy of the JSON data.
func (m *RawMessage) UnmarshalJSON(data []byte) error {
	if m == nil {
		return errors.New("json_util.RawMessage: UnmarshalJSON on nil pointer")
	}
	*m = append((*m)[0:0], data...)
	return nil
}

// Serialize decodes raw and returns its compact encoding for storage.
// Empty documents (null, {}, [], "", 0, false) serialize to nil.
func Serialize(raw RawMessage) (*string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if isEmpty(v) {
		return nil, nil
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(out)
	return &s, nil
}

// Deserialize decodes a stored document. Absent or undecodable text yields nil.
func Deserialize(s *string) (any, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(*s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
