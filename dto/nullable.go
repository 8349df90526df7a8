package dto

import (
	"bytes"
	"encoding/json"
)

// NullString distinguishes an absent JSON field from an explicit null.
type NullString struct {
	String string
	Valid  bool // false when the JSON value was null
	Set    bool // true when the key was present
}

// UnmarshalJSON is only called when the key is present.
func (n *NullString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Valid = false
		n.String = ""
		return nil
	}
	if err := json.Unmarshal(data, &n.String); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// MarshalJSON writes null for an invalid value.
func (n NullString) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.String)
}

// Ptr returns nil for null and a pointer to the string otherwise.
func (n NullString) Ptr() *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}
