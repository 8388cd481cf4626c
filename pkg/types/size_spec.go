package types

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
)

// SizeSpec captures the sizing choice for one nail set: either a standard
// kit size or ten per-finger measurements. Persisted as JSONB.
type SizeSpec struct {
	Mode   enums.SizeMode `json:"mode"`
	Values []string       `json:"values,omitempty"`
}

// Clone returns a deep copy so edit buffers never alias committed state.
func (s SizeSpec) Clone() SizeSpec {
	out := SizeSpec{Mode: s.Mode}
	if s.Values != nil {
		out.Values = append([]string(nil), s.Values...)
	}
	return out
}

// Value serializes the size spec to JSON.
func (s SizeSpec) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan decodes JSONB into the size spec.
func (s *SizeSpec) Scan(value interface{}) error {
	if value == nil {
		*s = SizeSpec{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, s)
}
