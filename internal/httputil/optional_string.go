package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString distinguishes an absent PATCH field from an explicit
// null, which a plain *string cannot:
//   - Present=false: key missing, leave the stored value alone
//   - Present=true, Value=nil: key was null, clear the stored value
//   - Present=true, Value non-nil: set the stored value (may be "")
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON only runs when the key appears in the payload, so its
// invocation itself records presence.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
