package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// OptString is a three-state optional string for partial updates:
// a field left out of the JSON body decodes to the zero value
// (Set == false), an explicit null decodes to Set with a nil Value,
// and anything else decodes to Set with a concrete Value.
type OptString struct {
	Set   bool
	Value *string
}

func (o *OptString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
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

// OptInt is the integer counterpart of OptString. Numeric strings are
// accepted and parsed, since the web form submits numbers as strings;
// an unparsable or empty string clears the field rather than failing
// the request.
type OptInt struct {
	Set   bool
	Value *int
}

func (o *OptInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		o.Value = nil
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			o.Value = nil
			return nil
		}
		o.Value = &n
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	o.Value = &n
	return nil
}
