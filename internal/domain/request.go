package domain

import (
	"encoding/json"
	"strconv"
)

// DoseRequest is the raw input contract as received from a caller.
// Numeric fields are kept undecoded so that validation can distinguish a
// missing value, a malformed value and an out-of-range value.
type DoseRequest struct {
	Medicine     string          `json:"medicine"`
	Dose         json.RawMessage `json:"dose,omitempty"`
	DoseHistory  json.RawMessage `json:"dose_history,omitempty"`
	Time         string          `json:"time"`
	PreviousTime string          `json:"previous_time,omitempty"`
	OtherMeds    []string        `json:"other_meds,omitempty"`
	Alcohol      bool            `json:"alcohol,omitempty"`
	Age          json.RawMessage `json:"age,omitempty"`
	Weight       json.RawMessage `json:"weight,omitempty"`
	Pregnant     bool            `json:"pregnant,omitempty"`
}

// Number encodes a float as a raw JSON number for building requests in code.
func Number(v float64) json.RawMessage {
	return json.RawMessage(strconv.FormatFloat(v, 'f', -1, 64))
}

// Numbers encodes a slice of floats as a raw JSON array.
func Numbers(values ...float64) json.RawMessage {
	raw, _ := json.Marshal(values)
	return raw
}

// IsAbsent reports whether a raw field was omitted or explicitly null.
func IsAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// Style carries the optional presentation controls for the explanation.
type Style struct {
	Mode     string `json:"mode,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Strength string `json:"strength,omitempty"`
	Audience string `json:"audience,omitempty"`
}
