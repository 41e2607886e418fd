package rest

import "encoding/json"

// Meta is the business-status block every backend response carries.
type Meta struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Envelope is the `{meta, data, errors}` wrapper used by all endpoints.
// Data stays raw so each gateway method decodes its own shape.
type Envelope struct {
	Meta   Meta                `json:"meta"`
	Data   json.RawMessage     `json:"data"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// OK reports business-level success. A 2xx transport status with any
// other meta combination is still a failure.
func (e *Envelope) OK() bool {
	return e.Meta.Status == "success" && e.Meta.Code == 200
}
