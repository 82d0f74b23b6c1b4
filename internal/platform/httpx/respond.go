// Package httpx provides JSON response utilities shared by all API handlers.
//
// Every endpoint responds with the envelope `{"success": bool, ...}`: 2xx
// responses carry the payload under "data", failures carry a user-visible
// "message". Clients treat any non-2xx status as failure.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape of every API response. Meta carries optional
// pagination details on list endpoints.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSON sends a success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: true, Data: data})
}

// JSONList sends a success envelope with pagination metadata.
func JSONList(w http.ResponseWriter, status int, data, meta any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: true, Data: data, Meta: meta})
}

// Fail sends a failure envelope with the given status code and message.
func Fail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: false, Message: message})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(target)
}
