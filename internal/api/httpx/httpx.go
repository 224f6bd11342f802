// Package httpx holds the JSON response envelope shared by all handlers.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape of every JSON response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a success envelope around data.
func OK(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// OKMessage writes a success envelope with a message and no data.
func OKMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Envelope{Success: true, Message: msg})
}

// Error writes a failure envelope. Internal detail never leaks here; msg is
// what the client is allowed to see.
func Error(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Envelope{Success: false, Message: msg})
}

// ErrorData writes a failure envelope carrying structured detail, e.g.
// per-field validation messages.
func ErrorData(w http.ResponseWriter, status int, msg string, data interface{}) {
	WriteJSON(w, status, Envelope{Success: false, Message: msg, Data: data})
}
