package pipeline

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// Envelope is the uniform request/response body wrapper.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// Decode parses a request body of the form {"data": {...}}. A missing body
// or data object decodes to the payload's zero value, so the field-presence
// guards report the specific missing fields.
func Decode[B any](r *http.Request) (B, *Error) {
	var env Envelope[B]
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		var zero B
		return zero, Invalid("request body is not valid JSON")
	}
	return env.Data, nil
}

// Respond writes a {"data": ...} body with the given status.
func Respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope[any]{Data: data})
}

// RespondError renders a rejected request as {"error": message}.
func RespondError(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status)
	json.NewEncoder(w).Encode(err)
}
