// Package pipeline implements the guard chains that gate every store
// access: an ordered list of checks where the first failure short-circuits
// the request with a classified error.
package pipeline

import (
	"context"
	"fmt"
	"net/http"
)

// Error is a classified request rejection carrying the HTTP status to
// respond with. It marshals as the uniform {"error": message} body.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *Error) Error() string { return e.Message }

// Invalid builds a 400 rejection.
func Invalid(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a 404 rejection.
func NotFound(format string, args ...any) *Error {
	return &Error{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected backend failure.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: err.Error()}
}

// Request is the per-request view a chain operates on: the decoded body
// payload, the id from the route, and a slot where an existence guard
// stashes the entity it located so the terminal handler need not re-fetch.
type Request[B, E any] struct {
	Ctx     context.Context
	RouteID string
	Body    B
	Entity  *E
}

// Guard validates one aspect of a request. A nil result passes control to
// the next guard. Guards never mutate the store.
type Guard[B, E any] func(req *Request[B, E]) *Error

// Chain is an ordered guard sequence.
type Chain[B, E any] []Guard[B, E]

// Run executes the guards in order and stops at the first failure.
func (c Chain[B, E]) Run(req *Request[B, E]) *Error {
	for _, g := range c {
		if err := g(req); err != nil {
			return err
		}
	}
	return nil
}

// Require rejects the request when the named body field is absent or empty,
// as reported by present.
func Require[B, E any](resource, field string, present func(B) bool) Guard[B, E] {
	return func(req *Request[B, E]) *Error {
		if present(req.Body) {
			return nil
		}
		return Invalid("%s must include a %s", resource, field)
	}
}
