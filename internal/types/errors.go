package types

import (
	"errors"
	"net/http"
)

// InputError is a client mistake: missing or invalid prompt.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

// NotFoundError means the target resolved but a required stage produced no data.
type NotFoundError struct {
	Msg        string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	if e.Suggestion == "" {
		return e.Msg
	}
	return e.Msg + ". " + e.Suggestion
}

// UpstreamError means a required provider failed entirely.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return e.Provider + " failed"
	}
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// StatusCode maps an error to the HTTP status of the error taxonomy.
func StatusCode(err error) int {
	var in *InputError
	var nf *NotFoundError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &in):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
