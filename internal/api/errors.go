package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a server-reported failure: a response was received with a
// non-2xx status. Message is user-facing, taken from the response body when
// present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// ConnectivityError is a transport failure: no response was received at all.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot reach the server: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is a server-reported failure with the given
// HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// serverMessage extracts the user-facing message for a failed response,
// preferring the body's message field over the per-status fallback.
func serverMessage(status int, raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return statusMessage(status)
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "The request was invalid"
	case http.StatusUnauthorized:
		return "Your session has expired, please sign in again"
	case http.StatusForbidden:
		return "You do not have permission to perform this action"
	case http.StatusNotFound:
		return "The requested record was not found"
	case http.StatusInternalServerError:
		return "The server encountered an error"
	default:
		return fmt.Sprintf("The request failed with status %d", status)
	}
}
