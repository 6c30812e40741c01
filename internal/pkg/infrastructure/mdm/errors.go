package mdm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrServer            = errors.New("server error")
	ErrTransport         = errors.New("transport error")
	ErrMalformedResponse = errors.New("malformed response")
)

// RemoteError is returned for every failed call to the metadata repository. Its Kind
// is one of the sentinel errors above and can be tested with errors.Is.
type RemoteError struct {
	Kind       error
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, e.Kind.Error(), e.Message)
	}
	return fmt.Sprintf("%s %s: %s (%d): %s", e.Method, e.Path, e.Kind.Error(), e.StatusCode, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Kind
}

func newTransportError(method, path string, err error) error {
	return &RemoteError{Kind: ErrTransport, Method: method, Path: path, Message: err.Error()}
}

func newStatusError(method, path string, statusCode int, body []byte) error {
	message := errorMessage(body)

	kind := ErrServer
	switch {
	case statusCode == http.StatusNotFound:
		kind = ErrNotFound
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		kind = ErrUnauthorized
	case statusCode == http.StatusConflict:
		kind = ErrConflict
	case statusCode == http.StatusUnprocessableEntity && strings.Contains(message, "must be unique"):
		kind = ErrConflict
	case statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity:
		kind = ErrInvalidRequest
	}

	return &RemoteError{Kind: kind, StatusCode: statusCode, Method: method, Path: path, Message: message}
}

// errorMessage extracts the validation messages of an error response, falling back
// to the raw body.
func errorMessage(body []byte) string {
	e := struct {
		Message string `json:"message"`
		Errors  []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}{}

	if err := json.Unmarshal(body, &e); err != nil {
		return strings.TrimSpace(string(body))
	}

	messages := []string{}
	if e.Message != "" {
		messages = append(messages, e.Message)
	}
	for _, m := range e.Errors {
		messages = append(messages, m.Message)
	}

	if len(messages) == 0 {
		return strings.TrimSpace(string(body))
	}

	return strings.Join(messages, "; ")
}
