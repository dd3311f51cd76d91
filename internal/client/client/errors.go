package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/farmdash/internal/common"
)

// ErrorKind classifies a failed gateway call.
type ErrorKind string

const (
	// KindNetwork: the request never reached the server or no answer arrived.
	KindNetwork ErrorKind = "network"
	// KindServer: the server answered with a non-2xx status or an unreadable body.
	KindServer ErrorKind = "server"
)

// APIError is returned by every Gateway method on failure. It matches
// common.ErrNetwork or common.ErrServer through errors.Is, and additionally
// common.ErrorUnauthorized (401/403) and common.ErrorNotFound (404).
type APIError struct {
	Kind    ErrorKind
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Kind == KindNetwork:
		return fmt.Sprintf("%s %s: network failure: %v", e.Method, e.Path, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s %s: server returned %d", e.Method, e.Path, e.Status)
	}
}

func (e *APIError) Unwrap() []error {
	errs := make([]error, 0, 3)
	if e.Kind == KindNetwork {
		errs = append(errs, common.ErrNetwork)
	} else {
		errs = append(errs, common.ErrServer)
		switch e.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			errs = append(errs, common.ErrorUnauthorized)
		case http.StatusNotFound:
			errs = append(errs, common.ErrorNotFound)
		}
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// UserMessage is the text a consumer should show: the server's message when
// it sent one, a generic description otherwise.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Kind == KindNetwork {
			return "network failure: the server could not be reached"
		}
		return fmt.Sprintf("server error (%d)", apiErr.Status)
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// mapStatus builds the APIError for a non-2xx answer, extracting the
// server's message from the usual {message} / {error} body shapes.
func mapStatus(method, path string, status int, body []byte) *APIError {
	return &APIError{
		Kind:    KindServer,
		Method:  method,
		Path:    path,
		Status:  status,
		Message: extractMessage(body),
	}
}

func extractMessage(body []byte) string {
	var b struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &b); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(b.Message); msg != "" {
		return msg
	}
	if len(b.Error) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.Error, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b.Error, &nested); err == nil {
		return strings.TrimSpace(nested.Message)
	}
	return ""
}
