package remote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/erp/catalogconsole/internal/domain/shared"
)

// Error is returned for any failed remote call: transport failures and
// non-2xx responses alike. Message is always human readable.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	NotFound   bool
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the transport error, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets callers match shared.ErrRemote and, for missing entities, shared.ErrNotFound
func (e *Error) Is(target error) bool {
	switch target {
	case shared.ErrRemote:
		return true
	case shared.ErrNotFound:
		return e.NotFound
	}
	return false
}

// ErrorMessage derives the message shown to the user from a failed
// response: the JSON "message" field, else the JSON "error" field, else the
// raw body text, else a synthesized "HTTP {status}".
func ErrorMessage(status int, body []byte) string {
	text := string(body)

	var parsed struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if msg := stringField(parsed.Message); msg != "" {
			return msg
		}
		if msg := stringField(parsed.Error); msg != "" {
			return msg
		}
	}

	if strings.TrimSpace(text) != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

func stringField(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

func newStatusError(op string, status int, body []byte) *Error {
	e := &Error{
		Op:         op,
		StatusCode: status,
		Message:    ErrorMessage(status, body),
		NotFound:   status == http.StatusNotFound,
	}
	return e
}

func notFound(op string) *Error {
	return &Error{
		Op:         op,
		StatusCode: http.StatusOK,
		Message:    shared.NotFoundMessage,
		NotFound:   true,
	}
}

func networkError(op string, err error) *Error {
	return &Error{
		Op:      op,
		Message: "Error de red: " + err.Error(),
		Err:     err,
	}
}
