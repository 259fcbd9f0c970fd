package health

import (
	"errors"
	"net/http"
)

// Sentinel errors for the health package.
var (
	// ErrNotConfigured is returned when the readiness registry has no keys.
	ErrNotConfigured = errors.New("health: readiness not configured")

	// ErrNotReady is returned when a flag or custom check is not satisfied.
	ErrNotReady = errors.New("health: application is not ready")

	// ErrInvalidConfig is returned by New when the configuration does not validate.
	ErrInvalidConfig = errors.New("health: invalid config")
)

const (
	errorName      = "BadRequest"
	errorClassName = "bad-request"

	msgNotReady = "Application is not ready"
)

// Error is the structured error returned by the readiness probe.
// It serializes as {"name","message","code","className","data"} and is meant
// to be rendered by the host's error handler.
type Error struct {
	err       error
	Data      Data   `json:"data"`
	Name      string `json:"name"`
	Message   string `json:"message"`
	ClassName string `json:"className"`
	Code      int    `json:"code"`
}

func newBadRequest(cause error, message string, data Data) *Error {
	if data == nil {
		data = Data{}
	}
	return &Error{
		err:       cause,
		Name:      errorName,
		Message:   message,
		ClassName: errorClassName,
		Code:      http.StatusBadRequest,
		Data:      data,
	}
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns ErrNotConfigured or ErrNotReady.
func (e *Error) Unwrap() error {
	return e.err
}

// StatusCode returns the HTTP status the error should be rendered with.
func (e *Error) StatusCode() int {
	return e.Code
}

// AsError extracts *Error from err.
func AsError(err error) (*Error, bool) {
	var he *Error
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}
