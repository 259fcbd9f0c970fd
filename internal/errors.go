package internal

import (
	"errors"
	"net/http"
)

// Error names and class names, keyed by status code.
var errorNames = map[int][2]string{
	http.StatusBadRequest:          {"BadRequest", "bad-request"},
	http.StatusUnauthorized:        {"NotAuthenticated", "not-authenticated"},
	http.StatusForbidden:           {"Forbidden", "forbidden"},
	http.StatusNotFound:            {"NotFound", "not-found"},
	http.StatusMethodNotAllowed:    {"MethodNotAllowed", "method-not-allowed"},
	http.StatusConflict:            {"Conflict", "conflict"},
	http.StatusUnprocessableEntity: {"Unprocessable", "unprocessable"},
	http.StatusInternalServerError: {"GeneralError", "general-error"},
	http.StatusServiceUnavailable:  {"Unavailable", "unavailable"},
}

// HTTPError is a structured error rendered as
// {"name","message","code","className","data"} by the default error handler.
type HTTPError struct {
	// Err is the underlying error, logged but never rendered.
	Err error `json:"-"`

	// Data is optional diagnostic payload.
	Data any `json:"data,omitempty"`

	Name      string `json:"name"`
	Message   string `json:"message"`
	ClassName string `json:"className"`
	Code      int    `json:"code"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates an HTTPError with the name derived from code.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	names, ok := errorNames[code]
	if !ok {
		names = errorNames[http.StatusInternalServerError]
	}
	e := &HTTPError{
		Code:      code,
		Message:   message,
		Name:      names[0],
		ClassName: names[1],
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithData(data any) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Data = data
	}
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrMethodNotAllowed(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusMethodNotAllowed, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, message, opts...)
}

// AsHTTPError extracts the HTTPError from an error chain.
// Returns nil if there is none.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return nil
}

// statusCoder is implemented by errors that carry their own HTTP status,
// such as *HTTPError and *health.Error.
type statusCoder interface {
	error
	StatusCode() int
}

// DefaultErrorHandler renders errors as JSON.
// Errors carrying a status code are serialized as they are; anything else
// becomes a 500 GeneralError with the cause logged.
func DefaultErrorHandler(c Context, err error) error {
	var sc statusCoder
	if errors.As(err, &sc) {
		code := sc.StatusCode()
		if code >= http.StatusInternalServerError {
			c.LogError("request failed", "error", err, "status", code)
		}
		return c.JSON(code, sc)
	}

	c.LogError("unhandled error", "error", err)
	return c.JSON(http.StatusInternalServerError, ErrInternal("Internal Server Error"))
}
