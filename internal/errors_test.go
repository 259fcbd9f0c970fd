package internal

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHTTPError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		err       *HTTPError
		name      string
		className string
		code      int
	}{
		{ErrBadRequest("bad"), "BadRequest", "bad-request", http.StatusBadRequest},
		{ErrNotFound("missing"), "NotFound", "not-found", http.StatusNotFound},
		{ErrMethodNotAllowed("no"), "MethodNotAllowed", "method-not-allowed", http.StatusMethodNotAllowed},
		{ErrInternal("oops"), "GeneralError", "general-error", http.StatusInternalServerError},
		{ErrServiceUnavailable("later"), "Unavailable", "unavailable", http.StatusServiceUnavailable},
		{NewHTTPError(http.StatusTeapot, "tea"), "GeneralError", "general-error", http.StatusTeapot},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.name, tc.err.Name)
		assert.Equal(t, tc.className, tc.err.ClassName)
		assert.Equal(t, tc.code, tc.err.StatusCode())
		assert.Equal(t, tc.err.Message, tc.err.Error())
	}
}

func TestHTTPError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")
	err := fmt.Errorf("wrapped: %w", ErrBadRequest("bad", WithError(cause), WithData("d")))

	he := AsHTTPError(err)
	if assert.NotNil(t, he) {
		assert.Equal(t, "d", he.Data)
		assert.Equal(t, "Bad Request", he.StatusText())
	}
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, AsHTTPError(errors.New("plain")))
	assert.Nil(t, AsHTTPError(nil))
}
