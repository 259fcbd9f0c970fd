package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	t.Run("first status wins", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		w := NewResponseWriter(rec)
		assert.False(t, w.Written())

		w.WriteHeader(http.StatusBadRequest)
		w.WriteHeader(http.StatusOK)

		assert.True(t, w.Written())
		assert.Equal(t, http.StatusBadRequest, w.Status())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("write implies 200", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		w := NewResponseWriter(rec)

		n, err := w.Write([]byte("ok"))
		assert.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, int64(2), w.Size())
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Same(t, rec, w.Unwrap())
	})
}
