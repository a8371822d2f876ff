package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, NotFound, KindOf(New(NotFound, "gone")))
	assert.Equal(t, Internal, KindOf(errors.New("plain")))

	// kinds survive wrapping
	wrapped := fmt.Errorf("outer: %w", New(Conflict, "taken"))
	assert.Equal(t, Conflict, KindOf(wrapped))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "gone", MessageOf(New(NotFound, "gone")))
	// plain errors are not leaked to clients
	assert.Equal(t, "internal server error", MessageOf(errors.New("sql: connection refused")))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		InvalidInput:    http.StatusBadRequest,
		Unauthenticated: http.StatusUnauthorized,
		Forbidden:       http.StatusForbidden,
		NotFound:        http.StatusNotFound,
		Conflict:        http.StatusConflict,
		Internal:        http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, HTTPStatus(New(kind, "x")))
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestErrorFormatting(t *testing.T) {
	inner := errors.New("duplicate key")
	err := Wrap(Conflict, "nickname already taken", inner)
	assert.Equal(t, "nickname already taken: duplicate key", err.Error())
	assert.Equal(t, inner, errors.Unwrap(err))

	assert.Equal(t, "gone", New(NotFound, "gone").Error())
}
