package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, ENOTFOUND, ErrorCode(Errorf(ENOTFOUND, "gone")))
	assert.Equal(t, EINTERNAL, ErrorCode(errors.New("raw database error")))

	// Wrapped application errors still unwrap to their code.
	wrapped := fmt.Errorf("outer: %w", Errorf(ECONFLICT, "taken"))
	assert.Equal(t, ECONFLICT, ErrorCode(wrapped))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "gone", ErrorMessage(Errorf(ENOTFOUND, "gone")))
	// Internal details never leak to the end user.
	assert.Equal(t, "Internal error.", ErrorMessage(errors.New("pq: connection refused")))
}

func TestErrorStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrorStatusCode(ENOTFOUND))
	assert.Equal(t, http.StatusBadRequest, ErrorStatusCode(EINVALID))
	assert.Equal(t, http.StatusConflict, ErrorStatusCode(ECONFLICT))
	assert.Equal(t, http.StatusUnauthorized, ErrorStatusCode(EUNAUTHORIZED))
	assert.Equal(t, http.StatusInternalServerError, ErrorStatusCode("something-else"))
}
