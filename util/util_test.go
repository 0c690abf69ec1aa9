package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	status, msg := StatusOf(NotFound(CHAT_NOT_FOUND))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CHAT_NOT_FOUND, msg)

	wrapped := Internal(UNEXPECTED_ERROR, errors.New("connection reset"))
	status, msg = StatusOf(wrapped)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, UNEXPECTED_ERROR, msg)
	assert.Contains(t, wrapped.Error(), "connection reset")

	status, msg = StatusOf(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, INTERNAL_SERVER_ERROR, msg)
}

func TestFailedResponseHidesCause(t *testing.T) {
	res := FailedResponse(Internal(UNEXPECTED_ERROR, errors.New("mongo: timeout")))
	assert.Equal(t, false, res["success"])
	assert.Equal(t, UNEXPECTED_ERROR, res["message"])
}

func TestSuccessResponse(t *testing.T) {
	res := SuccessResponse(map[string]interface{}{"token": "abc"})
	assert.Equal(t, true, res["success"])
	assert.Equal(t, "abc", res["token"])
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		assert.Regexp(t, `^[1-9][0-9]{5}$`, otp)
	}
}
