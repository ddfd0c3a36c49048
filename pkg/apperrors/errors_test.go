package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetails_DoesNotMutateSentinel(t *testing.T) {
	withDetails := ErrWeakPassword.WithDetails(map[string]string{"password": "too short"})

	assert.Nil(t, ErrWeakPassword.Details)
	assert.NotNil(t, withDetails.Details)
	assert.Equal(t, ErrWeakPassword.Code, withDetails.Code)
}

func TestWithMessage_KeepsCodeAndStatus(t *testing.T) {
	localized := ErrWrongPassword.WithMessage("Yanlış şifre")

	assert.Equal(t, "Yanlış şifre", localized.Message)
	assert.Equal(t, CodeWrongPassword, localized.Code)
	assert.Equal(t, http.StatusUnauthorized, localized.HTTPCode)
	assert.Equal(t, "The password is invalid", ErrWrongPassword.Message)
}

func TestAsAppError_Wrapped(t *testing.T) {
	cause := errors.New("boom")
	wrapped := Wrap(cause, CodeDatabaseError, "store", "db failed", http.StatusInternalServerError)
	err := errors.Join(errors.New("outer"), wrapped)

	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, CodeDatabaseError, appErr.Code)
	assert.True(t, Is(appErr, cause))
}

func TestHandleError_RendersEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, ErrEmailAlreadyInUse)

	assert.Equal(t, http.StatusConflict, w.Code)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Domain  string `json:"domain"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(CodeEmailAlreadyInUse), body.Error.Code)
	assert.Equal(t, "auth", body.Error.Domain)
}

func TestHandleError_UnknownErrorBecomesInternal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, errors.New("unexpected"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), string(CodeInternalError))
}
