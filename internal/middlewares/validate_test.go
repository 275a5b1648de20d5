package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nosregor/learning-platform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(handler http.Handler, payload string) *httptest.ResponseRecorder {
	request := httptest.NewRequest("POST", "/", strings.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestValidate(t *testing.T) {
	var captured models.Verify2FABody
	handler := Validate[models.Verify2FABody](
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, ok := r.Context().Value(models.BodyKey{}).(models.Verify2FABody)
			require.True(t, ok)
			captured = body
			w.WriteHeader(http.StatusOK)
		}),
	)

	t.Run("a valid body reaches the handler", func(t *testing.T) {
		recorder := postJSON(handler, `{"pending_2fa_token":"abc123","code":"123456"}`)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "123456", captured.Code)
		assert.Equal(t, "abc123", captured.Pending2FAToken)
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		recorder := postJSON(handler, `{"code":`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "INVALID_BODY")
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		recorder := postJSON(handler, `{"pending_2fa_token":"abc","code":"123456","extra":true}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "INVALID_BODY")
	})

	t.Run("a short code fails field validation", func(t *testing.T) {
		recorder := postJSON(handler, `{"pending_2fa_token":"abc","code":"123"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "INVALID_CODE")
	})

	t.Run("a non-numeric code fails field validation", func(t *testing.T) {
		recorder := postJSON(handler, `{"pending_2fa_token":"abc","code":"12a456"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "INVALID_CODE")
	})

	t.Run("a missing token fails field validation", func(t *testing.T) {
		recorder := postJSON(handler, `{"code":"123456"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "INVALID_PENDING2FATOKEN")
	})
}
