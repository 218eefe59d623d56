package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{ErrInvalidDay, http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrSubscriptionRequired, http.StatusForbidden},
		{ErrDuplicateIdentity, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", ErrAlreadySubscribed), http.StatusConflict},
		{ErrPaymentNotConfirmed, http.StatusPaymentRequired},
		{ErrCheckoutUnavailable, http.StatusBadGateway},
		{ErrDatabaseError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		code, msg := ErrorStatus(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.NotEmpty(t, msg)
	}
}

func TestHandleServiceError_WritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("trace_id", "abc")

	HandleServiceError(c, ErrInvalidCredentials)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "abc", body.TraceID)
}
