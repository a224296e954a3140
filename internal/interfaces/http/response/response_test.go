package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: order 7", apperrors.ErrNotFound), http.StatusNotFound},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperrors.ErrAlreadyExists, http.StatusConflict},
		{apperrors.ErrUnavailable, http.StatusBadRequest},
		{apperrors.ErrInsufficientStock, http.StatusBadRequest},
		{apperrors.ErrInvalidTransition, http.StatusBadRequest},
		{apperrors.ErrEmptyOrder, http.StatusBadRequest},
		{apperrors.ErrMissingField, http.StatusBadRequest},
		{apperrors.ErrValidation, http.StatusBadRequest},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), "error %v", tc.err)
	}
}

func TestError_Envelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, fmt.Errorf("%w: Wireless Headphones has 2 left", apperrors.ErrInsufficientStock))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var env Envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "Wireless Headphones has 2 left")
	assert.Nil(t, env.Data)
}

func TestOK_Envelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, "Cart retrieved successfully", gin.H{"count": 3})

	assert.Equal(t, http.StatusOK, w.Code)

	var env Envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "Cart retrieved successfully", env.Message)
}
