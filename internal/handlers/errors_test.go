package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"citycare-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthenticated", services.ErrUnauthenticated, http.StatusUnauthorized},
		{"account not found", services.ErrAccountNotFound, http.StatusUnauthorized},
		{"bad password", services.ErrInvalidCredential, http.StatusUnauthorized},
		{"bad otp", services.ErrInvalidOtp, http.StatusUnauthorized},
		{"forbidden", services.ErrUnauthorized, http.StatusForbidden},
		{"not assigned", services.ErrNotAssigned, http.StatusForbidden},
		{"wrapped not found", fmt.Errorf("load issue: %w", services.ErrNotFound), http.StatusNotFound},
		{"exists", services.ErrAccountExists, http.StatusConflict},
		{"status", services.ErrInvalidStatus, http.StatusBadRequest},
		{"issue type", services.ErrInvalidIssueType, http.StatusBadRequest},
		{"coordinates", services.ErrInvalidCoordinates, http.StatusBadRequest},
		{"missing credential", services.ErrMissingCredential, http.StatusBadRequest},
		{"mail", fmt.Errorf("send: %w", services.ErrNotificationFailed), http.StatusBadGateway},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusInternalServerError {
				assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
				assert.NotContains(t, w.Body.String(), "connection reset")
			}
		})
	}
}

func TestPasswordChangeFallsBackToBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.PUT("/pw", func(c *gin.Context) {
		oldPassword, newPassword, ok := passwordChange(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"old": oldPassword, "new": newPassword})
	})

	req := httptest.NewRequest(http.MethodPut, "/pw", strings.NewReader(`{"oldPassword":"a","newPassword":"b"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"old":"a","new":"b"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/pw?oldPassword=a", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
