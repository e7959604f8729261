package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"citycare-backend/internal/middleware"
	"citycare-backend/internal/models"
	"citycare-backend/internal/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const requestTimeout = 10 * time.Second

var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrUnauthenticated, http.StatusUnauthorized},
	{services.ErrAccountNotFound, http.StatusUnauthorized},
	{services.ErrInvalidCredential, http.StatusUnauthorized},
	{services.ErrInvalidOtp, http.StatusUnauthorized},
	{services.ErrUnauthorized, http.StatusForbidden},
	{services.ErrNotAssigned, http.StatusForbidden},
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrAccountExists, http.StatusConflict},
	{services.ErrInvalidStatus, http.StatusBadRequest},
	{services.ErrInvalidIssueType, http.StatusBadRequest},
	{services.ErrInvalidCoordinates, http.StatusBadRequest},
	{services.ErrMissingCredential, http.StatusBadRequest},
	{services.ErrNotificationFailed, http.StatusBadGateway},
}

// respondError writes the status mapped from a domain error. Unknown
// errors become a 500 without leaking their text.
func respondError(c *gin.Context, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{
				"error":   e.err.Error(),
				"details": err.Error(),
			})
			return
		}
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}

func paramID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return primitive.NilObjectID, false
	}
	return id, true
}

func identity(c *gin.Context) (*models.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
	}
	return id, ok
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// passwordChange reads oldPassword/newPassword from the query string,
// falling back to a JSON body.
func passwordChange(c *gin.Context) (string, string, bool) {
	req := ChangePasswordRequest{
		OldPassword: c.Query("oldPassword"),
		NewPassword: c.Query("newPassword"),
	}
	if req.OldPassword == "" && req.NewPassword == "" {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return "", "", false
		}
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "oldPassword and newPassword are required",
		})
		return "", "", false
	}
	return req.OldPassword, req.NewPassword, true
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type ProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,max=100"`
	Phone string `json:"phone" binding:"omitempty,max=20"`
}

func (r ProfileRequest) input() services.ProfileInput {
	return services.ProfileInput{Name: r.Name, Phone: r.Phone}
}

type MessageResponse struct {
	Message string `json:"message"`
}
