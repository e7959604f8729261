package handlers

import (
	"net/http"

	"citycare-backend/internal/models"
	"citycare-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CitizenHandler struct {
	accounts *services.AccountService
}

type CitizenProfileRequest struct {
	ProfileRequest
	Addresses []models.Address `json:"addresses"`
}

func NewCitizenHandler(accounts *services.AccountService) *CitizenHandler {
	return &CitizenHandler{accounts: accounts}
}

func (h *CitizenHandler) GetProfile(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, id.Citizen)
}

func (h *CitizenHandler) UpdateProfile(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req CitizenProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	citizen, err := h.accounts.UpdateCitizenProfile(ctx, id.Citizen, services.CitizenProfileInput{
		ProfileInput: req.input(),
		Addresses:    req.Addresses,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"citizen": citizen,
	})
}

func (h *CitizenHandler) ChangePassword(c *gin.Context) {
	changePassword(c, h.accounts)
}

// changePassword serves the password route of every account kind.
func changePassword(c *gin.Context, accounts *services.AccountService) {
	id, ok := identity(c)
	if !ok {
		return
	}
	oldPassword, newPassword, ok := passwordChange(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := accounts.UpdatePassword(ctx, id, oldPassword, newPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password updated successfully"})
}
