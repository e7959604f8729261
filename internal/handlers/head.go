package handlers

import (
	"errors"
	"net/http"

	"citycare-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type HeadHandler struct {
	accounts *services.AccountService
}

type CreateOfficerRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,max=20"`
}

func NewHeadHandler(accounts *services.AccountService) *HeadHandler {
	return &HeadHandler{accounts: accounts}
}

func (h *HeadHandler) CreateOfficer(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req CreateOfficerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	officer, err := h.accounts.CreateOfficer(ctx, id.Head, services.NewOfficerInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		if officer != nil {
			respondCreated(c, "officer", officer, err)
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, officer)
}

func (h *HeadHandler) DeleteOfficer(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	officerID, ok := paramID(c, "officerId")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.accounts.DeleteOfficer(ctx, id.Head, officerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Officer deleted successfully"})
}

func (h *HeadHandler) ListOfficers(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	officers, err := h.accounts.ListOfficers(ctx, id.Head)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, officers)
}

func (h *HeadHandler) GetMe(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, id.Head)
}

func (h *HeadHandler) UpdateMe(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	head, err := h.accounts.UpdateHeadProfile(ctx, id.Head, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, head)
}

func (h *HeadHandler) ChangePassword(c *gin.Context) {
	changePassword(c, h.accounts)
}

// respondCreated reports a failed credentials mail while still handing
// back the account that was written.
func respondCreated(c *gin.Context, key string, created any, err error) {
	if errors.Is(err, services.ErrNotificationFailed) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   services.ErrNotificationFailed.Error(),
			"details": "account created but the credentials email could not be sent",
			key:       created,
		})
		return
	}
	respondError(c, err)
}
