package handlers

import (
	"net/http"

	"citycare-backend/internal/models"
	"citycare-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type OfficerHandler struct {
	accounts *services.AccountService
}

type CreateTechnicianRequest struct {
	Name    string          `json:"name" binding:"required,max=100"`
	Email   string          `json:"email" binding:"required,email"`
	Phone   string          `json:"phone" binding:"omitempty,max=20"`
	Skills  []string        `json:"skills" binding:"dive,issuetype"`
	Address *models.Address `json:"address"`
}

func NewOfficerHandler(accounts *services.AccountService) *OfficerHandler {
	return &OfficerHandler{accounts: accounts}
}

func (h *OfficerHandler) CreateTechnician(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	tech, err := h.accounts.CreateTechnician(ctx, id.Officer, services.NewTechnicianInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Skills:  req.Skills,
		Address: req.Address,
	})
	if err != nil {
		if tech != nil {
			respondCreated(c, "technician", tech, err)
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tech)
}

func (h *OfficerHandler) ListTechnicians(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	techs, err := h.accounts.ListTechnicians(ctx, id.Officer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, techs)
}

func (h *OfficerHandler) DeleteTechnician(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	techID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.accounts.DeleteTechnician(ctx, id.Officer, techID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Technician deleted successfully"})
}

// GetMe returns only the basic profile, without the technician roster.
func (h *OfficerHandler) GetMe(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, id.Profile())
}

func (h *OfficerHandler) UpdateMe(c *gin.Context) {
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

	officer, err := h.accounts.UpdateOfficerProfile(ctx, id.Officer, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, officer)
}

func (h *OfficerHandler) ChangePassword(c *gin.Context) {
	changePassword(c, h.accounts)
}
