package handlers

import (
	"net/http"

	"citycare-backend/internal/models"
	"citycare-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type TechnicianHandler struct {
	accounts *services.AccountService
}

type TechnicianProfileRequest struct {
	ProfileRequest
	Skills  []string        `json:"skills" binding:"omitempty,dive,issuetype"`
	Address *models.Address `json:"address"`
}

func NewTechnicianHandler(accounts *services.AccountService) *TechnicianHandler {
	return &TechnicianHandler{accounts: accounts}
}

func (h *TechnicianHandler) GetMe(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, id.Technician)
}

func (h *TechnicianHandler) UpdateMe(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req TechnicianProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	tech, err := h.accounts.UpdateTechnicianProfile(ctx, id.Technician, services.TechnicianProfileInput{
		ProfileInput: req.input(),
		Skills:       req.Skills,
		Address:      req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tech)
}

func (h *TechnicianHandler) ChangePassword(c *gin.Context) {
	changePassword(c, h.accounts)
}
