package handlers

import (
	"net/http"

	"citycare-backend/internal/models"
	"citycare-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authn *services.Authenticator
	otp   *services.OTPIssuer
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
	Role     string `json:"role"`
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
	OTP      string `json:"otp" binding:"required"`
}

type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

func NewAuthHandler(authn *services.Authenticator, otp *services.OTPIssuer) *AuthHandler {
	return &AuthHandler{authn: authn, otp: otp}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.authn.Login(ctx, services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		OTP:      req.OTP,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.authn.Signup(ctx, services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		OTP:      req.OTP,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// SendOTP mails a fresh code. The stored code survives a failed delivery,
// so a 502 here still leaves a usable code behind.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.otp.Send(ctx, req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "OTP sent successfully"})
}

// Profile returns the full record of the authenticated account. Role
// gating happens in the router.
func (h *AuthHandler) Profile(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, account(id))
}

// account unwraps the identity to its concrete variant for rendering.
func account(id *models.Identity) any {
	switch id.Role {
	case models.RoleCitizen:
		return id.Citizen
	case models.RoleTechnician:
		return id.Technician
	case models.RoleOfficer:
		return id.Officer
	case models.RoleHead:
		return id.Head
	}
	return id.Profile()
}
