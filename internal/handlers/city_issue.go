// internal/handlers/city_issue.go
package handlers

import (
	"net/http"

	"citycare-backend/internal/models"
	"citycare-backend/internal/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CityIssueHandler struct {
	issues *services.IssueService
}

// CreateIssueRequest is the flat form the citizen app submits; the
// address fields are folded into one embedded address.
type CreateIssueRequest struct {
	Title         string   `json:"title" binding:"required,max=200"`
	Description   string   `json:"description" binding:"required,max=2000"`
	IssueType     string   `json:"issue_type" binding:"required,issuetype"`
	AddressName   string   `json:"address_name"`
	Locality      string   `json:"locality"`
	StreetAddress string   `json:"street_address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	PinCode       string   `json:"pin_code"`
	Mobile        string   `json:"mobile"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	ImageURLs     []string `json:"image_urls"`
}

func (r CreateIssueRequest) input() services.CreateIssueInput {
	return services.CreateIssueInput{
		Title:       r.Title,
		Description: r.Description,
		IssueType:   r.IssueType,
		Address: models.Address{
			Name:          r.AddressName,
			Locality:      r.Locality,
			StreetAddress: r.StreetAddress,
			City:          r.City,
			State:         r.State,
			PinCode:       r.PinCode,
			Mobile:        r.Mobile,
			Latitude:      r.Latitude,
			Longitude:     r.Longitude,
		},
		ImageURLs: r.ImageURLs,
	}
}

func NewCityIssueHandler(issues *services.IssueService) *CityIssueHandler {
	return &CityIssueHandler{issues: issues}
}

func (h *CityIssueHandler) CreateIssue(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issue, err := h.issues.Create(ctx, id.ID(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

func (h *CityIssueHandler) GetMyIssues(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issues, err := h.issues.ListByCitizen(ctx, id.ID())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issues)
}

func (h *CityIssueHandler) DeleteIssue(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	issueID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.issues.Delete(ctx, issueID, id.ID()); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAllIssues serves both the officer listing and the public one.
func (h *CityIssueHandler) GetAllIssues(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	issues, err := h.issues.ListAll(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issues)
}

// AssignTechnicians takes a bare JSON array of technician ids and replaces
// the issue's assignment set with it.
func (h *CityIssueHandler) AssignTechnicians(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	issueID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var raw []string
	if err := c.ShouldBindJSON(&raw); err != nil {
		badRequest(c, err)
		return
	}
	techIDs := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid technician ID",
				"details": s,
			})
			return
		}
		techIDs = append(techIDs, oid)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issue, err := h.issues.AssignTechnicians(ctx, id, issueID, techIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

func (h *CityIssueHandler) UpdateStatus(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	issueID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issue, err := h.issues.UpdateStatus(ctx, issueID, c.Query("status"), id.ID())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

func (h *CityIssueHandler) GetMyAssigned(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issues, err := h.issues.ListForTechnician(ctx, id.Technician)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issues)
}
