package handlers

import (
	"net/http"
	"strconv"

	"citycare-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler(votes *services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// CastVote reads upvote and comment from the query string. A second vote
// by the same citizen overwrites the first.
func (h *VoteHandler) CastVote(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	issueID, ok := paramID(c, "id")
	if !ok {
		return
	}

	upvote, err := strconv.ParseBool(c.Query("upvote"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "upvote must be true or false",
		})
		return
	}
	var comment *string
	if v, exists := c.GetQuery("comment"); exists {
		comment = &v
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	vote, err := h.votes.Cast(ctx, issueID, id.ID(), upvote, comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vote)
}

func (h *VoteHandler) DeleteVote(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	voteID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.votes.Delete(ctx, voteID, id.ID()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Vote deleted successfully"})
}

func (h *VoteHandler) GetCount(c *gin.Context) {
	issueID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	tally, err := h.votes.Tally(ctx, issueID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tally)
}

// GetMyVote answers null when the citizen has not voted on the issue.
func (h *VoteHandler) GetMyVote(c *gin.Context) {
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

	vote, err := h.votes.Mine(ctx, issueID, id.ID())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vote)
}

func (h *VoteHandler) GetComments(c *gin.Context) {
	issueID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	votes, err := h.votes.ListByIssue(ctx, issueID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, votes)
}
