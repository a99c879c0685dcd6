package controllers

import (
	"Courtside/models"
	"Courtside/services/match"
	"Courtside/utils"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MatchController struct {
	Engine *match.Engine
}

type confirmRequest struct {
	TeamID    string `json:"teamId" binding:"required"`
	Confirmed *bool  `json:"confirmed"`
}

// @Summary Lists the matches on court
// @Description Active and confirming matches, oldest first
// @Tags matches
// @Produce json
// @Success 200 {object} object{matches=[]postgres.Match}
// @Router /matches/active [get]
func (mc *MatchController) GetActive(c *gin.Context) {
	matches, err := mc.Engine.ListActive(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// @Summary Lists completed matches
// @Description Newest first
// @Tags matches
// @Produce json
// @Param limit query int false "Maximum number of matches (default 20, max 100)"
// @Success 200 {object} object{matches=[]postgres.Match}
// @Failure 400 {object} models.Error
// @Router /matches/history [get]
func (mc *MatchController) GetHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.Fail(c, models.ErrInvalidInput.WithMessage("limit must be a positive integer"))
			return
		}
		limit = n
	}

	matches, err := mc.Engine.History(c.Request.Context(), limit)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// @Summary Gets one match
// @Tags matches
// @Produce json
// @Param id path string true "Match id"
// @Success 200 {object} object{match=postgres.Match,remainingMs=integer}
// @Failure 404 {object} models.Error
// @Router /matches/{id} [get]
func (mc *MatchController) GetMatch(c *gin.Context) {
	m, err := mc.Engine.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	resp := gin.H{"match": m}
	if left, ok := mc.Engine.TimeRemaining(m.ID); ok {
		resp["remainingMs"] = left.Milliseconds()
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Confirms a match result
// @Description One team confirms (or withdraws) the final score. The second confirmation completes the match.
// @Tags matches
// @Accept json
// @Produce json
// @Param id path string true "Match id"
// @Param confirmation body confirmRequest true "Confirming team"
// @Success 200 {object} object{match=postgres.Match}
// @Failure 400 {object} models.Error
// @Failure 404 {object} models.Error
// @Failure 409 {object} models.Error
// @Router /matches/{id}/confirm [post]
func (mc *MatchController) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, models.ErrInvalidInput)
		return
	}
	confirmed := true
	if req.Confirmed != nil {
		confirmed = *req.Confirmed
	}

	m, err := mc.Engine.Confirm(c.Request.Context(), c.Param("id"), req.TeamID, confirmed)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": m})
}
