package controllers

import (
	"Courtside/config"
	court_constants "Courtside/constants/court"
	"Courtside/middleware"
	"Courtside/models"
	"Courtside/services/match"
	"Courtside/services/queue"
	"Courtside/utils"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type AdminController struct {
	Config *config.Config
	Queue  *queue.Manager
	Engine *match.Engine
	Log    zerolog.Logger
}

// @Summary Logs in as court operator
// @Description Checks the operator password, starts an admin session and returns a bearer token
// @Tags admin
// @Accept json
// @Produce json
// @Param credentials body object{password=string} true "Operator password"
// @Success 200 {object} object{token=string,tokenType=string,expiresAt=string}
// @Failure 400 {object} models.Error
// @Failure 401 {object} models.Error
// @Router /admin/login [post]
func (ac *AdminController) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Password) == "" {
		utils.Fail(c, models.ErrInvalidInput.WithMessage("password can't be empty"))
		return
	}

	if ac.Config.AdminPasswordHash == "" {
		ac.Log.Warn().Msg("Admin login attempted but ADMIN_PASSWORD_HASH is not set")
		utils.Fail(c, models.ErrUnauthorized.WithMessage("invalid password"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(ac.Config.AdminPasswordHash), []byte(req.Password)); err != nil {
		utils.Fail(c, models.ErrUnauthorized.WithMessage("invalid password"))
		return
	}

	token, expires, err := middleware.IssueAdminToken(ac.Config.JWTSecret, ac.Config.JWTTTL())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := middleware.StartAdminSession(c); err != nil {
		utils.Fail(c, err)
		return
	}

	ac.Log.Info().Str("client_ip", c.ClientIP()).Msg("Admin logged in")
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"tokenType": court_constants.AdminTokenType,
		"expiresAt": expires,
	})
}

// @Summary Logs out the operator session
// @Tags admin
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /admin/logout [post]
// @Security ApiKeyAuth
func (ac *AdminController) Logout(c *gin.Context) {
	if err := middleware.EndSession(c); err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// @Summary Reorders the queue
// @Description Applies new positions atomically. The caller supplies a valid permutation.
// @Tags admin
// @Accept json
// @Produce json
// @Param positions body object{positions=[]queue.TeamPosition} true "New positions"
// @Success 200 {object} models.QueueView
// @Failure 400 {object} models.Error
// @Failure 404 {object} models.Error
// @Failure 409 {object} models.Error
// @Router /admin/queue/reorder [put]
// @Security ApiKeyAuth
func (ac *AdminController) Reorder(c *gin.Context) {
	var req struct {
		Positions []queue.TeamPosition `json:"positions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, models.ErrInvalidInput)
		return
	}
	view, err := ac.Queue.Reorder(c.Request.Context(), req.Positions)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Edits a team
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Team id"
// @Param team body queue.TeamUpdate true "Fields to change"
// @Success 200 {object} object{team=postgres.Team}
// @Failure 400 {object} models.Error
// @Failure 404 {object} models.Error
// @Failure 409 {object} models.Error
// @Router /admin/teams/{id} [patch]
// @Security ApiKeyAuth
func (ac *AdminController) UpdateTeam(c *gin.Context) {
	var req queue.TeamUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, models.ErrInvalidInput)
		return
	}
	team, err := ac.Queue.UpdateTeam(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": team})
}

// @Summary Removes a waiting team
// @Tags admin
// @Produce json
// @Param id path string true "Team id"
// @Success 200 {object} object{message=string,team=postgres.Team}
// @Failure 404 {object} models.Error
// @Failure 409 {object} models.Error
// @Router /admin/teams/{id} [delete]
// @Security ApiKeyAuth
func (ac *AdminController) DeleteTeam(c *gin.Context) {
	team, err := ac.Queue.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team removed", "team": team})
}

// @Summary Ends the champion cooldown early
// @Description Moves every cooldown team back to the end of the queue
// @Tags admin
// @Produce json
// @Success 200 {object} object{teams=[]postgres.Team}
// @Router /admin/teams/promote [post]
// @Security ApiKeyAuth
func (ac *AdminController) PromoteCooldown(c *gin.Context) {
	teams, err := ac.Queue.PromoteCooldown(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// @Summary Starts a match
// @Description Pairs two waiting teams. targetScore defaults to the configured value, matchType follows the court mode.
// @Tags admin
// @Accept json
// @Produce json
// @Param match body match.StartRequest true "Teams and settings"
// @Success 201 {object} object{match=postgres.Match}
// @Failure 400 {object} models.Error
// @Failure 404 {object} models.Error
// @Failure 409 {object} models.Error
// @Router /admin/matches [post]
// @Security ApiKeyAuth
func (ac *AdminController) StartMatch(c *gin.Context) {
	var req match.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, models.ErrInvalidInput.WithMessage("team1Id and team2Id are required"))
		return
	}
	m, err := ac.Engine.Start(c.Request.Context(), req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"match": m})
}

type scoreRequest struct {
	Score1 *int `json:"score1" binding:"required"`
	Score2 *int `json:"score2" binding:"required"`
}

// @Summary Updates the live score
// @Description Reaching the target score moves the match to confirming
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Match id"
// @Param score body scoreRequest true "Scores"
// @Success 200 {object} object{match=postgres.Match}
// @Failure 400 {object} models.Error
// @Failure 404 {object} models.Error
// @Failure 409 {object} models.Error
// @Router /admin/matches/{id}/score [put]
// @Security ApiKeyAuth
func (ac *AdminController) UpdateScore(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, models.ErrInvalidScore)
		return
	}
	m, err := ac.Engine.UpdateScore(c.Request.Context(), c.Param("id"), *req.Score1, *req.Score2)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": m})
}

// @Summary Force-resolves a match
// @Description Completes an active or confirming match, optionally overriding the score
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Match id"
// @Param score body object{score1=integer,score2=integer} false "Final score override"
// @Success 200 {object} object{match=postgres.Match}
// @Failure 400 {object} models.Error
// @Failure 404 {object} models.Error
// @Router /admin/matches/{id}/resolve [post]
// @Security ApiKeyAuth
func (ac *AdminController) ResolveMatch(c *gin.Context) {
	var req struct {
		Score1 *int `json:"score1"`
		Score2 *int `json:"score2"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, models.ErrInvalidScore)
			return
		}
	}
	m, err := ac.Engine.ForceResolve(c.Request.Context(), c.Param("id"), req.Score1, req.Score2)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": m})
}

// @Summary Restarts the confirmation timer
// @Description Re-arms the timeout of a confirming match
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Match id"
// @Param timer body object{seconds=integer} false "Duration, defaults to the configured timeout"
// @Success 200 {object} models.MatchTimer
// @Failure 404 {object} models.Error
// @Failure 409 {object} models.Error
// @Router /admin/matches/{id}/timer [post]
// @Security ApiKeyAuth
func (ac *AdminController) RestartTimer(c *gin.Context) {
	var req struct {
		Seconds int `json:"seconds"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil || req.Seconds < 0 {
			utils.Fail(c, models.ErrInvalidInput.WithMessage("seconds must be a non-negative integer"))
			return
		}
	}
	timer, err := ac.Engine.RestartTimer(c.Request.Context(), c.Param("id"), time.Duration(req.Seconds)*time.Second)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, timer)
}
