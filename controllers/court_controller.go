package controllers

import (
	"Courtside/middleware"
	"Courtside/models"
	redis_models "Courtside/models/redis"
	"Courtside/services/court"
	"Courtside/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CourtController struct {
	Court     *court.Service
	Overview  court.OverviewFunc
	JWTSecret string
}

// @Summary Gets the court overview
// @Description Court state, waiting teams, matches on court and running confirmation timers. Contact details are only included for admins.
// @Tags court
// @Produce json
// @Success 200 {object} models.Overview
// @Router /court [get]
func (cc *CourtController) GetCourt(c *gin.Context) {
	channel := models.ChannelPublic
	if middleware.IsAdmin(c, cc.JWTSecret) {
		channel = models.ChannelAdmin
	}
	overview, err := cc.Overview(c.Request.Context(), channel)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// @Summary Opens or closes the court
// @Description A closed court rejects new teams and new matches
// @Tags admin
// @Accept json
// @Produce json
// @Param state body object{isOpen=boolean} true "New state"
// @Success 200 {object} redis_models.CourtState
// @Failure 400 {object} models.Error
// @Failure 401 {object} models.Error
// @Router /admin/court/open [put]
// @Security ApiKeyAuth
func (cc *CourtController) SetOpen(c *gin.Context) {
	var req struct {
		IsOpen *bool `json:"isOpen" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, models.ErrInvalidInput.WithMessage("isOpen is required"))
		return
	}
	state, err := cc.Court.SetOpen(c.Request.Context(), *req.IsOpen)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// @Summary Changes the court mode
// @Description In champion mode new matches default to champion_return
// @Tags admin
// @Accept json
// @Produce json
// @Param mode body object{mode=string} true "regular or champion"
// @Success 200 {object} redis_models.CourtState
// @Failure 400 {object} models.Error
// @Failure 401 {object} models.Error
// @Router /admin/court/mode [put]
// @Security ApiKeyAuth
func (cc *CourtController) SetMode(c *gin.Context) {
	var req struct {
		Mode redis_models.CourtMode `json:"mode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, models.ErrInvalidInput)
		return
	}
	state, err := cc.Court.SetMode(c.Request.Context(), req.Mode)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
