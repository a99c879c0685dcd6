package controllers

import (
	"Courtside/models"
	"Courtside/services/queue"
	"Courtside/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type QueueController struct {
	Queue *queue.Manager
}

type joinRequest struct {
	Name        string `json:"name"`
	Members     int    `json:"members"`
	ContactInfo string `json:"contactInfo"`
}

// @Summary Lists the waiting teams
// @Description Teams ordered by queue position, without contact details
// @Tags queue
// @Produce json
// @Success 200 {object} models.QueueView
// @Failure 500 {object} models.Error
// @Router /queue [get]
func (qc *QueueController) GetQueue(c *gin.Context) {
	view, err := qc.Queue.View(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view.Redacted())
}

// @Summary Joins the queue
// @Description Adds a team at the end of the line
// @Tags queue
// @Accept json
// @Produce json
// @Param team body joinRequest true "Team to add"
// @Success 201 {object} object{team=postgres.Team,position=integer}
// @Failure 400 {object} models.Error
// @Failure 409 {object} models.Error
// @Failure 503 {object} models.Error
// @Router /queue/join [post]
func (qc *QueueController) JoinQueue(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, models.ErrInvalidInput)
		return
	}

	team, err := qc.Queue.Join(c.Request.Context(), queue.JoinRequest{
		Name:        req.Name,
		Members:     req.Members,
		ContactInfo: req.ContactInfo,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"team": team, "position": *team.Position})
}

// @Summary Leaves the queue
// @Description Removes a waiting team and closes the gap
// @Tags queue
// @Produce json
// @Param id path string true "Team id"
// @Success 200 {object} object{message=string,team=postgres.Team}
// @Failure 400 {object} models.Error
// @Failure 404 {object} models.Error
// @Failure 409 {object} models.Error
// @Router /queue/{id} [delete]
func (qc *QueueController) LeaveQueue(c *gin.Context) {
	team, err := qc.Queue.Leave(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team left the queue", "team": team.Redacted()})
}

// @Summary Refreshes a team's last-seen time
// @Tags queue
// @Produce json
// @Param id path string true "Team id"
// @Success 200 {object} object{team=postgres.Team}
// @Failure 404 {object} models.Error
// @Router /queue/{id}/heartbeat [post]
func (qc *QueueController) Heartbeat(c *gin.Context) {
	team, err := qc.Queue.Touch(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": team.Redacted()})
}
