package controllers

import (
	court_constants "Courtside/constants/court"
	"Courtside/middleware"
	"Courtside/models"
	"Courtside/services/court"
	"Courtside/services/websocket"
	"Courtside/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type RealtimeController struct {
	Hub       *websocket.Hub
	Overview  court.OverviewFunc
	JWTSecret string
	Log       zerolog.Logger
}

// @Summary Subscribes to court events over WebSocket
// @Description The first frame is the current state, then every event on the channel. The admin channel needs an admin token (header or token query parameter).
// @Tags realtime
// @Param channel query string false "public (default) or admin"
// @Param token query string false "Admin bearer token"
// @Success 101
// @Failure 401 {object} models.Error
// @Router /ws [get]
func (rc *RealtimeController) Subscribe(c *gin.Context) {
	channel := models.Channel(c.DefaultQuery("channel", string(models.ChannelPublic)))
	switch channel {
	case models.ChannelPublic:
	case models.ChannelAdmin:
		if !rc.authorized(c) {
			utils.Fail(c, models.ErrUnauthorized)
			return
		}
	default:
		utils.Fail(c, models.ErrInvalidInput.WithMessage("unknown channel %q", channel))
		return
	}

	overview, err := rc.Overview(c.Request.Context(), channel)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	initial := &websocket.Message{Event: court_constants.SocketStateEvent, Data: overview}
	if err := rc.Hub.Serve(c.Writer, c.Request, channel, initial); err != nil {
		// The upgrader already answered the client.
		rc.Log.Debug().Err(err).Msg("WebSocket upgrade failed")
	}
}

func (rc *RealtimeController) authorized(c *gin.Context) bool {
	if middleware.IsAdmin(c, rc.JWTSecret) {
		return true
	}
	token := c.Query("token")
	if token == "" {
		return false
	}
	claims, err := middleware.ParseToken(rc.JWTSecret, token)
	return err == nil && claims.Role == middleware.RoleAdmin
}
