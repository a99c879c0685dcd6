package routes

import (
	"Courtside/config"
	"Courtside/controllers"
	"Courtside/middleware"
	"Courtside/services/court"
	"Courtside/services/match"
	"Courtside/services/queue"
	"Courtside/services/websocket"
	utils "Courtside/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps are the services the HTTP layer calls into.
type Deps struct {
	Config   *config.Config
	Log      zerolog.Logger
	Queue    *queue.Manager
	Engine   *match.Engine
	Court    *court.Service
	Hub      *websocket.Hub
	Overview court.OverviewFunc
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, d Deps) {
	queueController := &controllers.QueueController{Queue: d.Queue}
	matchController := &controllers.MatchController{Engine: d.Engine}
	courtController := &controllers.CourtController{Court: d.Court, Overview: d.Overview, JWTSecret: d.Config.JWTSecret}
	adminController := &controllers.AdminController{Config: d.Config, Queue: d.Queue, Engine: d.Engine, Log: d.Log}
	realtimeController := &controllers.RealtimeController{Hub: d.Hub, Overview: d.Overview, JWTSecret: d.Config.JWTSecret, Log: d.Log}

	// utils global
	router.Use(utils.ErrorHandler(d.Log))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.GET("/court", courtController.GetCourt)

	api.GET("/ws", realtimeController.Subscribe)

	queueRoutes := api.Group("/queue")
	{
		queueRoutes.GET("", queueController.GetQueue)
		queueRoutes.POST("/join", queueController.JoinQueue)
		queueRoutes.DELETE("/:id", queueController.LeaveQueue)
		queueRoutes.POST("/:id/heartbeat", queueController.Heartbeat)
	}

	matchRoutes := api.Group("/matches")
	{
		matchRoutes.GET("/active", matchController.GetActive)
		matchRoutes.GET("/history", matchController.GetHistory)
		matchRoutes.GET("/:id", matchController.GetMatch)
		matchRoutes.POST("/:id/confirm", matchController.Confirm)
	}

	api.POST("/admin/login", adminController.Login)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired(d.Config.JWTSecret))
	{
		admin.POST("/logout", adminController.Logout)

		admin.PUT("/queue/reorder", adminController.Reorder)

		admin.PATCH("/teams/:id", adminController.UpdateTeam)
		admin.DELETE("/teams/:id", adminController.DeleteTeam)
		admin.POST("/teams/promote", adminController.PromoteCooldown)

		admin.POST("/matches", adminController.StartMatch)
		admin.PUT("/matches/:id/score", adminController.UpdateScore)
		admin.POST("/matches/:id/resolve", adminController.ResolveMatch)
		admin.POST("/matches/:id/timer", adminController.RestartTimer)

		admin.PUT("/court/open", courtController.SetOpen)
		admin.PUT("/court/mode", courtController.SetMode)
	}
}
