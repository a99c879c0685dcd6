package main

import (
	"Courtside/config"
	_ "Courtside/config/swagger"
	"Courtside/middleware"
	"Courtside/routes"
	"Courtside/services/broadcast"
	"Courtside/services/court"
	"Courtside/services/match"
	"Courtside/services/queue"
	"Courtside/services/redis"
	"Courtside/services/socket_io"
	"Courtside/services/store"
	"Courtside/services/sync"
	"Courtside/services/timeout"
	"Courtside/services/websocket"
	"Courtside/utils"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// @title Courtside API
// @version 1.0
// @description Gin-Gonic server for the Courtside pickup court queue
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	l := config.NewLogger(cfg)
	l.Info().Str("env", cfg.AppEnv).Msg("Setting up server...")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := config.ConnectGORM(cfg, l)
	if err != nil {
		l.Fatal().Err(err).Msg("Error connecting to PostgreSQL")
	}

	// Only migrate in development or during deployment
	if cfg.MigratePostgres {
		l.Info().Msg("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			l.Warn().Err(err).Msg("Database migration failed")
		} else {
			l.Info().Msg("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		l.Fatal().Err(err).Msg("Error reading GORM PostgreSQL instance")
	}
	defer sqlDB.Close()

	redisClient, err := config.Connect_redis(cfg, l)
	if err != nil {
		l.Fatal().Err(err).Msg("Error connecting to Redis")
	}
	defer redis.CloseRedis(redisClient)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Realtime fan-out: socket.io rooms and plain WebSocket channels get
	// the same events.
	hub := websocket.NewHub(l, nil)
	sio := socket_io.New(l, socket_io.Options{
		JWTSecret: cfg.JWTSecret,
		Origins:   cfg.AllowedOrigins(),
		Debug:     !cfg.IsProduction(),
	})
	notifier := broadcast.Fanout{sio, hub}

	s := store.NewGormStore(gormDB)
	timers := timeout.New(l, cfg.ConfirmationTimeout())
	courtSvc := court.NewService(redisClient, notifier, l, cfg.ChampionCooldown())
	queueManager := queue.NewManager(s, notifier, l, queue.Options{
		MaxSize: cfg.MaxQueueSize,
		Gate:    courtSvc,
	})
	engine := match.NewEngine(s, queueManager, timers, courtSvc, notifier, l, match.Options{
		TargetScore:    cfg.DefaultTargetScore,
		ConfirmTimeout: cfg.ConfirmationTimeout(),
	})
	timers.Bind(engine)

	overview := court.NewOverview(courtSvc, queueManager, engine)
	sio.SetOverview(overview)

	report, err := sync.NewSyncManager(s, engine, courtSvc, l).Recover(ctx)
	if err != nil {
		l.Error().Err(err).Msg("Startup recovery failed")
	} else {
		l.Info().Int("timers", report.TimersRestarted).Bool("cooldown", report.CooldownStarted).Msg("Startup recovery done")
	}

	go court.NewSweeper(courtSvc, queueManager, cfg.CooldownSweepInterval(), l).Run(ctx)

	r := gin.New()
	r.Use(utils.Logger(l), gin.Recovery())

	middleware.SetUpMiddleware(r, cfg)

	routes.SetupRoutes(r, routes.Deps{
		Config:   cfg,
		Log:      l,
		Queue:    queueManager,
		Engine:   engine,
		Court:    courtSvc,
		Hub:      hub,
		Overview: overview,
	})
	sio.Start(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		l.Info().Str("port", cfg.Port).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("Error starting server")
		}
	}()

	<-ctx.Done()
	l.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("Server shutdown failed")
	}
	timers.Stop()
	sio.Close()
	hub.Close()
}
