package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"viemind/config"
	"viemind/database"
	"viemind/docs"
	"viemind/i18n"
	"viemind/middleware"
	"viemind/realtime"
	api "viemind/routes/api"
	"viemind/services"
	"viemind/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title VieMind API
// @version 1.0
// @description Bilingual AI competition platform: accounts, competitions, submissions and leaderboards.
// @BasePath /api
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ConfigureLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	cache, redisClient, err := database.InitRedis(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	if err := utils.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	store := database.NewStore(db)
	translator := i18n.NewTranslator(cfg.DefaultLocale)

	// Optional integrations stay nil interfaces when unconfigured
	var mailer services.WelcomeMailer
	var support services.SupportMailer
	if email := services.NewEmailService(cfg, translator); email != nil {
		mailer = email
		support = email
	}
	var notifier services.CompetitionNotifier
	discord, err := services.NewDiscordNotifier(cfg)
	if err != nil {
		log.Fatalf("Failed to configure discord notifier: %v", err)
	}
	if discord != nil {
		notifier = discord
	}

	files, err := services.NewLocalFileStore(cfg.UploadDir, cfg.UploadURLPrefix)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	hub := realtime.NewHub(cfg.CORSOrigins)
	go hub.Run(ctx)

	auth := services.NewAuthService(cfg, store, cache, mailer)
	auth.StartSessionSweeper(ctx, cfg.SessionSweepInterval)
	middleware.UpdateSystemMetrics(ctx, cfg.UploadDir, 15*time.Second)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithWriter(log.StandardLogger().Writer()))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length", "Content-Language", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 8 << 20

	r.Static(cfg.UploadURLPrefix, cfg.UploadDir)
	docs.SwaggerInfo.BasePath = "/api"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api.Register(ctx, r, api.Dependencies{
		Config:        cfg,
		Store:         store,
		Translator:    translator,
		Hub:           hub,
		Auth:          auth,
		Competitions:  services.NewCompetitionService(cfg, store, translator, notifier, auth),
		Participation: services.NewParticipationService(cfg, store, files, hub),
		Profiles:      services.NewProfileService(cfg, store, auth),
		Organizations: services.NewOrganizationService(store, auth),
		Support:       support,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("API listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
