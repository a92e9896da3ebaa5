package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/lironamy/wedding-us-sub001/api/swagger"
	"github.com/lironamy/wedding-us-sub001/internal/handler"
	"github.com/lironamy/wedding-us-sub001/internal/middleware"
	"github.com/lironamy/wedding-us-sub001/internal/repository"
	"github.com/lironamy/wedding-us-sub001/internal/service"
	"github.com/lironamy/wedding-us-sub001/pkg/cache"
	"github.com/lironamy/wedding-us-sub001/pkg/config"
	"github.com/lironamy/wedding-us-sub001/pkg/database"
	"github.com/lironamy/wedding-us-sub001/pkg/logger"
	corsmiddleware "github.com/lironamy/wedding-us-sub001/pkg/middleware/cors"
	reqidmiddleware "github.com/lironamy/wedding-us-sub001/pkg/middleware/requestid"
)

// @title Wedding Seating API
// @version 1.0.0
// @description Guest list, floor plan, and auto-seating engine for wedding events
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	var cacheRepo *repository.CacheRepository
	if cfg.Seating.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, plan caching disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	eventRepo := repository.NewEventRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	tableRepo := repository.NewTableRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	adjacencyRepo := repository.NewAdjacencyRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	userRepo := repository.NewUserRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, logr, cfg.JWT)
	guestSvc := service.NewGuestService(guestRepo, tableRepo, planCacheOrNil(cacheRepo), logr)
	tableSvc := service.NewTableService(tableRepo, assignmentRepo, planCacheOrNil(cacheRepo), logr)
	preferenceSvc := service.NewPreferenceService(preferenceRepo, guestRepo, planCacheOrNil(cacheRepo), logr)
	groupSvc := service.NewGroupService(groupRepo, settingsRepo, planCacheOrNil(cacheRepo), logr)
	seatingSvc := service.NewSeatingService(
		eventRepo, guestRepo, tableRepo, assignmentRepo,
		preferenceRepo, adjacencyRepo, groupRepo, settingsRepo,
		planCacheOrNil(cacheRepo), metricsSvc, cfg.Seating, logr,
	)
	exportSvc := service.NewExportService(seatingSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	guestHandler := handler.NewGuestHandler(guestSvc)
	tableHandler := handler.NewTableHandler(tableSvc)
	preferenceHandler := handler.NewPreferenceHandler(preferenceSvc)
	groupHandler := handler.NewGroupHandler(groupSvc)
	seatingHandler := handler.NewSeatingHandler(seatingSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.GET("/events/:eventId/guests", guestHandler.List)
		protected.POST("/events/:eventId/guests", guestHandler.Create)
		protected.GET("/guests/:id", guestHandler.Get)
		protected.PATCH("/guests/:id", guestHandler.Update)
		protected.POST("/guests/:id/lock", guestHandler.Lock)
		protected.DELETE("/guests/:id/lock", guestHandler.Unlock)
		protected.DELETE("/guests/:id", guestHandler.Delete)

		protected.GET("/events/:eventId/tables", tableHandler.List)
		protected.POST("/events/:eventId/tables", tableHandler.Create)
		protected.GET("/tables/:id", tableHandler.Get)
		protected.PATCH("/tables/:id", tableHandler.Update)
		protected.DELETE("/tables/:id", tableHandler.Delete)

		protected.GET("/events/:eventId/preferences", preferenceHandler.List)
		protected.POST("/events/:eventId/preferences", preferenceHandler.Create)
		protected.PUT("/events/:eventId/preferences/:id/enabled", preferenceHandler.SetEnabled)
		protected.DELETE("/events/:eventId/preferences/:id", preferenceHandler.Delete)

		protected.GET("/events/:eventId/groups", groupHandler.ListGroups)
		protected.GET("/events/:eventId/group-priorities", groupHandler.ListPriorities)
		protected.PUT("/events/:eventId/group-priorities", groupHandler.ReplacePriorities)
		protected.GET("/events/:eventId/seating-settings", groupHandler.GetSettings)
		protected.PUT("/events/:eventId/seating-settings", groupHandler.PutSettings)

		protected.POST("/events/:eventId/seating/run", seatingHandler.Run)
		protected.GET("/events/:eventId/seating/plan", seatingHandler.Plan)
		protected.GET("/events/:eventId/seating/last-run", seatingHandler.LastRun)

		protected.GET("/events/:eventId/export/seating.csv", exportHandler.CSV)
		protected.GET("/events/:eventId/export/seating.pdf", exportHandler.PDF)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// planCacheOrNil keeps a typed nil out of the services' cache interface.
func planCacheOrNil(repo *repository.CacheRepository) service.PlanCache {
	if repo == nil {
		return nil
	}
	return repo
}
