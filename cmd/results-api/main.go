package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/eduit/results-api/api/swagger"
	"github.com/eduit/results-api/internal/handler"
	"github.com/eduit/results-api/internal/middleware"
	"github.com/eduit/results-api/internal/models"
	"github.com/eduit/results-api/internal/repository"
	"github.com/eduit/results-api/internal/service"
	"github.com/eduit/results-api/pkg/cache"
	"github.com/eduit/results-api/pkg/config"
	"github.com/eduit/results-api/pkg/database"
	"github.com/eduit/results-api/pkg/logger"
	corsmiddleware "github.com/eduit/results-api/pkg/middleware/cors"
	reqidmiddleware "github.com/eduit/results-api/pkg/middleware/requestid"
)

// @title EduIT Results API
// @version 1.0.0
// @description Grading, ranking and promotion computation service
// @BasePath /
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	resultRepo := repository.NewResultRepository(db)
	configRepo := repository.NewResultConfigRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	positionSvc := service.NewPositionService(resultRepo, studentRepo, cacheRepo, metricsSvc, logr, cfg.Results.PositionsCacheTTL)
	resultSvc := service.NewResultService(resultRepo, configRepo, studentRepo, positionSvc, validate, logr, cfg.Results.DefaultPassMark)
	promotionSvc := service.NewPromotionService(resultRepo, studentRepo, configRepo, logr, cfg.Results.DefaultPassMark)
	scaleSvc := service.NewGradeScaleService(configRepo, validate, logr)

	resultHandler := handler.NewResultHandler(resultSvc)
	positionHandler := handler.NewPositionHandler(positionSvc)
	promotionHandler := handler.NewPromotionHandler(promotionSvc)
	scaleHandler := handler.NewGradeScaleHandler(scaleSvc)
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

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "component": "postgres"})
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "component": "redis"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))

	staff := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleSchoolAdmin, models.RoleTeacher)
	admin := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleSchoolAdmin)

	results := api.Group("/results")
	{
		results.PUT("/:id", staff, resultHandler.Update)
		results.POST("/scores", staff, resultHandler.EnterScores)
		results.POST("/:id/publish", admin, resultHandler.Publish)
		results.GET("/report", resultHandler.Report)
		results.GET("/positions", positionHandler.Positions)
		results.GET("/broadsheet", staff, positionHandler.Broadsheet)
	}

	schools := api.Group("/schools/:schoolId")
	{
		schools.GET("/grade-scale", scaleHandler.Scale)
		schools.PUT("/grade-scale", admin, scaleHandler.ReplaceScale)
		schools.GET("/configurations", scaleHandler.Configuration)
		schools.GET("/promotions/eligibility", staff, promotionHandler.Eligibility)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
