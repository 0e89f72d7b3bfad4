package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/titan-online/registrar-api/api/swagger"
	"github.com/titan-online/registrar-api/internal/handler"
	"github.com/titan-online/registrar-api/internal/middleware"
	"github.com/titan-online/registrar-api/internal/repository"
	"github.com/titan-online/registrar-api/internal/service"
	"github.com/titan-online/registrar-api/pkg/cache"
	"github.com/titan-online/registrar-api/pkg/config"
	"github.com/titan-online/registrar-api/pkg/database"
	"github.com/titan-online/registrar-api/pkg/export"
	"github.com/titan-online/registrar-api/pkg/logger"
	corsmiddleware "github.com/titan-online/registrar-api/pkg/middleware/cors"
	reqidmiddleware "github.com/titan-online/registrar-api/pkg/middleware/requestid"
)

// @title Titan Online Registrar API
// @version 1.0.0
// @description Course catalog, enrollment and waitlist management for Titan Online.
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
		logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		redisClient = nil
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	sectionRepo := repository.NewSectionRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	waitlistRepo := repository.NewWaitlistRepository(db)
	droplistRepo := repository.NewDroplistRepository(db)
	configRepo := repository.NewConfigRepository(db)
	professorRepo := repository.NewProfessorRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	capacity := service.NewCapacityEvaluator(enrollmentRepo, waitlistRepo, cfg.Enrollment.MaxEnrollmentCapacity)
	admissionSvc := service.NewAdmissionService(db, sectionRepo, enrollmentRepo, waitlistRepo, capacity, metrics, validate, logr,
		cfg.Enrollment.WaitlistCapacity, cfg.Enrollment.MaxStudentWaitlists)
	promotionSvc := service.NewPromotionService(db, sectionRepo, enrollmentRepo, waitlistRepo, capacity, metrics, logr,
		cfg.Promotion.OpenSectionGraceDays)
	dispatcher := service.NewPromotionDispatcher(promotionSvc, cfg.Promotion.Workers, cfg.Promotion.QueueBuffer, logr)
	dropSvc := service.NewDropService(db, professorRepo, enrollmentRepo, waitlistRepo, droplistRepo, configRepo, promotionSvc, logr)
	waitlistSvc := service.NewWaitlistService(waitlistRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)
	catalogSvc := service.NewCatalogService(courseRepo, sectionRepo, cacheRepo, metrics, validate, logr, cfg.Catalog.CacheTTL)
	professorSvc := service.NewProfessorService(professorRepo, enrollmentRepo, droplistRepo, logr)
	configSvc := service.NewRegistrarConfigService(configRepo, promotionSvc, dispatcher, logr)

	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcher.Start(dispatcherCtx)
	defer func() {
		stopDispatcher()
		dispatcher.Stop()
	}()

	enrollmentHandler := handler.NewEnrollmentHandler(admissionSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	waitlistHandler := handler.NewWaitlistHandler(waitlistSvc)
	professorHandler := handler.NewProfessorHandler(professorSvc, dropSvc)
	configHandler := handler.NewConfigHandler(configSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/snapshot", metricsHandler.Snapshot)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/classes/", catalogHandler.ListClasses)
	r.POST("/courses/", catalogHandler.CreateCourse)
	r.POST("/sections/", catalogHandler.CreateSection)
	r.PATCH("/sections/:id", catalogHandler.PatchSection)
	r.DELETE("/sections/:id", catalogHandler.DeleteSection)

	r.POST("/enrollments/", enrollmentHandler.Create)

	r.GET("/student/waitlist/:section_id/:student_id", waitlistHandler.Position)
	r.DELETE("/student/waitlist/:section_id", waitlistHandler.SelfDrop)
	r.GET("/professor/waitlist/:section_id", waitlistHandler.SectionWaitlist)
	r.GET("/professor/waitlist/:section_id/export", waitlistHandler.Export)

	r.GET("/professors/:prof_id/enrollments", professorHandler.Enrollments)
	r.GET("/professors/:prof_id/droplists", professorHandler.Droplists)
	r.DELETE("/professors/:prof_id/course_section/:section_id/student/:student_id/drop", professorHandler.Drop)

	r.GET("/freezeenrollment", configHandler.Get)
	r.POST("/freezeenrollment/:flag", configHandler.SetAutoEnrollment)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
