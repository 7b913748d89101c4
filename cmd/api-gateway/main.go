package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/coursematch/tutor-api/api/swagger"
	"github.com/coursematch/tutor-api/internal/handler"
	"github.com/coursematch/tutor-api/internal/middleware"
	"github.com/coursematch/tutor-api/internal/models"
	"github.com/coursematch/tutor-api/internal/repository"
	"github.com/coursematch/tutor-api/internal/service"
	"github.com/coursematch/tutor-api/pkg/cache"
	"github.com/coursematch/tutor-api/pkg/config"
	"github.com/coursematch/tutor-api/pkg/database"
	"github.com/coursematch/tutor-api/pkg/logger"
	corsmiddleware "github.com/coursematch/tutor-api/pkg/middleware/cors"
	reqidmiddleware "github.com/coursematch/tutor-api/pkg/middleware/requestid"
)

// @title CourseMatch Tutor API
// @version 1.0.0
// @description Peer tutoring directory with course catalog, enrollments and contact sharing
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The directory works without a cache, just slower.
		logr.Sugar().Warnw("redis unavailable, directory caching disabled", "error", err)
		redisClient = nil
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	contactRepo := repository.NewContactMethodRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
	})
	profileSvc := service.NewProfileService(userRepo, enrollmentRepo, contactRepo, cacheRepo, nil, logr)
	courseSvc := service.NewCourseService(courseRepo, cacheRepo, nil, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, cacheRepo, nil, logr)
	contactSvc := service.NewContactService(contactRepo, cacheRepo, nil, logr)
	tutorSvc := service.NewTutorService(userRepo, enrollmentRepo, contactRepo, courseRepo, cacheRepo, cfg.Directory.CacheTTL, metricsSvc, logr)
	exportSvc := service.NewExportService(enrollmentRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	contactHandler := handler.NewContactMethodHandler(contactSvc)
	tutorHandler := handler.NewTutorHandler(tutorSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	courses := r.Group("/courses")
	{
		courses.GET("", courseHandler.Search)
		courses.GET("/:id", courseHandler.Get)
		courses.GET("/:id/tutors", middleware.OptionalJWT(authSvc), tutorHandler.CourseTutors)
	}

	r.GET("/tutors/:userId", middleware.OptionalJWT(authSvc), tutorHandler.Profile)

	me := r.Group("/me", middleware.JWT(authSvc))
	{
		me.GET("", profileHandler.Overview)
		me.GET("/profile", profileHandler.Get)
		me.PATCH("/profile", profileHandler.Update)

		me.GET("/enrollments", enrollmentHandler.List)
		me.POST("/enrollments", enrollmentHandler.Create)
		me.PATCH("/enrollments/:id", enrollmentHandler.Update)
		me.DELETE("/enrollments/:id", enrollmentHandler.Delete)

		me.GET("/contact-methods", contactHandler.List)
		me.POST("/contact-methods", contactHandler.Create)
		me.PATCH("/contact-methods/:id", contactHandler.Update)
		me.DELETE("/contact-methods/:id", contactHandler.Delete)

		if cfg.Exports.Enabled {
			me.GET("/exports/course-history", exportHandler.CourseHistory)
		}
	}

	admin := r.Group("/admin", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/courses", courseHandler.Create)
		admin.PUT("/courses/:id", courseHandler.Update)
		admin.DELETE("/courses/:id", courseHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
