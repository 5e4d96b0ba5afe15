package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/TinArambasic/ScholarSync/api/swagger"
	"github.com/TinArambasic/ScholarSync/internal/handler"
	"github.com/TinArambasic/ScholarSync/internal/middleware"
	"github.com/TinArambasic/ScholarSync/internal/repository"
	"github.com/TinArambasic/ScholarSync/internal/service"
	"github.com/TinArambasic/ScholarSync/pkg/config"
	"github.com/TinArambasic/ScholarSync/pkg/database"
	"github.com/TinArambasic/ScholarSync/pkg/logger"
	corsmiddleware "github.com/TinArambasic/ScholarSync/pkg/middleware/cors"
	reqidmiddleware "github.com/TinArambasic/ScholarSync/pkg/middleware/requestid"
	"github.com/TinArambasic/ScholarSync/pkg/storage"
	"github.com/TinArambasic/ScholarSync/pkg/validation"
)

// @title ScholarSync API
// @version 1.0.0
// @description Question and answer forum for university courses
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		if cfg.JWT.Secret == "" || cfg.JWT.Secret == "dev_secret" {
			logr.Fatal("JWT_SECRET must be set in production")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logr.Fatal("failed to set up storage", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}

	validate := validation.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	attachments := service.NewAttachmentService(store,
		storage.AttachmentPolicy(cfg.Storage.MaxAttachmentBytes),
		storage.AvatarPolicy(cfg.Storage.MaxAvatarBytes),
		logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	}).WithEvents(metrics)
	questionSvc := service.NewQuestionService(questionRepo, courseRepo, attachments, validate, logr).WithEvents(metrics)
	answerSvc := service.NewAnswerService(answerRepo, questionRepo, attachments, validate, logr).WithEvents(metrics)
	courseSvc := service.NewCourseService(courseRepo, userRepo, questionRepo, validate, logr).WithEvents(metrics)
	userSvc := service.NewUserService(userRepo, attachments, authSvc, validate, logr)
	searchSvc := service.NewSearchService(questionRepo, userRepo, courseRepo, logr)

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Questions: handler.NewQuestionHandler(questionSvc, courseSvc),
		Answers:   handler.NewAnswerHandler(answerSvc),
		Courses:   handler.NewCourseHandler(courseSvc),
		Users:     handler.NewUserHandler(userSvc),
		Search:    handler.NewSearchHandler(searchSvc),
		Metrics:   handler.NewMetricsHandler(metrics, db),
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.Storage.MaxAttachmentBytes
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.Deadline(cfg.Database.OperationTimeout, cfg.Storage.UploadTimeout))

	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc)

	if cfg.Metrics.Enabled {
		r.GET("/metrics", handlers.Metrics.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if local, ok := store.(*storage.LocalStorage); ok {
		r.Static(local.URLPrefix(), local.Dir())
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logr.Sugar().Errorw("server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	logr.Info("server stopped")
}
