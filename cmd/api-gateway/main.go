package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/edulearn-api/api/swagger"
	"github.com/noah-isme/edulearn-api/internal/handler"
	"github.com/noah-isme/edulearn-api/internal/middleware"
	"github.com/noah-isme/edulearn-api/internal/repository"
	"github.com/noah-isme/edulearn-api/internal/service"
	"github.com/noah-isme/edulearn-api/pkg/cache"
	"github.com/noah-isme/edulearn-api/pkg/config"
	"github.com/noah-isme/edulearn-api/pkg/database"
	"github.com/noah-isme/edulearn-api/pkg/jobs"
	"github.com/noah-isme/edulearn-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/edulearn-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/edulearn-api/pkg/middleware/requestid"
	"github.com/noah-isme/edulearn-api/pkg/razorpay"
)

const shutdownTimeout = 10 * time.Second

// @title EduLearn API
// @version 1.0.0
// @description Learning management backend: users, courses, enrollments, payments and reports
// @BasePath /api
// @schemes http https
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logr.Fatal("failed to apply migrations", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
			redisClient = nil
		}
	}

	app, err := buildApp(ctx, cfg, db, redisClient, logr)
	if err != nil {
		logr.Fatal("failed to build application", zap.Error(err))
	}
	defer app.close()

	app.queue.Start(ctx)
	defer app.queue.Stop()
	app.scheduler.Start(ctx)
	defer app.scheduler.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(app.metrics))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins, cfg.CORS.MaxAge))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Authenticate(app.users, app.tokens, logr))
	r.Use(middleware.Policy(middleware.DefaultRules))

	registerRoutes(r, cfg.APIPrefix, app)

	if cfg.Env != config.EnvProduction {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

type application struct {
	metrics   *service.MetricsService
	users     *repository.UserRepository
	tokens    *service.TokenService
	cacheRepo *repository.CacheRepository
	queue     *jobs.Queue
	scheduler *jobs.Scheduler
	logger    *zap.Logger

	auth        *handler.AuthHandler
	user        *handler.UserHandler
	course      *handler.CourseHandler
	category    *handler.CategoryHandler
	enrollment  *handler.EnrollmentHandler
	video       *handler.VideoHandler
	catalog     *handler.CatalogHandler
	payment     *handler.PaymentHandler
	report      *handler.ReportHandler
	operational *handler.MetricsHandler
}

func buildApp(ctx context.Context, cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, logr *zap.Logger) (*application, error) {
	validate := validator.New()
	metrics := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.DefaultTTL, logr, cfg.Cache.Enabled && redisClient != nil)

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	productRepo := repository.NewProductRepository(db)
	reportRepo := repository.NewReportRepository(db)

	tokens, err := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Expiry: cfg.JWT.Expiration})
	if err != nil {
		return nil, err
	}

	reportSvc := service.NewReportService(reportRepo, cacheSvc, metrics, cfg.Reports.CacheTTL, logr)
	authSvc := service.NewAuthService(userRepo, tokens, reportSvc, validate, logr)
	userSvc := service.NewUserService(userRepo, reportSvc, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, userRepo, reportSvc, validate, logr)
	categorySvc := service.NewCategoryService(categoryRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, userRepo, courseRepo, userRepo, reportSvc, validate, logr)
	videoSvc := service.NewVideoService(videoRepo, courseRepo, validate, logr)
	productSvc := service.NewProductService(productRepo, cacheSvc, metrics, cfg.Cache.CatalogTTL, validate, logr)

	gateway := razorpay.NewClient(razorpay.Config{
		KeyID:     cfg.Payment.KeyID,
		KeySecret: cfg.Payment.KeySecret,
		BaseURL:   cfg.Payment.BaseURL,
		Timeout:   cfg.Payment.Timeout,
	})
	paymentSvc := service.NewPaymentService(gateway, cfg.Payment.KeySecret, metrics, validate, logr)

	if err := authSvc.EnsureAdmin(ctx, service.SeedAdmin{
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
		Name:     cfg.Seed.AdminName,
	}); err != nil {
		logr.Warn("failed to seed admin account", zap.Error(err))
	}

	queue := jobs.NewQueue("reports", reportSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	scheduler := jobs.NewScheduler(logr)
	if cfg.Reports.RefreshCron != "" {
		if err := scheduler.Every(cfg.Reports.RefreshCron, queue, func() jobs.Job { return service.WarmupJob() }); err != nil {
			return nil, fmt.Errorf("schedule report warm-up: %w", err)
		}
	}

	dependencies := map[string]handler.Pinger{
		"postgres": handler.PingerFunc(db.PingContext),
	}
	if redisClient != nil {
		dependencies["redis"] = cacheRepo
	}

	return &application{
		metrics:     metrics,
		users:       userRepo,
		tokens:      tokens,
		cacheRepo:   cacheRepo,
		queue:       queue,
		scheduler:   scheduler,
		logger:      logr,
		auth:        handler.NewAuthHandler(authSvc),
		user:        handler.NewUserHandler(userSvc),
		course:      handler.NewCourseHandler(courseSvc),
		category:    handler.NewCategoryHandler(categorySvc),
		enrollment:  handler.NewEnrollmentHandler(enrollmentSvc),
		video:       handler.NewVideoHandler(videoSvc),
		catalog:     handler.NewCatalogHandler(productSvc),
		payment:     handler.NewPaymentHandler(paymentSvc),
		report:      handler.NewReportHandler(reportSvc),
		operational: handler.NewMetricsHandler(metrics, dependencies),
	}, nil
}

func (a *application) close() {
	if err := a.cacheRepo.Close(); err != nil {
		a.logger.Warn("failed to close redis", zap.Error(err))
	}
}
