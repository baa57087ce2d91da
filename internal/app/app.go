package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketing_edu_backend/internal/config"
	"marketing_edu_backend/internal/controller"
	"marketing_edu_backend/internal/repository"
	"marketing_edu_backend/internal/service"
	"marketing_edu_backend/internal/util"
	"marketing_edu_backend/pkg/database"
	"marketing_edu_backend/pkg/logger"
	"marketing_edu_backend/pkg/monitoring"
	"marketing_edu_backend/pkg/security"
	"marketing_edu_backend/pkg/tracing"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user       *repository.UserRepository
	snapshot   *repository.SnapshotRepository
	resource   *repository.ResourceRepository
	motivation *repository.MotivationRepository
}

type services struct {
	storage     *service.StorageService
	ai          *service.AIService
	progression *service.ProgressionService
	auth        *service.AuthService
	user        *service.UserService
	lab         *service.LabService
	quiz        *service.QuizService
	report      *service.ReportService
	content     *service.ContentService
	motivation  *service.MotivationService
	dashboard   *service.DashboardService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	progression *controller.ProgressionController
	lab         *controller.LabController
	quiz        *controller.QuizController
	dashboard   *controller.DashboardController
	content     *controller.ContentController
	motivation  *controller.MotivationController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		snapshot:   repository.NewSnapshotRepository(db),
		resource:   repository.NewResourceRepository(db),
		motivation: repository.NewMotivationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.ai = service.NewAIService(cfg.AI)
	s.progression = service.NewProgressionService(repos.snapshot)
	s.auth = service.NewAuthService(repos.user, s.progression, cfg)
	s.user = service.NewUserService(repos.user, s.progression)
	s.lab = service.NewLabService(s.ai, s.progression, rdb)
	s.quiz = service.NewQuizService(s.progression)
	s.report = service.NewReportService(repos.user, s.progression, s.storage)
	s.content = service.NewContentService(repos.resource, s.storage)
	s.motivation = service.NewMotivationService(repos.motivation)
	s.dashboard = service.NewDashboardService(s.progression, s.content, s.motivation, s.lab)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, s.user),
		user:        controller.NewUserController(s.user),
		progression: controller.NewProgressionController(s.progression),
		lab:         controller.NewLabController(s.lab, s.ai, s.progression),
		quiz:        controller.NewQuizController(s.quiz),
		dashboard:   controller.NewDashboardController(s.dashboard, s.report),
		content:     controller.NewContentController(s.content),
		motivation:  controller.NewMotivationController(s.motivation),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("marketing-lab-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
