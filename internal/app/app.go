package app

import (
	"carevo_backend/internal/config"
	"carevo_backend/internal/controller"
	"carevo_backend/internal/middleware"
	"carevo_backend/internal/repository"
	"carevo_backend/internal/service"
	"carevo_backend/internal/util"
	"carevo_backend/pkg/configwatcher"
	"carevo_backend/pkg/database"
	"carevo_backend/pkg/logger"
	"carevo_backend/pkg/monitoring"
	"carevo_backend/pkg/security"
	"carevo_backend/pkg/tracing"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	limiter         *security.RateLimiter
	tracer          *sdktrace.TracerProvider
	stop            chan struct{}
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	career       *repository.CareerRepository
	skill        *repository.SkillRepository
	gamification *repository.GamificationRepository
	badge        *repository.BadgeRepository
	roadmap      *repository.RoadmapRepository
	task         *repository.TaskRepository
	quiz         *repository.QuizRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	career       *service.CareerService
	ai           *service.AIService
	gamification *service.GamificationService
	quiz         *service.QuizService
	roadmap      *service.RoadmapService
	jobMarket    *service.JobMarketClient
	analytics    *service.AnalyticsService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	career       *controller.CareerController
	quiz         *controller.QuizController
	roadmap      *controller.RoadmapController
	gamification *controller.GamificationController
	analytics    *controller.AnalyticsController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.Config = cfg
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		career:       repository.NewCareerRepository(db),
		skill:        repository.NewSkillRepository(db),
		gamification: repository.NewGamificationRepository(db),
		badge:        repository.NewBadgeRepository(db),
		roadmap:      repository.NewRoadmapRepository(db),
		task:         repository.NewTaskRepository(db),
		quiz:         repository.NewQuizRepository(db),
	}
}

func (a *App) jobCache(rdb *redis.Client) service.JobCache {
	if rdb != nil {
		return service.NewRedisJobCache(rdb)
	}
	return service.NewMemoryJobCache(time.Now)
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg.JWT)
	s.user = service.NewUserService(repos.user, repos.skill, repos.career)
	s.career = service.NewCareerService(repos.career)
	s.ai = service.NewAIService(cfg.AI)
	s.gamification = service.NewGamificationService(repos.gamification, repos.badge, time.Now)
	s.quiz = service.NewQuizService(repos.quiz, repos.skill, repos.career, s.ai, s.gamification)
	s.roadmap = service.NewRoadmapService(repos.roadmap, repos.task, repos.skill, repos.career, s.ai, s.gamification, time.Now)

	s.jobMarket = service.NewJobMarketClient(cfg.JobMarket, a.jobCache(rdb))
	s.analytics = service.NewAnalyticsService(
		repos.user,
		repos.skill,
		repos.gamification,
		repos.roadmap,
		repos.task,
		repos.quiz,
		repos.career,
		s.jobMarket,
		time.Now,
		cfg.Analytics.TopSkills,
	)

	// 配置热更新
	a.RegisterConfigCallback(func(c *config.Config) {
		s.jobMarket.Apply(c.JobMarket)
		s.analytics.SetTopSkills(c.Analytics.TopSkills)
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		career:       controller.NewCareerController(s.career),
		quiz:         controller.NewQuizController(s.quiz),
		roadmap:      controller.NewRoadmapController(s.roadmap),
		gamification: controller.NewGamificationController(s.gamification),
		analytics:    controller.NewAnalyticsController(s.analytics),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	a.limiter = security.NewRateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	a.RegisterConfigCallback(func(c *config.Config) {
		a.limiter.Update(c.RateLimit.MaxRequests, time.Duration(c.RateLimit.WindowMinutes)*time.Minute)
		logger.SetMode(c.Server.Mode)
	})

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(requestLogger())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks() {
	go a.limiter.RunCleanup(a.stop)

	if a.ConfigDir == "" {
		return
	}
	go func() {
		if err := configwatcher.WatchConfig(a.ConfigDir, a.applyConfig, a.stop); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

// NewApp connects the stores and builds the HTTP router. It migrates the
// schema outside release mode or when cfg.ForceMigrate is set.
func NewApp(cfg *config.Config, configDir string) (*App, error) {
	logger.InitLogger(cfg)
	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Log.Info("Database migrated")
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}, nil
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	if err := registerValidators(); err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		DB:        db,
		Redis:     rdb,
		stop:      make(chan struct{}),
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("carevo-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		app.tracer = tp
	}

	monitoring.Init()

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	router := gin.New()
	app.Router = router
	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos, cfg)

	app.startBackgroundTasks()

	logger.Log.Info("Application initialized",
		zap.String("mode", cfg.Server.Mode),
		zap.Bool("redis", rdb != nil),
		zap.Bool("tracing", cfg.Tracing.Enabled),
	)
	return app, nil
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}
	logger.Log.Info("Shutting down server...")
	close(a.stop)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
	return nil
}

// requestLogger logs one line per request with the request id.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(util.ContextRequestIDKey)),
		)
	}
}
