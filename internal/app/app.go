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

	"physics_edu_backend/internal/config"
	"physics_edu_backend/internal/controller"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/service"
	"physics_edu_backend/pkg/database"
	"physics_edu_backend/pkg/logger"
	"physics_edu_backend/pkg/monitoring"
	"physics_edu_backend/pkg/security"
	"physics_edu_backend/pkg/tracing"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracerProvider  interface{ Shutdown(context.Context) error }
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	question    *repository.QuestionRepository
	quiz        *repository.QuizRepository
	complexQuiz *repository.ComplexQuizRepository
	subject     *repository.SubjectRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	subject     *service.SubjectService
	quiz        *service.QuizService
	complexQuiz *service.ComplexQuizService
	question    *service.QuestionService
	teacher     *service.TeacherService
	diagrams    *service.DiagramStorage
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	quiz        *controller.QuizController
	complexQuiz *controller.ComplexQuizController
	subject     *controller.SubjectController
	teacher     *controller.TeacherController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 热更新配置，运行时标志沿用旧值
func (a *App) ApplyConfig(cfg *config.Config) {
	cfg.ForceMigrate = a.Config.ForceMigrate
	cfg.MigrateOnly = a.Config.MigrateOnly
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		question:    repository.NewQuestionRepository(db, rdb),
		quiz:        repository.NewQuizRepository(db),
		complexQuiz: repository.NewComplexQuizRepository(db),
		subject:     repository.NewSubjectRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, repos.subject, cfg)
	s.user = service.NewUserService(repos.user)
	s.subject = service.NewSubjectService(repos.subject, repos.user)
	s.quiz = service.NewQuizService(repos.quiz, repos.question, repos.user, s.subject)
	s.complexQuiz = service.NewComplexQuizService(repos.complexQuiz, repos.question, repos.user, s.subject)
	s.question = service.NewQuestionService(repos.question)
	s.teacher = service.NewTeacherService(repos.user, repos.subject, repos.quiz)

	provider, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage provider", zap.Error(err))
	}
	s.diagrams = service.NewDiagramStorage(provider)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user),
		quiz:        controller.NewQuizController(s.quiz),
		complexQuiz: controller.NewComplexQuizController(s.complexQuiz),
		subject:     controller.NewSubjectController(s.subject),
		teacher:     controller.NewTeacherController(s.teacher, s.question, s.subject, s.diagrams),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	// 配置注入，下游中间件通过 c.MustGet("config") 取当前配置
	router.Use(func(c *gin.Context) {
		c.Set("config", a.Config)
		c.Next()
	})

	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
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
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// debug 模式默认迁移，release 模式需要显式 -migrate
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		if err := database.SeedSubjects(db); err != nil {
			logger.Log.Fatal("Failed to seed subjects", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	if cfg.MigrateOnly {
		return app
	}

	// Redis 不可用时退化为无缓存运行
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, question cache disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("quiz-platform", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
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

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
