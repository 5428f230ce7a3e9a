package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planora/todo-planner-api/internal/config"
	"github.com/planora/todo-planner-api/internal/constants"
	"github.com/planora/todo-planner-api/internal/database"
	apierrors "github.com/planora/todo-planner-api/internal/errors"
	"github.com/planora/todo-planner-api/internal/handlers"
	"github.com/planora/todo-planner-api/internal/identity"
	"github.com/planora/todo-planner-api/internal/metrics"
	"github.com/planora/todo-planner-api/internal/middleware"
	"github.com/planora/todo-planner-api/internal/repository"
	"github.com/planora/todo-planner-api/internal/services"
)

func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		logger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	provider := identity.NewLocalProvider(database.GetDB())
	profileRepo := repository.NewProfileRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())

	authService := services.NewAuthService(provider, profileRepo)
	taskService := services.NewTaskService(taskRepo)

	authHandler := handlers.NewAuthHandler(authService, logger)
	taskHandler := handlers.NewTaskHandler(taskService)

	collector := metrics.NewCollector()
	apierrors.SetErrorObserver(collector.RecordGatewayError)

	// Feed auth-state transitions into the metrics collector.
	events, cancel := provider.Subscribe()
	defer cancel()
	go collector.ObserveAuthEvents(events)

	loginLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer loginLimiter.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(collector.Middleware())

	isProduction := cfg.GinMode == "release"
	store, err := sessionStore(cfg, isProduction)
	if err != nil {
		logger.Fatal("failed to create session store", zap.Error(err))
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Todo Planner API is running",
		})
	})
	r.GET("/metrics", collector.Handler())

	api := r.Group("/api")
	{
		// Identity gateway (public except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", loginLimiter.Middleware(), authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task store gateway (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/month", taskHandler.ListTasksByMonth)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	logger.Info("server starting", zap.String("addr", cfg.ListenAddr))
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

// sessionStore builds the session backend: Redis in release mode, in-process
// cookie store otherwise.
func sessionStore(cfg *config.Config, isProduction bool) (sessions.Store, error) {
	var store sessions.Store
	if isProduction {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})

	return store, nil
}
