package main // Entry point package

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/todo-list-api/internal/config"
	"github.com/iliyamo/todo-list-api/internal/database"
	"github.com/iliyamo/todo-list-api/internal/handler"
	"github.com/iliyamo/todo-list-api/internal/logger"
	"github.com/iliyamo/todo-list-api/internal/middleware"
	"github.com/iliyamo/todo-list-api/internal/queue"
	"github.com/iliyamo/todo-list-api/internal/repository"
	"github.com/iliyamo/todo-list-api/internal/router"
	queue_publisher "github.com/iliyamo/todo-list-api/internal/service"
	"github.com/iliyamo/todo-list-api/internal/validation"
)

func main() {
	_ = godotenv.Load() // .env is optional; real environments set vars directly
	cfg := config.Load()
	log := logger.New(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	// Redis is optional: without it rate limiting and response caching
	// become pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	todos := repository.NewTodoRepo(db)

	pub := queue_publisher.New(log)
	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	todoHandler := handler.NewTodoHandler(todos, pub.PublishTodoCompleted)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.Pre(echomw.RemoveTrailingSlash()) // accept /todo/ and /todo alike
	e.Use(middleware.RequestID())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	auth := middleware.TokenAuth(tokens)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, auth)
	router.RegisterTodos(e, todoHandler, auth, cache)

	// Background consumer appends completed-todo events to logs/todo.log.
	go func() {
		if err := queue.StartTodoConsumer(log); err != nil {
			log.WithError(err).Error("todo consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.WithField("env", cfg.Env).Infof("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
