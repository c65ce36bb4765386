package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/virtual-closet/internal/config"
	"github.com/iliyamo/virtual-closet/internal/database"
	"github.com/iliyamo/virtual-closet/internal/handler"
	"github.com/iliyamo/virtual-closet/internal/middleware"
	"github.com/iliyamo/virtual-closet/internal/queue"
	"github.com/iliyamo/virtual-closet/internal/repository"
	"github.com/iliyamo/virtual-closet/internal/router"
	queue_publisher "github.com/iliyamo/virtual-closet/internal/service"
	"github.com/iliyamo/virtual-closet/internal/upload"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; features degrade

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	items := repository.NewItemRepo(db)
	outfits := repository.NewOutfitRepo(db)
	schedules := repository.NewScheduleRepo(db)

	h := router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, users, tokens),
		Items:       handler.NewItemHandler(items),
		Outfits:     handler.NewOutfitHandler(outfits),
		Schedules:   handler.NewScheduleHandler(schedules, queue_publisher.PublishOutfitScheduled),
		Suggestions: handler.NewSuggestionHandler(outfits),
		Uploads:     handler.NewUploadHandler(upload.NewDiskStore(cfg.UploadDir, "/uploads")),
	}
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.Register(e, cfg.JWTSecret, cfg.UploadDir, h, cache, limiter)

	// The consumer maintains its own connection and reconnects on
	// failure; it stops when the process exits.
	go queue.StartScheduleConsumer()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.Port
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
