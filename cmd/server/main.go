package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-front-desk/internal/booking"
	"github.com/iliyamo/hotel-front-desk/internal/config"
	"github.com/iliyamo/hotel-front-desk/internal/database"
	"github.com/iliyamo/hotel-front-desk/internal/handler"
	"github.com/iliyamo/hotel-front-desk/internal/middleware"
	"github.com/iliyamo/hotel-front-desk/internal/queue"
	"github.com/iliyamo/hotel-front-desk/internal/repository"
	"github.com/iliyamo/hotel-front-desk/internal/router"
	queue_publisher "github.com/iliyamo/hotel-front-desk/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Repositories
	roomRepo := repository.NewRoomRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	statsRepo := repository.NewStatsRepo(db)

	// Core lifecycle engine over the SQL stores
	engine := booking.NewEngine(roomRepo, reservationRepo)

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	roomHandler := handler.NewRoomHandler(roomRepo)
	reservationHandler := handler.NewReservationHandler(engine, reservationRepo, queue_publisher.PublishLifecycleEvent)
	staffHandler := handler.NewStaffHandler(cfg, userRepo, tokenRepo)
	dashboardHandler := handler.NewDashboardHandler(statsRepo)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, roomHandler, staffHandler, cfg.JWTSecret)
	router.RegisterDesk(e, roomHandler, reservationHandler, dashboardHandler, config.LoadCacheConfig(), rdb, cfg.JWTSecret)

	// Background consumer writing the reservation audit log.  It keeps
	// reconnecting on its own; a dead broker never stops the API.
	go func() {
		if err := queue.StartLifecycleConsumer(queue_publisher.BrokerURL()); err != nil {
			log.Printf("lifecycle consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
