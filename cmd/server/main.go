package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/courtside/facility-booking/internal/config"
	"github.com/courtside/facility-booking/internal/database"
	"github.com/courtside/facility-booking/internal/handler"
	"github.com/courtside/facility-booking/internal/queue"
	"github.com/courtside/facility-booking/internal/repository"
	"github.com/courtside/facility-booking/internal/router"
	"github.com/courtside/facility-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	clientRepo := repository.NewClientRepo(db)
	locationRepo := repository.NewLocationRepo(db)
	facilityRepo := repository.NewFacilityRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	authSvc := service.NewAuthService(userRepo, tokenRepo, clientRepo,
		cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays, cfg.BcryptCost)
	userSvc := service.NewUserService(userRepo, cfg.BcryptCost)
	clientSvc := service.NewClientService(clientRepo)

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Users:      handler.NewUserAdminHandler(userSvc, authSvc),
		Clients:    handler.NewClientHandler(clientSvc),
		Facilities: handler.NewFacilityHandler(facilityRepo, locationRepo),
		Locations:  handler.NewLocationHandler(locationRepo),
		Bookings:   handler.NewBookingHandler(bookingRepo, locationRepo, facilityRepo),
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}

	// Background consumer for confirmed-booking events.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, h, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
