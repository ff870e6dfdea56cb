package main

import (
	"log"
	"time"

	"espacios-api/config"
	"espacios-api/internal/handler"
	"espacios-api/internal/middleware"
	"espacios-api/internal/repository"
	"espacios-api/internal/service"
	"espacios-api/internal/token"
	"espacios-api/pkg/database"
	"espacios-api/pkg/rabbitmq"
	"espacios-api/pkg/redisclient"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())
	rdb := redisclient.New(cfg.RedisURL)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Printf("RabbitMQ unavailable, reservation events disabled: %v", err)
	} else {
		defer publisher.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	// Identity
	tokens := token.NewManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	denylist := token.NewDenylist(rdb)

	// Services
	authSvc := service.NewAuthService(userRepo, tokens, denylist)
	spaceSvc := service.NewSpaceService(spaceRepo)
	reservationSvc := service.NewReservationService(reservationRepo, spaceRepo, publisher)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "espacios-api"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	auth := middleware.RequireAuth(tokens, denylist)
	handler.NewAuthHandler(authSvc).RegisterRoutes(e, auth)
	handler.NewSpaceHandler(spaceSvc).RegisterRoutes(e, auth)
	handler.NewReservationHandler(reservationSvc).RegisterRoutes(e, auth)

	log.Printf("espacios-api starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
