package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpetrov/flightdesk/config"
	"github.com/mpetrov/flightdesk/internal/auth"
	"github.com/mpetrov/flightdesk/internal/bootstrap"
	"github.com/mpetrov/flightdesk/internal/cache"
	"github.com/mpetrov/flightdesk/internal/kafka"
	"github.com/mpetrov/flightdesk/internal/repository"
	"github.com/mpetrov/flightdesk/internal/service/account"
	"github.com/mpetrov/flightdesk/internal/service/reservation"
	"github.com/mpetrov/flightdesk/internal/service/search"
	"github.com/mpetrov/flightdesk/internal/session"
	"github.com/mpetrov/flightdesk/internal/txguard"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Search.CacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	guard := txguard.New(pool)
	userRepo := repository.NewUserRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool, guard)

	manager := session.NewManager()
	accountSvc := account.NewAccountService(userRepo, auth.NewHasher())
	searchSvc := search.NewSearchService(flightRepo, redisCache)
	reservationSvc := reservation.NewReservationService(
		reservationRepo,
		flightRepo,
		reservation.WithProducer(producer, cfg.Kafka.ReservationsTopic),
		reservation.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	router := bootstrap.NewRouter(manager, accountSvc, searchSvc, reservationSvc)
	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
