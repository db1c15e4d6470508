package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/api"
	"github.com/deeptimaan-k/radiantgo-sub000/config"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/bootstrap"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/cache"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/idempotency"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/kafka"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/lock"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/observe"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/repository"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/seed"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/service/booking"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "cargo",
		Usage: "air cargo route search and booking service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				EnvVars: []string{"CONFIG_PATH"},
				Usage:   "path to the YAML config file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API and gRPC health servers",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations",
				Action: migrate,
			},
			{
				Name:  "seed",
				Usage: "load a generated flight schedule",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "days", Value: 7, Usage: "number of days to generate"},
					&cli.TimestampFlag{Name: "from", Layout: "2006-01-02", Timezone: time.UTC, Usage: "first day (default today, UTC)"},
				},
				Action: seedFlights,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("cargo exited")
	}
}

func load(c *cli.Context) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	return cfg, observe.NewLogger(cfg.Log), nil
}

func serve(c *cli.Context) error {
	cfg, log, err := load(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	store := cache.NewRedisStore(cfg.Redis)
	defer store.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log, kafka.WithRetries(3, 200*time.Millisecond))
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	flightService := flights.NewFlightService(flightRepo, store, log,
		flights.WithPremiumMarker(cfg.Routes.PremiumMarker),
		flights.WithMaxTransitOptions(cfg.Routes.MaxTransitOptions),
		flights.WithMinConnection(cfg.Routes.MinConnection),
		flights.WithRoutesCacheTTL(cfg.Routes.CacheTTL),
	)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		store,
		lock.NewCoordinator(store, cfg.Booking.LockTTL),
		idempotency.NewLedger(store, cfg.Booking.IdempotencyTTL, log),
		log,
		booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithCacheTTL(cfg.Booking.CacheTTL),
		booking.WithMinConnection(cfg.Routes.MinConnection),
	)

	router := api.NewRouter(api.RouterConfig{
		Flights:        flightService,
		Bookings:       bookingService,
		Log:            log,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
		HealthChecks: map[string]api.HealthCheck{
			"postgres": pool.Ping,
			"redis":    store.Ping,
			"kafka":    producer.CheckConnection,
		},
	})

	log.WithFields(logrus.Fields{
		"http": cfg.HTTP.Address,
		"grpc": cfg.GRPC.Address,
	}).Info("starting cargo service")

	return bootstrap.Run(ctx, cfg, router, log)
}

func migrate(c *cli.Context) error {
	cfg, log, err := load(c)
	if err != nil {
		return err
	}
	if err := repository.Migrate(cfg.Database.URL()); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}

func seedFlights(c *cli.Context) error {
	cfg, log, err := load(c)
	if err != nil {
		return err
	}

	start := time.Now().UTC()
	if from := c.Timestamp("from"); from != nil {
		start = *from
	}

	ctx, cancel := context.WithTimeout(c.Context, time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	n, err := repository.NewFlightRepository(pool).Upsert(ctx, seed.Schedule(start, c.Int("days")))
	if err != nil {
		return err
	}
	log.WithField("flights", n).Info("schedule seeded")
	return nil
}
