package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/deeptimaan-k/radiantgo-sub000/config"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/archive"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/kafka"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/notify"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/observe"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/repository"
	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "cargo-worker",
		Usage: "deliver booking notifications and archive finished bookings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				EnvVars: []string{"CONFIG_PATH"},
			},
			&cli.BoolFlag{
				Name:  "no-archive",
				Usage: "only consume notifications",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("worker exited")
	}
}

func run(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	log := observe.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !c.Bool("no-archive") && cfg.Archive.Bucket != "" {
		scheduler, err := startArchiver(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				log.WithError(err).Warn("scheduler shutdown")
			}
		}()
	} else {
		log.Info("archiving disabled")
	}

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
	defer consumer.Close()

	sender := notify.NewSender(log)
	log.WithField("topic", cfg.Kafka.NotificationsTopic).Info("consuming notifications")

	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		event, err := notify.Decode(msg.Value)
		if errors.Is(err, notify.ErrInvalidPayload) {
			log.WithError(err).WithField("offset", msg.Offset).Warn("skipping notification")
			return nil
		}
		if err != nil {
			return err
		}
		return sender.Send(ctx, event)
	})
	if err != nil {
		return fmt.Errorf("consumer stopped: %w", err)
	}
	log.Info("worker stopped")
	return nil
}

func startArchiver(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (gocron.Scheduler, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	context.AfterFunc(ctx, pool.Close)

	archiver, err := archive.NewS3Archiver(ctx, cfg.Archive)
	if err != nil {
		return nil, err
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	job := archive.NewJob(repository.NewBookingRepository(pool), archiver, cfg.Worker.ArchiveBatchSize, log)
	if _, err := job.Schedule(ctx, scheduler, cfg.Worker.ArchiveInterval); err != nil {
		return nil, err
	}
	scheduler.Start()

	log.WithFields(logrus.Fields{
		"bucket":   cfg.Archive.Bucket,
		"interval": cfg.Worker.ArchiveInterval,
	}).Info("archive job scheduled")
	return scheduler, nil
}
