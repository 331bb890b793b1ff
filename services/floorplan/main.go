package main

import (
	"context"
	"embed"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/middleware"
	"github.com/appetiteclub/floorplan/pkg"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/appetiteclub/floorplan/services/floorplan/internal/booking"
	"github.com/appetiteclub/floorplan/services/floorplan/internal/floorplan"
	"github.com/appetiteclub/floorplan/services/floorplan/internal/member"
	"github.com/appetiteclub/floorplan/services/floorplan/internal/mongo"
)

//go:embed seed.json
var seedFS embed.FS

const (
	appNamespace = "FLOORPLAN"
	appName      = "floorplan"
	appVersion   = "0.1.0"

	streamConsumer = "floorplan-service"
)

func main() {
	_ = godotenv.Load()

	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup with error: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	seedCtx, cancelSeeds := context.WithCancel(ctx)
	defer cancelSeeds()

	lifecycle := []interface{}{}

	planRepo := mongo.NewPlanRepo(config, logger)
	if err := planRepo.Start(ctx); err != nil {
		log.Fatalf("%s(%s) cannot start plan repository: %v", appName, appVersion, err)
	}

	if planRepo.GetDatabase() == nil {
		err := errors.New("cannot get plan repo database")
		log.Fatalf("%s(%s) cannot initialize database: %v", appName, appVersion, err)
	}

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	var publisher events.Publisher

	streamEnabled, _ := config.GetString("nats.stream.enabled")
	if streamEnabled == "true" {
		stream, err := pkg.NewNATSStream(ctx, pkg.DefaultStreamConfig(natsURL, ""))
		if err != nil {
			log.Fatalf("%s(%s) cannot set up NATS stream: %v", appName, appVersion, err)
		}
		logger.Info("NATS stream initialized for persistent events", "stream", pkg.FloorplanStreamName)
		publisher = stream

		lifecycle = append(lifecycle, apt.LifecycleHooks{
			OnStop: func(context.Context) error { return stream.Close() },
		})
	} else {
		natsPublisher, err := pkg.NewNATSPublisher(natsURL)
		if err != nil {
			log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
		}
		publisher = natsPublisher

		lifecycle = append(lifecycle, apt.LifecycleHooks{
			OnStop: func(context.Context) error { return natsPublisher.Close() },
		})
	}

	var submitter booking.Submitter
	memberClient, err := member.NewClientFromConfig(config)
	if err != nil {
		logger.Info("member service not configured, bookings will not be forwarded", "error", err)
	} else {
		submitter = floorplan.NewMemberSubmitter(memberClient)
	}

	registry := floorplan.NewRegistry(planRepo, submitter, apt.GenerateNewID().String(), logger)

	subscriber, err := pkg.NewNATSSubscriber(natsURL, logger)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
	}

	subscriberLifecycle := apt.LifecycleHooks{
		OnStart: func(ctx context.Context) error {
			return subscriber.Subscribe(ctx, pkg.FloorplanSavedTopic, registry.HandlePlanSaved)
		},
		OnStop: func(context.Context) error {
			return subscriber.Close()
		},
	}
	lifecycle = append(lifecycle, subscriberLifecycle)

	hd := floorplan.HandlerDeps{
		Repo:      planRepo,
		Registry:  registry,
		Publisher: publisher,
	}

	handler := floorplan.NewHandler(
		hd,
		config,
		logger,
	)

	seedingEnabled := config.GetStringOrDef("seeding.enabled", "true")
	if seedingEnabled == "true" {
		var defaultID uuid.UUID
		if raw, _ := config.GetString("plan.default.id"); raw != "" {
			defaultID, _ = uuid.Parse(raw)
		}

		seedHooks := apt.LifecycleHooks{
			OnStart: floorplan.SeedingFunc(seedCtx, planRepo, seedFS, defaultID, logger),
			OnStop:  floorplan.StopFunc(cancelSeeds),
		}
		lifecycle = append(lifecycle, seedHooks)
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true,
	})
	stack = append(stack, middleware.InternalOnly())

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithLifecycle(lifecycle...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		_ = planRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	_ = planRepo.Stop(context.Background())
	logger.Infof("%s(%s) stopped", appName, appVersion)
}
