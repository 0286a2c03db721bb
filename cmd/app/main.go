package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reconciler/api"
	"reconciler/cmd"
	httpadapter "reconciler/internal/adapters/in/http"
	"reconciler/internal/adapters/in/pgnotify"
	"reconciler/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	configs, err := cmd.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, configs, logger); err != nil {
		log.Fatalf("Reconciler stopped: %v", err)
	}
}

func run(ctx context.Context, configs cmd.Config, logger *slog.Logger) error {
	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	server := httpadapter.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateLockOrderCommandHandler(),
		app.CreateSetOrderHoldCommandHandler(),
		app.CreateEnqueueTransitionCommandHandler(),
		app.CreateGetOrderStateQueryHandler(),
		logger,
	)
	router, err := httpadapter.NewRouter(server, api.Spec)
	if err != nil {
		return err
	}

	dispatcher := app.CreateTaskDispatcher()
	jobManager := app.CreateJobManager(dispatcher)
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := router.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return router.Shutdown(shutdownCtx)
	})

	if configs.NotifyChannel != "" {
		source := pgnotify.NewPQSource(configs.DSN(), time.Second, time.Minute, logger)
		listener := pgnotify.NewListener(source, configs.NotifyChannel, dispatcher, time.Minute, logger)
		g.Go(func() error {
			return listener.Run(gctx)
		})
	}

	logger.Info("Reconciler started", "http_port", configs.HTTPPort, "notify_channel", configs.NotifyChannel)
	return g.Wait()
}
