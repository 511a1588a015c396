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

	"golang.org/x/sync/errgroup"

	"restodash/internal/calendar"
	"restodash/internal/config"
	httpapi "restodash/internal/http"
	"restodash/internal/repository"
	"restodash/internal/service"

	_ "restodash/docs"
)

// @title Restodash API
// @version 1.0
// @description Restaurant dashboard backend: menu and order CRUD plus reservations mirrored to Google Calendar.
// @BasePath /api
func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", "restodash")

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config failed", "error", err)
		os.Exit(1)
	}
	if missing := cfg.Missing(); len(missing) > 0 {
		log.Warn("missing environment variables", "vars", missing)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.DSN())
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("database connected")

	enc, err := calendar.NewEncoder(cfg.Calendar.Timezone, cfg.Calendar.EventDuration)
	if err != nil {
		log.Error("calendar encoder init failed", "error", err)
		os.Exit(1)
	}

	var mirror service.CalendarMirror
	if cfg.CalendarConfigured() {
		client, err := calendar.NewClient(ctx, cfg.Calendar)
		if err != nil {
			log.Error("calendar init failed, mirroring disabled", "error", err)
		} else {
			mirror = client
			log.Info("calendar mirroring enabled", "calendar_id", cfg.Calendar.CalendarID)
		}
	} else {
		log.Warn("calendar credentials not configured, mirroring disabled")
	}

	menuRepo := repository.NewPostgresMenu(db)
	orderRepo := repository.NewPostgresOrders(db)
	resRepo := repository.NewPostgresReservations(db)
	outboxRepo := repository.NewPostgresOutbox(db)

	menuSvc := service.NewMenuService(menuRepo)
	orderSvc := service.NewOrderService(orderRepo)
	resSvc := service.NewReservationService(resRepo, outboxRepo, mirror, enc, log)

	srv := httpapi.NewServer(menuSvc, orderSvc, resSvc, httpapi.Options{
		Config: cfg,
		DB:     db,
		CalendarInit: func(ctx context.Context) error {
			_, err := calendar.NewClient(ctx, cfg.Calendar)
			return err
		},
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Engine(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if mirror != nil {
		outboxSvc := service.NewOutboxService(outboxRepo, resRepo, mirror, enc, log)
		g.Go(func() error {
			return outboxSvc.Run(gctx, cfg.OutboxInterval)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
