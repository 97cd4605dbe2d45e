package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/raisin-tracker/config"
	"github.com/yeremiapane/raisin-tracker/database"
	"github.com/yeremiapane/raisin-tracker/live"
	"github.com/yeremiapane/raisin-tracker/router"
	"github.com/yeremiapane/raisin-tracker/services"
	"github.com/yeremiapane/raisin-tracker/utils"
)

func main() {
	if err := run(); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := utils.SetLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	gin.SetMode(cfg.GinMode)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			utils.ErrorLogger.WithError(err).Error("close database")
		}
	}()

	if err := database.Migrate(db); err != nil {
		return err
	}

	hub := live.NewHub()
	defer hub.Close()

	cal := services.NewCalendar(loc)
	broadcaster := services.NewStatsBroadcaster(services.NewReportService(db, cal), hub, cfg.StatsInterval)
	broadcaster.Start()
	defer broadcaster.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(db, cfg, hub, cal),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	utils.InfoLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
