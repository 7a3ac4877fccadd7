package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/config"
	"github.com/mamadbah2/hatchery/internal/repository"
	"github.com/mamadbah2/hatchery/internal/repository/memory"
	"github.com/mamadbah2/hatchery/internal/repository/mongodb"
	"github.com/mamadbah2/hatchery/internal/repository/sheets"
	"github.com/mamadbah2/hatchery/internal/scheduler"
	"github.com/mamadbah2/hatchery/internal/server/handlers"
	"github.com/mamadbah2/hatchery/internal/server/router"
	"github.com/mamadbah2/hatchery/internal/service/notify"
	traysvc "github.com/mamadbah2/hatchery/internal/service/tray"
	"github.com/mamadbah2/hatchery/internal/status"
	"github.com/mamadbah2/hatchery/pkg/clients/telegram"
	"github.com/mamadbah2/hatchery/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var store repository.TrayStore
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		mongoRepo, err := mongodb.NewRepository(context.Background(), cfg.Store.URI, cfg.Store.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		store = mongoRepo
	case config.StoreDriverMemory:
		baseLogger.Warn("using in-memory tray store, records will not survive a restart")
		store = memory.NewRepository()
	}

	if !cfg.NotificationsEnabled() {
		baseLogger.Warn("telegram credentials missing, notifications disabled")
	}
	telegramClient := telegram.NewClient(cfg.Telegram)
	dispatcher := notify.NewDispatcher(telegramClient, baseLogger.Named("svc.notify"))

	var hatchLog sheets.HatchLog
	if cfg.HatchLogEnabled() {
		hatchLog, err = sheets.NewGoogleSheetHatchLog(context.Background(),
			cfg.HatchLog.CredentialsPath, cfg.HatchLog.SpreadsheetID, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init hatch log archive", zap.Error(err))
		}
	}

	traySvc := traysvc.NewService(store, dispatcher, hatchLog,
		status.DeletePolicy(cfg.DeletePolicy), baseLogger.Named("svc.tray"))

	trayHandler := handlers.NewTrayHandler(traySvc, baseLogger.Named("handlers.tray"))
	engine := router.New(trayHandler, baseLogger.Named("router"))

	sweep := scheduler.NewSweep(cfg.Sweep.CronSchedule, traySvc, dispatcher, baseLogger.Named("scheduler"))
	sweep.Start()
	defer sweep.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
