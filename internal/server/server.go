// Package server boots the application: configuration, database, cache,
// storage, the audit log sink, background jobs and the HTTP surface.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpradhan/stockroom/app/controllers"
	appgraphql "github.com/rpradhan/stockroom/app/graphql"
	"github.com/rpradhan/stockroom/app/listeners"
	"github.com/rpradhan/stockroom/app/repositories"
	"github.com/rpradhan/stockroom/app/routes"
	"github.com/rpradhan/stockroom/app/services"
	"github.com/rpradhan/stockroom/config"
	"github.com/rpradhan/stockroom/pkg/cache"
	"github.com/rpradhan/stockroom/pkg/database"
	"github.com/rpradhan/stockroom/pkg/logger"
	"github.com/rpradhan/stockroom/pkg/router"
	"github.com/rpradhan/stockroom/pkg/schedule"
	"github.com/rpradhan/stockroom/pkg/storage"
	"github.com/rpradhan/stockroom/pkg/ws"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

// NewRouter wires repositories, services and controllers over the given
// database handle and returns the mounted route table plus the dashboard
// service (the caller schedules its low-stock sweep).
func NewRouter(db *gorm.DB) (*router.Router, *services.DashboardService, error) {
	userRepo := repositories.NewUserRepository(db)
	stockRepo := repositories.NewStockRepository(db)
	historyRepo := repositories.NewHistoryRepository(db)
	supplierRepo := repositories.NewSupplierRepository(db)

	ledger := services.NewLedgerService(db, stockRepo, historyRepo)
	authSvc := services.NewAuthService(userRepo)
	userSvc := services.NewUserService(userRepo)
	stockSvc := services.NewStockService(stockRepo, ledger)
	supplierSvc := services.NewSupplierService(supplierRepo)
	reportSvc := services.NewReportService(historyRepo)
	dashboardSvc := services.NewDashboardService(stockRepo, historyRepo, supplierRepo)

	hub := ws.NewHub()
	go hub.Run()
	listeners.Register(hub)

	schema, err := appgraphql.NewSchema(stockSvc, supplierSvc, reportSvc)
	if err != nil {
		return nil, nil, err
	}

	r := router.New()
	routes.RegisterAPI(r, routes.Deps{
		Auth:      controllers.NewAuthController(authSvc),
		Users:     controllers.NewUserController(userSvc),
		Stocks:    controllers.NewStockController(stockSvc),
		Suppliers: controllers.NewSupplierController(supplierSvc),
		Reports:   controllers.NewReportController(ledger, reportSvc),
		Dashboard: controllers.NewDashboardController(dashboardSvc),
		GraphQL:   appgraphql.Handler(schema),
		FeedHub:   hub,
		DB:        db,
	})

	return r, dashboardSvc, nil
}

// Start boots everything and serves HTTP until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck

	// Redis is optional: the cache package no-ops when unavailable.
	if err := cache.Connect(); err != nil {
		logger.Warn("server: cache unavailable, running without it", "error", err)
	}

	storage.Connect()

	// Mirror logs into MongoDB when an audit sink is configured.
	if uri := config.AuditMongoURI(); uri != "" {
		sink, err := logger.NewMongoHandler(uri, config.AuditMongoDB(), "logs")
		if err != nil {
			logger.Warn("server: audit sink unavailable", "error", err)
		} else {
			defer sink.Close()
			logger.L = slog.New(logger.NewMultiHandler(logger.L.Handler(), sink))
			slog.SetDefault(logger.L)
		}
	}

	r, dashboard, err := NewRouter(db)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if interval := config.LowStockSweepInterval(); interval > 0 {
		sweep := int(interval.Seconds())
		schedule.Every(sweep).Seconds().Name("low-stock-sweep").WithoutOverlapping().Run(dashboard.SweepLowStock)
	}
	schedule.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
