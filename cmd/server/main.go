package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"centralvendas/internal/auth"
	"centralvendas/internal/config"
	"centralvendas/internal/infrastructure/logger"
	"centralvendas/internal/infrastructure/metrics"
	"centralvendas/internal/infrastructure/mysql"
	"centralvendas/internal/integration"
	"centralvendas/internal/inventory"
	"centralvendas/internal/order"
	"centralvendas/internal/plan"
	"centralvendas/internal/product"
	"centralvendas/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Server.ServiceName)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := mysql.Migrate(ctx, db); err != nil {
			zapLogger.Fatal("migrating schema", zap.Error(err))
		}
		zapLogger.Info("schema migrated")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(registry, cfg.Server.ServiceName)

	tx := mysql.NewTxManager(db, cfg.Order.TxTimeout, zapLogger)

	planModule := plan.NewModule(db, zapLogger)
	orderModule := order.NewModule(db, tx, planModule.Quotas, recorder, zapLogger)
	webhook := integration.NewModule(db, cfg.Shopee, orderModule.Customers, orderModule.UseCase, zapLogger)

	router := server.NewRouter(server.Handlers{
		Products:  product.NewModule(db, tx, planModule.Quotas, recorder, zapLogger),
		Orders:    orderModule.Controller,
		Inventory: inventory.NewModule(db, tx, recorder, zapLogger),
		PlanUsage: planModule.Controller.Usage,
		Shopee:    webhook.Shopee,
	}, server.Dependencies{
		Verifier: auth.NewTokenService(cfg.Auth.JWTSecret),
		Recorder: recorder,
		Gatherer: registry,
		Logger:   zapLogger,
	})

	if cfg.Shopee.PartnerKey == "" {
		zapLogger.Warn("SHOPEE_PARTNER_KEY is empty, every webhook push will be rejected")
	}

	srv := server.New(cfg.Server.Port, router, zapLogger)
	if err := srv.Run(ctx); err != nil {
		zapLogger.Fatal("server error", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
