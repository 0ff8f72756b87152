package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/udharokhata/credit-ledger/internal/backup"
	"github.com/udharokhata/credit-ledger/internal/config"
	"github.com/udharokhata/credit-ledger/internal/handlers"
	"github.com/udharokhata/credit-ledger/internal/repository"
	"github.com/udharokhata/credit-ledger/internal/schema"
	"github.com/udharokhata/credit-ledger/internal/services"
	xhttp "github.com/udharokhata/credit-ledger/pkg/http"
	"github.com/udharokhata/credit-ledger/pkg/logger"
	"github.com/udharokhata/credit-ledger/pkg/prom"
	"github.com/udharokhata/credit-ledger/pkg/sqlite"
)

func main() {
	if err := config.Load(argContainsEnvPath()); err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()
	ctx := context.Background()

	db, err := sqlite.Open(sqlite.Config{
		Path:          cfg.SqlitePath,
		BusyTimeoutMS: cfg.SqliteBusyTimeout,
	}, cfg.IsDev() && cfg.AppDebug)
	if err != nil {
		logger.Error("failed opening sqlite store", "error", err)
		return
	}
	defer db.Close()

	// A half-migrated store must never serve traffic.
	schemaManager := schema.NewManager(db)
	if err := schemaManager.Migrate(ctx); err != nil {
		logger.Fatal(err, "stage", "schema migration")
	}
	if cfg.IsDev() {
		if err := schemaManager.SeedDemoData(ctx); err != nil {
			logger.Error("demo seed failed", "error", err)
		}
	}

	hostname, _ := os.Hostname()
	if err := prom.Create(cfg.PromNamespace, cfg.AppEnv, hostname); err != nil {
		logger.Error("metric registration failed", "error", err)
	}

	customerRepo := repository.NewCustomerRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	ledgerService := services.NewLedgerService(customerRepo, creditRepo, paymentRepo)
	reportService := services.NewReportService(creditRepo, paymentRepo, customerRepo)
	healthService := services.NewHealthService(db)
	backupEngine := backup.NewEngine(db, schemaManager)

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)

	g := s.Router.Group("/api/v1")
	handlers.RegisterCustomerRoutes(g, handlers.NewCustomerHandler(ledgerService))
	handlers.RegisterTransactionRoutes(g, handlers.NewTransactionHandler(ledgerService))
	handlers.RegisterReportRoutes(g, handlers.NewReportHandler(reportService))
	handlers.RegisterBackupRoutes(g, handlers.NewBackupHandler(backupEngine))
	handlers.RegisterHealthRoutes(g, handlers.NewHealthHandler(healthService))
	s.Router.GET("/metrics", prom.Handler())

	s.CloseOnSignal()
	if err := s.ListenAndServe(cfg.HttpListenAddr); err != nil {
		logger.Error("error in running http-server", "error", err)
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
