package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"medilabel/internal/audit"
	auditlocal "medilabel/internal/audit/local"
	"medilabel/internal/audit/registry"
	auditremote "medilabel/internal/audit/remote"
	"medilabel/internal/basket"
	"medilabel/internal/catalog"
	"medilabel/internal/database"
	"medilabel/internal/migrations"
	"medilabel/internal/operator"
	"medilabel/internal/patient"
	"medilabel/internal/platform/config"
	"medilabel/internal/platform/httpserver"
	"medilabel/internal/platform/logger"
	"medilabel/internal/platform/metrics"
	"medilabel/internal/printing"
	"medilabel/internal/seed"
	"medilabel/internal/session"
	httptransport "medilabel/internal/transport/http"
)

// main wires the dependencies and owns the process lifecycle. Business
// logic lives in the internal services.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Error("database connect failed", "dsn", cfg.DatabaseDSN, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	if cfg.CatalogSeedPath != "" {
		seed.LoadCatalog(db, cfg.CatalogSeedPath, log)
	}
	if err := seed.EnsureDefaultOperator(db, log); err != nil {
		log.Error("operator seed failed", "error", err)
		os.Exit(1)
	}

	localLog, err := auditlocal.Open(cfg.AuditLogDir)
	if err != nil {
		log.Error("audit log open failed", "dir", cfg.AuditLogDir, "error", err)
		os.Exit(1)
	}
	defer localLog.Close()

	m := metrics.New()
	sess := session.New()

	var remoteSink audit.RemoteSink
	if cfg.RemoteAuditURL != "" {
		remoteSink = auditremote.NewClient(cfg.RemoteAuditURL)
		log.Info("remote audit registry configured", "url", cfg.RemoteAuditURL)
	}
	auditSvc := audit.NewService(remoteSink, localLog,
		audit.WithLogger(log),
		audit.WithObserver(m),
		audit.WithProbeTimeout(cfg.ProbeTimeout))

	catalogStore := catalog.NewSQLiteStore(db)
	patientDir := patient.NewSQLiteDirectory(db)
	operatorSvc := operator.NewService(operator.NewSQLiteStore(db), operator.WithLogger(log))

	basketStore := basket.NewSQLiteStore(db)
	basketSvc := basket.NewService(basketStore, catalogStore, sess,
		basket.WithLogger(log),
		basket.WithLineGauge(m))

	surface, err := printing.NewHTMLSurface(cfg.SpoolDir)
	if err != nil {
		log.Error("label spool setup failed", "dir", cfg.SpoolDir, "error", err)
		os.Exit(1)
	}
	printSvc := printing.NewService(basketSvc, sess, auditSvc, surface, cfg.PrintedBy,
		printing.WithLogger(log),
		printing.WithObserver(m))

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:   log,
		Session:  sess,
		Catalog:  httptransport.NewCatalogHandler(catalogStore, log),
		Patients: httptransport.NewPatientHandler(patientDir, sess, log, m),
		Auth:     httptransport.NewAuthHandler(operatorSvc, sess, basketSvc, log, m),
		Basket:   httptransport.NewBasketHandler(basketSvc, log),
		Print:    httptransport.NewPrintHandler(printSvc, log),
		Audit:    httptransport.NewAuditHandler(auditSvc, registry.NewSQLiteStore(db), log),
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("medilabel listening", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
