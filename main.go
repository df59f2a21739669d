package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frontoffice/config"
	"frontoffice/jobs"
	"frontoffice/routes"
	"frontoffice/services"
	"frontoffice/services/logger"
	"frontoffice/services/notification"
	"frontoffice/utils"
)

func main() {
	settings := config.Load()
	if settings.LogDir != "" {
		logFile, err := utils.TeeStdLog(settings.LogDir)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
	}
	appLogger := logger.NewDefaultLogger(logger.ParseLevel(settings.LogLevel))

	app, err := config.InitApp(settings)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	sinks := services.MultiSink{
		services.NewGormAuditSink(app.DB),
		notification.NewRoomBoard(app.Melody),
	}
	if app.Redis != nil {
		sinks = append(sinks, services.NewRedisStreamSink(app.Redis, settings.AuditStream))
	}
	auditor := services.NewAuditor(sinks, appLogger)
	tx := services.NewTransactor(app.DB, settings.TxTimeout)

	folio := services.NewFolioService(services.FolioServiceOptions{
		Tx:                   tx,
		Auditor:              auditor,
		Logger:               appLogger,
		OverpaymentTolerance: settings.OverpaymentTolerance,
	})
	tax := services.NewTaxService(services.TaxServiceOptions{
		Tx:       tx,
		Redis:    app.Redis,
		CacheTTL: settings.TaxCacheTTL,
		Auditor:  auditor,
		Logger:   appLogger,
	})
	revenue := services.NewRevenueService(services.RevenueServiceOptions{Tx: tx, Tax: tax, Logger: appLogger})
	svc := routes.Services{
		Rooms:    services.NewRoomService(services.RoomServiceOptions{Tx: tx, Auditor: auditor, Logger: appLogger}),
		Folio:    folio,
		Bookings: services.NewBookingService(services.BookingServiceOptions{Tx: tx, Folio: folio, Auditor: auditor, Logger: appLogger}),
		Revenue:  revenue,
		Tax:      tax,
	}

	if _, err := jobs.InitCronJobs(app.Cron, settings.RevenueSnapshotCron, revenue, appLogger); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	config.InitWebSocket(app.Router, app.Melody, settings.JWTSecret)
	routes.SetupRoutes(app.Router, svc, settings.JWTSecret)

	srv := &http.Server{
		Addr:    ":" + settings.Port,
		Handler: app.Router,
	}
	go func() {
		log.Println("Server starting on port " + settings.Port + "...")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	<-app.Cron.Stop().Done()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	_ = app.Melody.Close()
	if app.Redis != nil {
		_ = app.Redis.Close()
	}
	log.Println("Server exited")
}
