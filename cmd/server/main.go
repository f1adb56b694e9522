package main

import (
	"context"   // Shutdown deadlines
	"errors"    // Server close detection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Graceful shutdown
	"syscall"   // Signal numbers
	"time"      // Timeouts

	"dorm_booking/internal/api"       // HTTP handlers
	"dorm_booking/internal/config"    // Configuration
	"dorm_booking/internal/db"        // Database connection
	"dorm_booking/internal/flash"     // Flash message store
	"dorm_booking/internal/ledger"    // Room inventory
	"dorm_booking/internal/notify"    // Status emails
	"dorm_booking/internal/receipts"  // Receipt storage
	"dorm_booking/internal/telemetry" // Tracing
	"dorm_booking/internal/workflow"  // Application lifecycle

	"github.com/gin-gonic/gin"                                      // Gin web framework
	"github.com/redis/go-redis/v9"                                  // Redis client
	"github.com/sirupsen/logrus"                                    // Logrus for structured logging
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp" // Request tracing
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	cfg.SetupLogging()

	shutdownTelemetry := telemetry.Setup(cfg.ServiceName, cfg.OTLPEndpoint, cfg.OTLPInsecure)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	store, err := receipts.NewDiskStore(cfg.UploadDir)
	if err != nil {
		logrus.Fatalf("failed to prepare upload dir: %v", err)
	}
	transport, err := notify.NewTransport(cfg.Mail)
	if err != nil {
		logrus.Fatalf("failed to set up mail transport: %v", err)
	}
	templates := notify.NewTemplateStore(gdb)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(&api.Deps{
		DB:            gdb,
		Redis:         redisClient,
		Flash:         flash.NewStore(redisClient, 10*time.Minute),
		Workflow:      workflow.NewService(gdb, store, notify.NewDispatcher(templates, transport)),
		Ledger:        ledger.New(gdb),
		Templates:     templates,
		JWTSecret:     cfg.JWTSecret,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.IsProd,
		TrustedProxy:  []string{"127.0.0.1"},
	})

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      otelhttp.NewHandler(router, cfg.ServiceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           api.NewMetricsRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logrus.WithField("addr", server.Addr).Info("Server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()
	go func() {
		logrus.WithField("addr", metricsServer.Addr).Info("Metrics listener running")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("metrics server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("shutdown error")
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("metrics shutdown error")
	}
	logrus.Info("Server stopped")
}
