// cmd/server/main.go - CityCare Backend Server
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

	"citycare-backend/internal/config"
	"citycare-backend/internal/database"
	"citycare-backend/internal/logger"
	"citycare-backend/internal/metrics"
	"citycare-backend/internal/middleware"
	"citycare-backend/internal/router"
	"citycare-backend/internal/services"
	"citycare-backend/internal/storage"
	"citycare-backend/internal/storage/memory"
	"citycare-backend/internal/storage/mongostore"
	"citycare-backend/pkg/auth"
	"citycare-backend/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

var (
	appVersion = "1.0.0"
	buildTime  = "unknown"
	gitCommit  = "unknown"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	printStartupInfo(cfg, log)

	store, ready, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer closeStore()

	redisClient, err := database.NewRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, otp send limit disabled")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	if err := validator.Init(); err != nil {
		log.WithError(err).Fatal("failed to register validators")
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTDuration())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	var notifier services.Notifier
	if cfg.BrevoAPIKey != "" {
		notifier = services.NewEmailNotifier(cfg, log)
	} else {
		log.Warn("BREVO_API_KEY not set, emails will only be logged")
		notifier = services.NewLogNotifier(log)
	}

	resolver := services.NewIdentityResolver(store, jwtManager)
	otp := services.NewOTPIssuer(store.Codes, notifier, cfg.OTPTTL(), m, log)
	accounts := services.NewAccountService(store, notifier, m, log)

	if cfg.HeadEmail != "" && cfg.HeadPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		created, err := accounts.SeedHead(ctx, cfg.HeadName, cfg.HeadEmail, cfg.HeadPassword)
		cancel()
		if err != nil {
			log.WithError(err).Fatal("failed to seed head account")
		}
		if !created {
			log.Debug("head account already present, skipping seed")
		}
	}

	deps := router.Deps{
		Config:        cfg,
		Log:           log,
		Metrics:       m,
		Gatherer:      registry,
		Resolver:      resolver,
		Authenticator: services.NewAuthenticator(store, resolver, otp, jwtManager, m),
		OTP:           otp,
		Accounts:      accounts,
		Issues:        services.NewIssueService(store, m),
		Votes:         services.NewVoteService(store, m),
		Ready:         ready,
	}
	if redisClient != nil {
		deps.OTPLimiter = middleware.NewOTPSendLimiter(redisClient, cfg.OTPSendLimit, cfg.OTPSendWindow(), log)
	}

	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        router.Setup(deps),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Infof("CityCare backend v%s listening on http://%s", appVersion, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server exited")
}

// openStore picks the persistence backend from STORE_DRIVER.
func openStore(cfg *config.Config, log *logrus.Logger) (*storage.Store, func(context.Context) error, func(), error) {
	if cfg.StoreDriver == "memory" {
		log.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(), nil, func() {}, nil
	}

	db, err := database.NewMongoDB(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.CreateIndexes(ctx); err != nil {
		log.WithError(err).Warn("failed to create some indexes")
	}

	closeFn := func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Error("error disconnecting from MongoDB")
		}
	}
	return mongostore.NewStore(db), db.Ping, closeFn, nil
}

func printStartupInfo(cfg *config.Config, log *logrus.Logger) {
	log.WithFields(logrus.Fields{
		"version":    appVersion,
		"build_time": buildTime,
		"commit":     gitCommit,
		"env":        cfg.Env,
		"store":      cfg.StoreDriver,
		"database":   cfg.DatabaseName,
		"rate_limit": cfg.RateLimitEnabled,
	}).Info("starting CityCare backend")
}
