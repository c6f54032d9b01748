package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"veridesk/internal/applicant"
	"veridesk/internal/audit"
	"veridesk/internal/backend"
	"veridesk/internal/dashboard"
	"veridesk/internal/flow"
	httpapi "veridesk/internal/http"
	intakemetrics "veridesk/internal/intake/metrics"
	planhandler "veridesk/internal/plan/handler"
	"veridesk/internal/platform/config"
	"veridesk/internal/platform/httpserver"
	"veridesk/internal/platform/logger"
	"veridesk/internal/platform/metrics"
	"veridesk/internal/platform/redis"
	"veridesk/internal/session"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpMetrics := metrics.New()
	derivationMetrics := intakemetrics.New()

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	var sessionStore session.Store
	if redisClient != nil {
		sessionStore = session.NewRedis(redisClient.Client)
		log.Info("sessions backed by redis")
	} else {
		sessionStore = session.NewInMemoryStore()
		log.Warn("sessions in process memory; set VERIDESK_REDIS_URL for multi-instance deployments")
	}

	platform := backend.NewHTTPClient(cfg.Backend.BaseURL, log)

	// Audit pipeline: handlers publish fire-and-forget; the worker drains to
	// the retained store and, when configured, to Kafka.
	auditStore := audit.NewInMemoryStore(cfg.Audit.Retained)
	publisher := audit.NewChannelPublisher(cfg.Audit.BufferSize, log)

	var sink audit.Sink
	var kafkaSink *audit.KafkaSink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err = audit.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("kafka audit sink init failed", "error", err)
			os.Exit(1)
		}
		sink = kafkaSink
		log.Info("audit events forwarded to kafka", "topic", cfg.Kafka.Topic)
	}

	worker := audit.NewWorker(auditStore, sink, publisher.Inbox(), log)
	go worker.Run(ctx)

	tokens := session.NewTokenService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	sessions := session.NewService(platform, sessionStore, tokens, log, publisher,
		session.WithTTL(cfg.Auth.SessionTTL),
		session.WithMetrics(httpMetrics))

	applicants := applicant.NewService(platform, log, publisher, derivationMetrics, cfg.Backend.SDKBaseURL)
	flows := flow.NewService(platform, log, publisher, derivationMetrics)
	overview := dashboard.NewService(platform, log)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:           log,
		Metrics:          httpMetrics,
		Sessions:         sessions,
		SessionHandler:   session.NewHandler(sessions, log),
		ApplicantHandler: applicant.NewHandler(applicants, log),
		FlowHandler:      flow.NewHandler(flows, log),
		PlanHandler:      planhandler.New(sessions, log, publisher),
		Dashboard:        dashboard.NewHandler(overview, log),
		AuditHandler:     audit.NewHandler(auditStore, log),
		Health: func(r *http.Request) error {
			if redisClient != nil {
				return redisClient.Health(r.Context())
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting veridesk console gateway", "addr", cfg.Server.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	// Stop the audit worker after the server drains so in-flight requests can
	// still publish.
	cancel()
	if kafkaSink != nil {
		kafkaSink.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}
}
