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

	"github.com/CzarAl/domus-backend/internal/config"
	"github.com/CzarAl/domus-backend/internal/infra"
	"github.com/CzarAl/domus-backend/internal/repository"
	"github.com/CzarAl/domus-backend/internal/router"
	"github.com/CzarAl/domus-backend/internal/telemetry"
	"github.com/CzarAl/domus-backend/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing := telemetry.Setup(ctx, cfg, "domus-backend")

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBAutoMigrate)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	rt := router.New(cfg, db, rdb)

	// Receipt mailing runs on the Redis-backed pool; the SMTP relay sits
	// behind a circuit breaker shared by all workers.
	mailer := infra.NewMailer(cfg)
	if !mailer.Configurado() {
		log.Warn().Msg("SMTP_HOST not set; receipt emails will fail and land in the dead list")
	}
	recibos := worker.NewReciboWorker(
		repository.NewVentaRepository(db),
		mailer,
		infra.NewCircuitBreaker(infra.DefaultCBConfig()),
		cfg.ReceiptStoragePath,
	)
	pool := worker.NewPool(rdb)
	pool.Handle(worker.QueueRecibos, worker.JobRecibo, recibos.Process)
	pool.Start(ctx, cfg.WorkerPoolSize)

	worker.StartBillingSweep(ctx, rt.Empresas, cfg.BillingSweepInterval())
	rt.StartPurge(ctx, 5*time.Minute)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      otelhttp.NewHandler(rt.Engine, "domus-http"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Domus backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("otel shutdown")
	}
	_ = rdb.Close()
	log.Info().Msg("server exited")
}
