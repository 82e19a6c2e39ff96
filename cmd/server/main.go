// Command server wires the GuardHQ console backend: roster and schedule
// services over memory or PostgreSQL stores, the realtime command-center
// layer, and the HTTP/WebSocket surface. Business logic lives in the
// internal services packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"guardhq/internal/jwttoken"
	"guardhq/internal/platform/config"
	"guardhq/internal/platform/httpserver"
	"guardhq/internal/platform/kafka"
	"guardhq/internal/platform/logger"
	platformmetrics "guardhq/internal/platform/metrics"
	"guardhq/internal/platform/middleware"
	"guardhq/internal/platform/postgres"
	"guardhq/internal/platform/redis"
	rtbus "guardhq/internal/realtime/bus"
	rthandler "guardhq/internal/realtime/handler"
	rtmetrics "guardhq/internal/realtime/metrics"
	rtservice "guardhq/internal/realtime/service"
	"guardhq/internal/realtime/store/locationcache"
	rosterhandler "guardhq/internal/roster/handler"
	rosterports "guardhq/internal/roster/ports"
	rosterservice "guardhq/internal/roster/service"
	officerstore "guardhq/internal/roster/store/officer"
	sitestore "guardhq/internal/roster/store/site"
	schedhandler "guardhq/internal/schedule/handler"
	schedmetrics "guardhq/internal/schedule/metrics"
	schedports "guardhq/internal/schedule/ports"
	schedservice "guardhq/internal/schedule/service"
	availabilitystore "guardhq/internal/schedule/store/availability"
	shiftstore "guardhq/internal/schedule/store/shift"
	"guardhq/internal/schedule/validation"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage: PostgreSQL when DATABASE_URL is set, in-memory otherwise.
	var (
		officers     rosterports.OfficerStore
		sites        rosterports.SiteStore
		shifts       schedports.ShiftStore
		availability schedports.AvailabilityStore
	)
	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		officers = officerstore.NewPostgres(db)
		sites = sitestore.NewPostgres(db)
		shifts = shiftstore.NewPostgres(db)
		availability = availabilitystore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		officers = officerstore.NewInMemoryStore()
		sites = sitestore.NewInMemoryStore()
		shifts = shiftstore.NewInMemoryStore()
		availability = availabilitystore.NewInMemoryStore()
		log.Info("using in-memory stores")
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return err
	}
	if producer != nil {
		defer producer.Close()
	}

	httpMetrics := platformmetrics.New()
	scheduleMetrics := schedmetrics.New()
	realtimeMetrics := rtmetrics.New()

	eventBus := rtbus.New()

	realtimeOpts := []rtservice.Option{
		rtservice.WithLogger(log),
		rtservice.WithMetrics(realtimeMetrics),
		rtservice.WithLocationCache(locationcache.New(redisClient, cfg.Realtime.LocationTTL)),
	}
	if producer != nil {
		realtimeOpts = append(realtimeOpts, rtservice.WithActivityPublisher(producer))
	}
	realtimeSvc := rtservice.New(eventBus, cfg.Realtime, realtimeOpts...)
	defer realtimeSvc.Close()

	rosterSvc := rosterservice.New(officers, sites, rosterservice.WithLogger(log))
	scheduleSvc := schedservice.New(shifts, availability, officers, sites,
		schedservice.WithLogger(log),
		schedservice.WithMetrics(scheduleMetrics),
		schedservice.WithActivityRecorder(realtimeSvc),
		schedservice.WithPolicy(validation.Options{
			MinRestHours:   cfg.Schedule.MinRestHours,
			MaxWeeklyHours: cfg.Schedule.MaxWeeklyHours,
		}, cfg.Schedule.OvertimeApproachHours),
	)

	tokens := jwttoken.NewService(cfg.JWTSigningKey, "guardhq", "guardhq-console")
	validator := jwttoken.NewMiddlewareAdapter(tokens)

	hub := rthandler.NewHub(eventBus, log, realtimeMetrics)
	defer hub.Close()

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(platformmetrics.Latency(httpMetrics))

	router.Get("/healthz", healthHandler(db, redisClient))
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	rosterhandler.New(rosterSvc, log, validator).Register(router)
	schedhandler.New(scheduleSvc, log, validator).Register(router)
	rthandler.New(realtimeSvc, hub, log, validator).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting guardhq server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func healthHandler(db *sql.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if db != nil {
			if err := postgres.Health(ctx, db); err != nil {
				http.Error(w, "database unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				http.Error(w, "redis unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
