// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"estimate-workers/internal/common/auth"
	"estimate-workers/internal/common/aws"
	"estimate-workers/internal/common/camunda"
	"estimate-workers/internal/common/chips"
	"estimate-workers/internal/common/config"
	"estimate-workers/internal/common/costingstore"
	"estimate-workers/internal/common/database"
	"estimate-workers/internal/common/logger"
	"estimate-workers/internal/common/observability"
	"estimate-workers/internal/common/ratecatalog"
	"estimate-workers/pkg/registry"

	cpc "estimate-workers/internal/workers/costing/calculate-project-costing"
	irc "estimate-workers/internal/workers/costing/invalidate-rate-cache"
	cee "estimate-workers/internal/workers/estimate/calculate-effort-estimate"
	dep "estimate-workers/internal/workers/estimate/derive-estimate-profile"
	gt "estimate-workers/internal/workers/estimate/generate-timeline"
)

// jobHandler is implemented by every worker handler.
type jobHandler interface {
	GetTaskType() string
	IsEnabled() bool
	Handle(client worker.JobClient, job entities.Job)
}

type registration struct {
	name    string
	handler jobHandler
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: cfg.Camunda.UsePlaintext,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Redis ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		if err := redis.Ping(ctx); err != nil {
			redis.Close()
			return err
		}
		return nil
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Domain services ---
	keycloak := auth.NewKeycloakClient(
		cfg.Auth.Keycloak.URL,
		cfg.Auth.Keycloak.Realm,
		cfg.Auth.Keycloak.ClientID,
		cfg.Auth.Keycloak.ClientSecret,
		config.GetDuration(cfg.Auth.Keycloak.Timeout),
	)

	var publisher aws.SchedulePublisher = aws.NoopPublisher{}
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region, cfg.Integrations.AWS.SNS.ScheduleRegenTopicARN)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		publisher = snsClient
	}

	catalog := ratecatalog.New(pg.DB, redis.Client, ratecatalog.Config{
		KeyPrefix: cfg.RateCatalog.KeyPrefix,
		TTL:       config.GetDuration(cfg.RateCatalog.CacheTTL),
	}, log)
	store := costingstore.New(pg.DB)
	chipSource := chips.NewElasticsearchSource(esClient.Client, cfg.Database.Elasticsearch.ChipIndex)

	zapLog.Info("All domain services initialized")

	// --- Workers ---
	registrations := buildHandlers(cfg, log, obs, chipSource, publisher, keycloak, store, catalog, zapLog)

	var running []*camunda.CamundaWorker
	for _, r := range registrations {
		if !r.handler.IsEnabled() || !config.IsWorkerEnabled(cfg, r.name) {
			zapLog.Info("worker disabled", zap.String("taskType", r.handler.GetTaskType()))
			continue
		}
		running = append(running, camunda.StartWorker(
			zeebe.GetClient(),
			r.handler.GetTaskType(),
			config.GetWorkerConfig(cfg, r.name),
			r.handler.Handle,
			zapLog,
		))
	}
	zapLog.Info("Workers registered", zap.Int("running", len(running)), zap.Int("total", len(registrations)))

	// --- Health & Metrics Server ---
	activities := registry.Builtin()
	server := &http.Server{Addr: cfg.Server.Address}
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		status := http.StatusOK
		for name, check := range map[string]func(context.Context) error{
			"postgres": pg.Ping,
			"redis":    redis.Ping,
			"zeebe":    zeebe.HealthCheck,
		} {
			if err := check(checkCtx); err != nil {
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}
		checks["time"] = time.Now().Format(time.RFC3339)
		writeJSON(w, status, checks)
	})
	http.HandleFunc("/activities", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, activities)
	})
	http.Handle("/metrics", promhttp.Handler())

	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range running {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down observability", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func buildHandlers(
	cfg *config.Config,
	log logger.Logger,
	obs *observability.Observability,
	chipSource chips.Source,
	publisher aws.SchedulePublisher,
	identity auth.IdentityResolver,
	store *costingstore.Store,
	catalog *ratecatalog.Catalog,
	zapLog *zap.Logger,
) []registration {
	var out []registration
	add := func(name string, h jobHandler, err error) {
		if err != nil {
			zapLog.Fatal("failed to create handler", zap.String("worker", name), zap.Error(err))
		}
		out = append(out, registration{name: name, handler: h})
	}

	profileHandler, err := dep.NewHandler(dep.HandlerOptions{AppConfig: cfg, Logger: log, Observer: obs, Chips: chipSource})
	add(dep.WorkerName, profileHandler, err)

	effortHandler, err := cee.NewHandler(cee.HandlerOptions{AppConfig: cfg, Logger: log, Observer: obs})
	add(cee.WorkerName, effortHandler, err)

	timelineHandler, err := gt.NewHandler(gt.HandlerOptions{AppConfig: cfg, Logger: log, Observer: obs, Publisher: publisher})
	add(gt.WorkerName, timelineHandler, err)

	costingHandler, err := cpc.NewHandler(cpc.HandlerOptions{
		AppConfig: cfg,
		Logger:    log,
		Observer:  obs,
		Identity:  identity,
		Projects:  store,
		Rates:     catalog,
	})
	add(cpc.WorkerName, costingHandler, err)

	cacheHandler, err := irc.NewHandler(irc.HandlerOptions{AppConfig: cfg, Logger: log, Observer: obs, Catalog: catalog})
	add(irc.WorkerName, cacheHandler, err)

	return out
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
