// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shub15/the-unfair-advantage/internal/common/aws"
	"github.com/shub15/the-unfair-advantage/internal/common/camunda"
	"github.com/shub15/the-unfair-advantage/internal/common/config"
	"github.com/shub15/the-unfair-advantage/internal/common/database"
	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/genai"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/common/observability"
	"github.com/shub15/the-unfair-advantage/internal/common/websearch"
	"github.com/shub15/the-unfair-advantage/pkg/registry"

	// Evaluation Workers (6)
	cs "github.com/shub15/the-unfair-advantage/internal/workers/evaluation/calculate-score"
	em "github.com/shub15/the-unfair-advantage/internal/workers/evaluation/enrich-market"
	ef "github.com/shub15/the-unfair-advantage/internal/workers/evaluation/extract-fields"
	gf "github.com/shub15/the-unfair-advantage/internal/workers/evaluation/generate-feedback"
	gv "github.com/shub15/the-unfair-advantage/internal/workers/evaluation/generate-views"
	sp "github.com/shub15/the-unfair-advantage/internal/workers/evaluation/synthesize-profile"

	// Delivery Workers (3)
	ie "github.com/shub15/the-unfair-advantage/internal/workers/delivery/index-evaluation"
	ne "github.com/shub15/the-unfair-advantage/internal/workers/delivery/notify-entrepreneur"
	se "github.com/shub15/the-unfair-advantage/internal/workers/delivery/store-evaluation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

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
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewFromConfig(cfg.Logging)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("version", cfg.App.Version))

	obs := observability.New(cfg.Observability.ServiceName, cfg.Observability.OTLPEndpoint, log)
	defer obs.Shutdown()

	ctx := context.Background()

	reg, err := registry.LoadRegistry(cfg.Camunda.RegistryPath)
	if err != nil {
		zapLog.Warn("activity registry unavailable", zap.String("path", cfg.Camunda.RegistryPath), zap.Error(err))
	} else if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Generative capability ---
	generator, err := genai.New(ctx, cfg.GenAI)
	switch {
	case errors.Is(err, apperrors.ErrCapabilityNotConfigured):
		zapLog.Warn("generative capability not configured, evaluation stages run degraded",
			zap.String("provider", cfg.GenAI.Provider))
		generator = nil
	case err != nil:
		zapLog.Fatal("generator init failed", zap.Error(err))
	default:
		defer generator.Close()
		zapLog.Info("Generator ready", zap.String("provider", cfg.GenAI.Provider), zap.String("model", cfg.GenAI.Model))
	}

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Host != "" {
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
			zapLog.Fatal("postgres schema failed", zap.Error(err))
		}
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.GetURL() != "" {
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
		if err := esClient.EnsureIndex(ctx, cfg.Database.Elasticsearch.Index, ie.IndexMapping); err != nil {
			zapLog.Fatal("elasticsearch index failed", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Database.Elasticsearch.Index))
	}

	// --- Web search, optionally cached in Redis ---
	var searcher websearch.Searcher = websearch.Disabled{}
	if cfg.WebSearch.Configured() {
		searcher = websearch.NewGoogleSearcher(cfg.WebSearch)
		if cfg.Database.Redis.Address != "" && cfg.WebSearch.CacheTTL > 0 {
			var redis *database.RedisClient
			err = retryWithBackoff(func() error {
				var err error
				redis, err = database.NewRedis(cfg.Database.Redis)
				if err != nil {
					return err
				}
				return redis.Ping(ctx)
			}, 10, 2*time.Second, zapLog, "Redis connection")
			if err != nil {
				zapLog.Warn("redis unavailable, web search is not cached", zap.Error(err))
			} else {
				defer redis.Close()
				searcher = websearch.NewCachedSearcher(searcher, redis.Client,
					time.Duration(cfg.WebSearch.CacheTTL)*time.Second, log)
				zapLog.Info("Redis connected successfully")
			}
		}
	} else {
		zapLog.Warn("web search not configured, market research uses stubs")
	}

	// --- Notification channels ---
	var email ne.EmailSender
	var sms ne.SMSSender
	if cfg.AWS.SES.Enabled {
		c, err := aws.NewSESClient(ctx, cfg.AWS.Region, cfg.AWS.SES.FromEmail)
		if err != nil {
			zapLog.Warn("SES unavailable", zap.Error(err))
		} else {
			email = c
		}
	}
	if cfg.AWS.SNS.Enabled {
		c, err := aws.NewSNSClient(ctx, cfg.AWS.Region, cfg.AWS.SNS.DefaultSMSSenderID)
		if err != nil {
			zapLog.Warn("SNS unavailable", zap.Error(err))
		} else {
			sms = c
		}
	}

	client := zeebe.GetClient()
	var workers []worker.JobWorker
	start := func(taskType string, handle func(worker.JobClient, entities.Job)) {
		if reg != nil && reg.Find(taskType) == nil {
			zapLog.Warn("task type missing from activity registry", zap.String("taskType", taskType))
		}
		w := camunda.StartWorker(client, taskType, config.GetWorkerConfig(cfg, taskType), observed(obs, taskType, handle), log)
		if w != nil {
			workers = append(workers, w)
		}
	}
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	// --- 1. Evaluation Workers (6) ---
	extractCfg := ef.LoadConfig()
	extractCfg.Timeout = timeout(ef.TaskType)
	extractor := ef.NewHandler(extractCfg, generator, log)
	start(ef.TaskType, extractor.Handle)

	synthCfg := sp.LoadConfig()
	synthCfg.Timeout = timeout(sp.TaskType)
	start(sp.TaskType, sp.NewHandler(synthCfg, generator, extractor, log).Handle)

	marketCfg := em.LoadConfig()
	marketCfg.Timeout = timeout(em.TaskType)
	marketCfg.Region = cfg.WebSearch.Region
	marketCfg.ResultsPerQuery = cfg.WebSearch.ResultsPerQuery
	start(em.TaskType, em.NewHandler(marketCfg, generator, searcher, log).Handle)

	scoreCfg := cs.LoadConfig()
	scoreCfg.Timeout = timeout(cs.TaskType)
	scoreCfg.Enhanced = cfg.Pipeline.EnhancedScoring
	start(cs.TaskType, cs.NewHandler(scoreCfg, generator, log).Handle)

	viewsCfg := gv.LoadConfig()
	viewsCfg.Timeout = timeout(gv.TaskType)
	viewsCfg.DefaultLocale = cfg.Pipeline.DefaultLocale
	viewsCfg.GroundingMinRatio = cfg.Pipeline.GroundingMinRatio
	start(gv.TaskType, gv.NewHandler(viewsCfg, generator, log).Handle)

	feedbackCfg := gf.LoadConfig()
	feedbackCfg.Timeout = timeout(gf.TaskType)
	feedbackCfg.DefaultLocale = cfg.Pipeline.DefaultLocale
	start(gf.TaskType, gf.NewHandler(feedbackCfg, generator, log).Handle)

	// --- 2. Delivery Workers (3) ---
	if pg != nil {
		storeCfg := se.LoadConfig()
		storeCfg.Timeout = timeout(se.TaskType)
		start(se.TaskType, se.NewHandler(storeCfg, pg.DB, log).Handle)
	} else {
		zapLog.Warn("postgres not configured, worker not started", zap.String("taskType", se.TaskType))
	}

	if esClient != nil {
		indexCfg := ie.LoadConfig()
		indexCfg.Timeout = timeout(ie.TaskType)
		indexCfg.Index = cfg.Database.Elasticsearch.Index
		start(ie.TaskType, ie.NewHandler(indexCfg, esClient.Client, log).Handle)
	} else {
		zapLog.Warn("elasticsearch not configured, worker not started", zap.String("taskType", ie.TaskType))
	}

	notifyCfg := ne.LoadConfig()
	notifyCfg.Timeout = timeout(ne.TaskType)
	notifyCfg.EmailEnabled = cfg.AWS.SES.Enabled
	notifyCfg.SMSEnabled = cfg.AWS.SNS.Enabled
	if cfg.AWS.SES.AdminEmail != "" {
		notifyCfg.AdminEmails = []string{cfg.AWS.SES.AdminEmail}
	}
	start(ne.TaskType, ne.NewHandler(notifyCfg, email, sms, log).Handle)

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := zeebe.HealthCheck(checkCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready", err)
			return
		}
		if pg != nil {
			if err := pg.Ping(checkCtx); err != nil {
				writeStatus(w, http.StatusServiceUnavailable, "not ready", err)
				return
			}
		}
		writeStatus(w, http.StatusOK, "ready", nil)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	server := &http.Server{
		Addr:              cfg.Observability.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	zapLog.Info("Worker manager stopped")
}

// observed records every handled job in the OTel meter.
func observed(obs *observability.Observability, taskType string, handle func(worker.JobClient, entities.Job)) func(worker.JobClient, entities.Job) {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		handle(client, job)
		ctx := context.Background()
		obs.RecordJobProcessed(ctx, taskType, "handled")
		obs.RecordJobDuration(ctx, taskType, time.Since(start), "handled")
	}
}

func writeStatus(w http.ResponseWriter, code int, status string, err error) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if err != nil {
		body["error"] = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
