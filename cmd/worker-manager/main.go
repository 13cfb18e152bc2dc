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

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"recruit-workers/internal/common/ats"
	"recruit-workers/internal/common/auth"
	awsclients "recruit-workers/internal/common/aws"
	"recruit-workers/internal/common/camunda"
	"recruit-workers/internal/common/config"
	"recruit-workers/internal/common/database"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/observability"
	"recruit-workers/internal/llm"
	"recruit-workers/internal/scoring"
	"recruit-workers/internal/store"
	"recruit-workers/pkg/registry"

	// Access Control Workers (1)
	cka "recruit-workers/internal/workers/access/check-access"

	// Analysis Workers (2)
	ar "recruit-workers/internal/workers/analysis/analyze-resume"
	rb "recruit-workers/internal/workers/analysis/rescore-batch"

	// Candidate Workers (3)
	arc "recruit-workers/internal/workers/candidate/archive-candidate"
	ic "recruit-workers/internal/workers/candidate/index-candidate"
	pa "recruit-workers/internal/workers/candidate/persist-analysis"

	// Ingestion Workers (1)
	ert "recruit-workers/internal/workers/ingestion/extract-resume-text"

	// Notification Workers (1)
	na "recruit-workers/internal/workers/notification/notify-analysis-complete"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Load Activity Registry ---
	reg, err := registry.LoadRegistry("configs/activity-registry.json")
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	zapLog.Info("Activity registry loaded",
		zap.String("version", reg.Version),
		zap.Int("activities", len(reg.Activities)),
	)

	// --- Init Zeebe Client with retry ---
	var cam *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		cam, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := cam.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
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
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
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

	// --- Init Redis with retry ---
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
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Stores ---
	standardsTTL := time.Duration(cfg.Scoring.StandardsCacheTTL) * time.Second
	standardsStore := store.NewStandardsStore(pg.GetDB(), redis.GetClient(), standardsTTL, log)
	jobStore := store.NewJobStore(pg.GetDB())
	candidateStore := store.NewCandidateStore(pg.GetDB(), log)

	// --- Init Completion Backend & Scoring Service ---
	vertexClient, err := llm.NewVertexClient(ctx, llm.VertexConfig{
		ProjectID:   cfg.Completion.ProjectID,
		Location:    cfg.Completion.Location,
		Model:       cfg.Completion.Model,
		Temperature: cfg.Completion.Temperature,
		MaxTokens:   cfg.Completion.MaxTokens,
	})
	if err != nil {
		zapLog.Fatal("vertex client failed", zap.Error(err))
	}
	defer vertexClient.Close()

	scoringService := scoring.NewService(standardsStore, jobStore, vertexClient, scoring.Config{
		DefaultLanguage:   cfg.Scoring.DefaultLanguage,
		ExpectedWeightSum: cfg.Scoring.ExpectedWeightSum,
	}, log)

	// --- Init External Service Clients ---
	keycloakClient := auth.NewKeycloakClient(
		cfg.Auth.Keycloak.URL,
		cfg.Auth.Keycloak.Realm,
		cfg.Auth.Keycloak.ClientID,
		cfg.Auth.Keycloak.ClientSecret,
	)

	s3Client, err := awsclients.NewS3Client(ctx, cfg.Storage.Region)
	if err != nil {
		zapLog.Fatal("s3 client failed", zap.Error(err))
	}

	sesClient, err := awsclients.NewSESClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("ses client failed", zap.Error(err))
	}

	snsClient, err := awsclients.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("sns client failed", zap.Error(err))
	}

	teamdoorClient := ats.NewTeamdoorClient(
		cfg.Integrations.Teamdoor.BaseURL,
		cfg.Integrations.Teamdoor.APIKey,
		time.Duration(cfg.Integrations.Teamdoor.Timeout)*time.Millisecond,
	)
	atsEnabled := cfg.Integrations.Teamdoor.BaseURL != ""

	zapLog.Info("All external service clients initialized")

	// --- START: Register ALL 8 Workers ---

	// --- 1. Ingestion Workers (1) ---
	if cfg.Workers[ert.TaskType].Enabled {
		wcfg := ert.LoadConfig(cfg.Storage.Bucket)
		applyWorkerTimeout(&wcfg.Timeout, cfg, ert.TaskType)
		handler := ert.NewHandler(wcfg, s3Client, log)
		startWorker(zeebeClient, ert.TaskType, cfg.Workers[ert.TaskType], handler.Handle, reg, obs, zapLog)
	}

	// --- 2. Analysis Workers (2) ---
	if cfg.Workers[ar.TaskType].Enabled {
		wcfg := ar.LoadConfig()
		applyWorkerTimeout(&wcfg.Timeout, cfg, ar.TaskType)
		handler := ar.NewHandler(wcfg, scoringService, log)
		startWorker(zeebeClient, ar.TaskType, cfg.Workers[ar.TaskType], handler.Handle, reg, obs, zapLog)
	}

	if cfg.Workers[rb.TaskType].Enabled {
		wcfg := rb.LoadConfig()
		applyWorkerTimeout(&wcfg.Timeout, cfg, rb.TaskType)
		handler := rb.NewHandler(wcfg, candidateStore, scoringService, candidateStore, log)
		startWorker(zeebeClient, rb.TaskType, cfg.Workers[rb.TaskType], handler.Handle, reg, obs, zapLog)
	}

	// --- 3. Candidate Workers (3) ---
	if cfg.Workers[pa.TaskType].Enabled {
		wcfg := pa.LoadConfig()
		applyWorkerTimeout(&wcfg.Timeout, cfg, pa.TaskType)
		handler := pa.NewHandler(wcfg, candidateStore, log)
		startWorker(zeebeClient, pa.TaskType, cfg.Workers[pa.TaskType], handler.Handle, reg, obs, zapLog)
	}

	if cfg.Workers[arc.TaskType].Enabled {
		wcfg := arc.LoadConfig()
		applyWorkerTimeout(&wcfg.Timeout, cfg, arc.TaskType)
		var archivePusher arc.StatusPusher
		if atsEnabled {
			archivePusher = teamdoorClient
		}
		handler := arc.NewHandler(wcfg, candidateStore, archivePusher, log)
		startWorker(zeebeClient, arc.TaskType, cfg.Workers[arc.TaskType], handler.Handle, reg, obs, zapLog)
	}

	if cfg.Workers[ic.TaskType].Enabled {
		wcfg := ic.LoadConfig(cfg.Database.Elasticsearch.CandidateIndex)
		applyWorkerTimeout(&wcfg.Timeout, cfg, ic.TaskType)
		handler := ic.NewHandler(wcfg, candidateStore, esClient.Client, log)
		startWorker(zeebeClient, ic.TaskType, cfg.Workers[ic.TaskType], handler.Handle, reg, obs, zapLog)
	}

	// --- 4. Access Control Workers (1) ---
	if cfg.Workers[cka.TaskType].Enabled {
		wcfg := cka.LoadConfig()
		applyWorkerTimeout(&wcfg.Timeout, cfg, cka.TaskType)
		handler := cka.NewHandler(wcfg, keycloakClient, log)
		startWorker(zeebeClient, cka.TaskType, cfg.Workers[cka.TaskType], handler.Handle, reg, obs, zapLog)
	}

	// --- 5. Notification Workers (1) ---
	if cfg.Workers[na.TaskType].Enabled {
		wcfg := na.LoadConfig(
			cfg.Notifications.Email.FromEmail,
			cfg.Notifications.Email.Enabled,
			cfg.Notifications.SMS.Enabled,
			atsEnabled,
		)
		applyWorkerTimeout(&wcfg.Timeout, cfg, na.TaskType)
		handler := na.NewHandler(wcfg, sesClient, snsClient, teamdoorClient, log)
		startWorker(zeebeClient, na.TaskType, cfg.Workers[na.TaskType], handler.Handle, reg, obs, zapLog)
	}

	zapLog.Info("All 8 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			readyCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			if err := cam.HealthCheck(readyCtx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range runningWorkers {
		w.Stop()
	}

	if err := cam.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

var runningWorkers []*camunda.CamundaWorker

// applyWorkerTimeout overrides a handler's default timeout with the
// per-worker value from config when one is set.
func applyWorkerTimeout(timeout *time.Duration, cfg *config.Config, taskType string) {
	if wc, ok := cfg.Workers[taskType]; ok && wc.Timeout > 0 {
		*timeout = time.Duration(wc.Timeout) * time.Millisecond
	}
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc camunda.HandlerFunc,
	reg *registry.ActivityRegistry, obs *observability.Observability, log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	// Every job passes schema validation against the activity registry and
	// is counted through the OTel meter before the handler sees it.
	hf := handlerFunc
	if activity, ok := reg.FindByTaskType(taskType); ok {
		hf = camunda.WithInputValidation(taskType, activity, hf, log)
	} else {
		log.Warn("task type missing from activity registry, input validation skipped",
			zap.String("taskType", taskType))
	}
	hf = camunda.WithJobMetrics(taskType, obs, hf)

	w := camunda.NewWorker(client, taskType, wcfg.MaxJobsActive,
		time.Duration(wcfg.Timeout)*time.Millisecond, hf, log)
	runningWorkers = append(runningWorkers, w)
}
