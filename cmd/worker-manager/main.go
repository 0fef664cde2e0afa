// cmd/worker-manager/main.go
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

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"driveup-workers/internal/api"
	"driveup-workers/internal/carstore"
	"driveup-workers/internal/common/auth"
	"driveup-workers/internal/common/aws"
	"driveup-workers/internal/common/camunda"
	"driveup-workers/internal/common/config"
	"driveup-workers/internal/common/database"
	"driveup-workers/internal/common/events"
	"driveup-workers/internal/common/genai"
	"driveup-workers/internal/common/logger"
	"driveup-workers/internal/common/observability"
	"driveup-workers/internal/drivebot"
	"driveup-workers/pkg/registry"

	// Recommendation Workers (2)
	pcp "driveup-workers/internal/workers/recommendation/parse-car-preferences"
	rcr "driveup-workers/internal/workers/recommendation/rank-car-recommendations"

	// Catalogue Workers (2)
	qcc "driveup-workers/internal/workers/catalogue/query-car-catalogue"
	scm "driveup-workers/internal/workers/catalogue/search-car-models"

	// DriveBot Workers (4)
	cqq "driveup-workers/internal/workers/drivebot/check-question-quota"
	qdd "driveup-workers/internal/workers/drivebot/query-drivebot-data"
	sca "driveup-workers/internal/workers/drivebot/summarize-car-answer"
	tcq "driveup-workers/internal/workers/drivebot/translate-car-question"

	// Consultation & Utility Workers (3)
	vac "driveup-workers/internal/workers/auth/verify-auth-challenge"
	bc "driveup-workers/internal/workers/consultation/book-consultation"
	qfp "driveup-workers/internal/workers/fuel/query-fuel-prices"
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
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
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
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")
	if created, err := esClient.EnsureModelsIndex(ctx); err != nil {
		zapLog.Warn("car model index check failed", zap.String("index", esClient.ModelsIndex), zap.Error(err))
	} else if created {
		zapLog.Info("car model index created", zap.String("index", esClient.ModelsIndex))
	}

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

	// --- Init External Service Clients ---
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		publisher = events.NewKafkaPublisher(
			cfg.Events.Brokers,
			[]string{cfg.Events.RecommendationTopic, cfg.Events.ConsultationTopic},
			log,
		)
	}
	defer publisher.Close()

	completer := genai.NewClient(genai.Config{
		BaseURL:     cfg.APIs.GenAI.BaseURL,
		APIKey:      cfg.APIs.GenAI.APIKey,
		Model:       cfg.APIs.GenAI.Model,
		Temperature: cfg.APIs.GenAI.Temperature,
		MaxRetries:  cfg.APIs.GenAI.MaxRetries,
		Timeout:     config.GetDuration(cfg.APIs.GenAI.Timeout),
	})

	challengeProvider := auth.NewRecaptchaVerifier(auth.RecaptchaConfig{
		SecretKey: cfg.APIs.Recaptcha.SecretKey,
		VerifyURL: cfg.APIs.Recaptcha.VerifyURL,
		MinScore:  cfg.APIs.Recaptcha.MinScore,
		Timeout:   config.GetDuration(cfg.APIs.Recaptcha.Timeout),
	})

	var emailSender aws.EmailSender
	if cfg.Notifications.EmailEnabled {
		ses, err := aws.NewSESClient(ctx, cfg.Notifications.AWSRegion, cfg.Notifications.FromEmail)
		if err != nil {
			zapLog.Fatal("failed to create SES client", zap.Error(err))
		}
		emailSender = ses
	}
	var smsSender aws.SMSSender
	if cfg.Notifications.SMSEnabled {
		sns, err := aws.NewSNSClient(ctx, cfg.Notifications.AWSRegion)
		if err != nil {
			zapLog.Fatal("failed to create SNS client", zap.Error(err))
		}
		smsSender = sns
	}

	zapLog.Info("All external service clients initialized")

	store := carstore.New(pg.DB)

	// --- Build Handlers ---

	// --- 1. Recommendation Workers (2) ---
	parseHandler := pcp.NewHandler(&pcp.Config{
		Timeout: timeoutFor(cfg, pcp.TaskType, pcp.LoadConfig().Timeout),
	}, log)

	rankCfg := rcr.LoadConfig()
	rankCfg.Timeout = timeoutFor(cfg, rcr.TaskType, rankCfg.Timeout)
	if cfg.Events.RecommendationTopic != "" {
		rankCfg.EventTopic = cfg.Events.RecommendationTopic
	}
	rankHandler := rcr.NewHandler(rankCfg, store, publisher, log)

	// --- 2. Catalogue Workers (2) ---
	catalogueCfg := qcc.LoadConfig()
	catalogueCfg.Timeout = timeoutFor(cfg, qcc.TaskType, catalogueCfg.Timeout)
	if cfg.Catalogue.CacheTTL > 0 {
		catalogueCfg.CacheTTL = time.Duration(cfg.Catalogue.CacheTTL) * time.Second
	}
	catalogueHandler := qcc.NewHandler(catalogueCfg, store, redis.Client, log)

	searchCfg := scm.LoadConfig()
	searchCfg.Timeout = timeoutFor(cfg, scm.TaskType, searchCfg.Timeout)
	if esClient.ModelsIndex != "" {
		searchCfg.Index = esClient.ModelsIndex
	}
	searchHandler := scm.NewHandler(searchCfg, esClient.Client, log)

	// --- 3. DriveBot Workers (4) ---
	quotaCfg := cqq.LoadConfig()
	quotaCfg.Timeout = timeoutFor(cfg, cqq.TaskType, quotaCfg.Timeout)
	if cfg.DriveBot.MaxQuestions > 0 {
		quotaCfg.MaxQuestions = cfg.DriveBot.MaxQuestions
	}
	if cfg.DriveBot.QuotaWindow > 0 {
		quotaCfg.Window = time.Duration(cfg.DriveBot.QuotaWindow) * time.Second
	}
	quotaHandler := cqq.NewHandler(quotaCfg, redis.Client, log)

	translateCfg := tcq.LoadConfig()
	translateCfg.Timeout = timeoutFor(cfg, tcq.TaskType, translateCfg.Timeout)
	translateHandler := tcq.NewHandler(translateCfg, drivebot.NewTranslator(completer), log)

	dataCfg := qdd.LoadConfig()
	dataCfg.Timeout = timeoutFor(cfg, qdd.TaskType, dataCfg.Timeout)
	if cfg.DriveBot.MaxRows > 0 {
		dataCfg.MaxRows = cfg.DriveBot.MaxRows
	}
	dataHandler := qdd.NewHandler(dataCfg, pg.DB, log)

	summaryCfg := sca.LoadConfig()
	summaryCfg.Timeout = timeoutFor(cfg, sca.TaskType, summaryCfg.Timeout)
	summaryHandler := sca.NewHandler(summaryCfg, drivebot.NewSummarizer(completer), log)

	// --- 4. Consultation & Utility Workers (3) ---
	challengeCfg := vac.DefaultConfig()
	challengeCfg.Enabled = config.IsWorkerEnabled(cfg, vac.TaskType)
	challengeCfg.Timeout = timeoutFor(cfg, vac.TaskType, challengeCfg.Timeout)
	if w := config.GetWorkerConfig(cfg, vac.TaskType); w.MaxJobsActive > 0 {
		challengeCfg.MaxJobsActive = w.MaxJobsActive
	}
	challengeHandler, err := vac.NewHandler(vac.HandlerOptions{
		Deps: vac.ServiceDependencies{
			Provider: challengeProvider,
			Redis:    redis.Client,
			Logger:   log,
		},
		CustomConfig: challengeCfg,
		Logger:       log,
	})
	if err != nil {
		zapLog.Fatal("failed to create verify-auth-challenge handler", zap.Error(err))
	}

	bookingCfg := bc.LoadConfig()
	bookingCfg.Timeout = timeoutFor(cfg, bc.TaskType, bookingCfg.Timeout)
	bookingCfg.EmailEnabled = cfg.Notifications.EmailEnabled
	bookingCfg.SMSEnabled = cfg.Notifications.SMSEnabled
	if cfg.Notifications.ExpertEmail != "" {
		bookingCfg.ExpertEmail = cfg.Notifications.ExpertEmail
	}
	if cfg.Events.ConsultationTopic != "" {
		bookingCfg.EventTopic = cfg.Events.ConsultationTopic
	}
	bookingHandler := bc.NewHandler(bookingCfg, pg.DB, emailSender, smsSender, publisher, log)

	fuelCfg := qfp.LoadConfig()
	fuelCfg.Timeout = timeoutFor(cfg, qfp.TaskType, fuelCfg.Timeout)
	fuelHandler := qfp.NewHandler(fuelCfg, pg.DB, log)

	// --- START: Register ALL 11 Workers ---
	client := zeebe.Zeebe()
	workers := []struct {
		taskType string
		handle   camunda.HandlerFunc
	}{
		{pcp.TaskType, parseHandler.Handle},
		{rcr.TaskType, rankHandler.Handle},
		{qcc.TaskType, catalogueHandler.Handle},
		{scm.TaskType, searchHandler.Handle},
		{cqq.TaskType, quotaHandler.Handle},
		{tcq.TaskType, translateHandler.Handle},
		{qdd.TaskType, dataHandler.Handle},
		{sca.TaskType, summaryHandler.Handle},
		{vac.TaskType, challengeHandler.Handle},
		{bc.TaskType, bookingHandler.Handle},
		{qfp.TaskType, fuelHandler.Handle},
	}
	taskTypes := make([]string, 0, len(workers))
	for _, w := range workers {
		taskTypes = append(taskTypes, w.taskType)
	}
	checkRegistry(registryPath(), taskTypes, zapLog)

	var jobWorkers []worker.JobWorker
	for _, w := range workers {
		if jw := startWorker(client, w.taskType, config.GetWorkerConfig(cfg, w.taskType), camunda.Instrument(w.taskType, obs, w.handle), zapLog); jw != nil {
			jobWorkers = append(jobWorkers, jw)
		}
	}
	zapLog.Info("Workers registered", zap.Int("running", len(jobWorkers)), zap.Int("known", len(workers)))

	// --- HTTP gateway ---
	server := api.NewServer(api.Options{
		Services: api.Services{
			Preferences:   parseHandler,
			Ranker:        rankHandler,
			Catalogue:     catalogueHandler,
			Search:        searchHandler,
			Quota:         quotaHandler,
			Translator:    translateHandler,
			Data:          dataHandler,
			Summarizer:    summaryHandler,
			FuelPrices:    fuelHandler,
			Challenge:     challengeHandler,
			Consultations: bookingHandler,
		},
		Checks: map[string]api.ReadinessCheck{
			"zeebe":         zeebe.HealthCheck,
			"postgres":      pg.Ping,
			"redis":         redis.Ping,
			"elasticsearch": esClient.Ping,
		},
		RequestTimeout: 45 * time.Second,
		Logger:         log,
	})

	addr := cfg.HTTP.Address
	if addr == "" {
		addr = ":8080"
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLog.Info("HTTP gateway listening", zap.String("address", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	zapLog.Info("Shutting down worker manager", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("http shutdown incomplete", zap.Error(err))
	}
	for _, jw := range jobWorkers {
		jw.Close()
		jw.AwaitClose()
	}
	zapLog.Info("Worker manager stopped")
}

func registryPath() string {
	if p := os.Getenv("ACTIVITY_REGISTRY"); p != "" {
		return p
	}
	return "configs/activity-registry.json"
}

// checkRegistry warns about workers missing from the activity registry.
// A missing or invalid registry file is not fatal.
func checkRegistry(path string, taskTypes []string, log *zap.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry not loaded", zap.String("path", path), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry invalid", zap.String("path", path), zap.Error(err))
		return
	}
	for _, taskType := range taskTypes {
		if _, ok := reg.Find(taskType); !ok {
			log.Warn("worker not listed in activity registry", zap.String("taskType", taskType))
		}
	}
}

func timeoutFor(cfg *config.Config, taskType string, fallback time.Duration) time.Duration {
	if d := config.GetWorkerConfig(cfg, taskType).TimeoutDuration(); d > 0 {
		return d
	}
	return fallback
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}

	jw := client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(wcfg.TimeoutDuration()).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
	return jw
}
