package main

import (
	"context"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/robfig/cron/v3"
	"github.com/username/tradewatch/src/config"
	"github.com/username/tradewatch/src/handlers"
	"github.com/username/tradewatch/src/logger"
	"github.com/username/tradewatch/src/parsers"
	"github.com/username/tradewatch/src/pdftext"
	"github.com/username/tradewatch/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Tradewatch pipeline server starting...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.L.Info("Initializing services and handlers...")
	reportParser, err := parsers.GetParser("ptr")
	if err != nil {
		logger.L.Error("Failed to initialize report parser", "error", err)
		os.Exit(1)
	}
	extractor := pdftext.New()

	memCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)
	lookupService := services.NewLookupService(config.Cfg.CachePath, memCache)
	pipelineService := services.NewPipelineService(
		config.Cfg.CorpusDir,
		config.Cfg.CachePath,
		config.Cfg.ProcessedLogPath,
		config.Cfg.Workers,
		extractor,
		reportParser,
		lookupService,
	)

	filerHandler := handlers.NewFilerHandler(lookupService)
	pipelineHandler := handlers.NewPipelineHandler(pipelineService)

	if config.Cfg.PipelineRunOnStart {
		logger.L.Info("Running initial pipeline build...")
		if _, err := pipelineService.BuildCache(ctx); err != nil {
			logger.L.Error("Initial pipeline build failed", "error", err)
		}
	}

	if config.Cfg.PipelineSchedule != "" {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(config.Cfg.PipelineSchedule, func() {
			if _, err := pipelineService.BuildCache(ctx); err != nil {
				logger.L.Error("Scheduled pipeline build failed", "error", err)
			}
		})
		if err != nil {
			logger.L.Error("Invalid PIPELINE_SCHEDULE", "schedule", config.Cfg.PipelineSchedule, "error", err)
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.L.Info("Pipeline schedule registered", "schedule", config.Cfg.PipelineSchedule)
	}

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("GET /api/filers", filerHandler.HandleListFilers)
	apiRouter.HandleFunc("GET /api/filers/{name}", filerHandler.HandleGetFiler)
	apiRouter.HandleFunc("POST /api/pipeline/run", pipelineHandler.HandleRunPipeline)
	apiRouter.HandleFunc("POST /api/pipeline/rebuild", pipelineHandler.HandleRebuildPipeline)

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Tradewatch backend is running"})
			return
		}
		logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
		http.NotFound(w, r)
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := rateLimitMiddleware(rootMux)

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.L.Info("Shutdown signal received, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.L.Error("Server shutdown failed", "error", err)
		}
	}()

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
