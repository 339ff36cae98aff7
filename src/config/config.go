package config

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port     string
	LogLevel string

	// CorpusDir is the root of the downloaded disclosure tree:
	// <filer>/<year>/<docid>.pdf, populated by the acquisition layer.
	CorpusDir string

	// DataDir holds the pipeline's durable outputs.
	DataDir          string
	CachePath        string
	ProcessedLogPath string

	// Workers bounds the parsing pool.
	Workers int

	// PipelineSchedule is a cron expression; empty disables scheduled runs.
	PipelineSchedule   string
	PipelineRunOnStart bool
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	dataDir := getEnv("DATA_DIR", "./data")

	workers := getEnvAsInt("WORKERS", runtime.NumCPU())
	if workers < 1 {
		log.Printf("WARNING: WORKERS must be positive, got %d. Using 1.", workers)
		workers = 1
	}

	Cfg = &AppConfig{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CorpusDir: getEnv("CORPUS_DIR", "./house"),

		DataDir:          dataDir,
		CachePath:        getEnv("CACHE_FILE", filepath.Join(dataDir, "trades_cache.json")),
		ProcessedLogPath: getEnv("PROCESSED_FILE", filepath.Join(dataDir, "processed.txt")),

		Workers: workers,

		PipelineSchedule:   getEnv("PIPELINE_SCHEDULE", ""),
		PipelineRunOnStart: getEnvAsBool("PIPELINE_RUN_ON_START", false),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, CorpusDir=%s, DataDir=%s, Workers=%d",
		Cfg.Port, Cfg.LogLevel, Cfg.CorpusDir, Cfg.DataDir, Cfg.Workers)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid boolean value for %s ('%s'), using default: %t", key, valueStr, fallback)
	return fallback
}
