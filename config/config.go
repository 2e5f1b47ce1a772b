package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const DefaultThumbnailsSubDir = "match_thumbnails"

const (
	defaultMessageQueueSize  = 500
	defaultNumMessageWorkers = 4
	defaultThumbnailMaxSize  = 300
	defaultRecognitionSecs   = 30
)

type Config struct {
	// http listen address
	ListenAddr string

	// database path
	DatabasePath string

	// media storage configuration
	MediaStoragePath string // root for generated assets
	ThumbnailsPath   string // full-calculated path for match thumbnails
	ThumbnailMaxSize int

	// recognition service
	RecognitionURL     string
	RecognitionAPIKey  string
	RecognitionTimeout time.Duration
	AlgorithmTag       string

	// chat transport gateway (outbound replies)
	GatewayURL    string
	GatewayAPIKey string

	// bookmark hand-off
	NATSURL         string
	BookmarkSubject string

	// worker settings
	MessageQueueSize  int
	NumMessageWorkers int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "groupwatch.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	thumbSubDir := getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir)

	recognitionURL := getEnvOrDefault("RECOGNITION_SERVICE_URL", "http://localhost:8090")
	recognitionSecs := getEnvIntOrDefault("RECOGNITION_TIMEOUT_SECONDS", defaultRecognitionSecs)

	cfg := Config{
		ListenAddr:         getEnvOrDefault("LISTEN_ADDR", ":8080"),
		DatabasePath:       dbPath,
		MediaStoragePath:   absMediaStorage,
		ThumbnailsPath:     filepath.Join(absMediaStorage, thumbSubDir),
		ThumbnailMaxSize:   getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize),
		RecognitionURL:     recognitionURL,
		RecognitionAPIKey:  os.Getenv("RECOGNITION_API_KEY"),
		RecognitionTimeout: time.Duration(recognitionSecs) * time.Second,
		AlgorithmTag:       getEnvOrDefault("RECOGNITION_ALGORITHM_TAG", "external-frs-v1"),
		GatewayURL:         getEnvOrDefault("GATEWAY_URL", "http://localhost:3000"),
		GatewayAPIKey:      os.Getenv("GATEWAY_API_KEY"),
		NATSURL:            getEnvOrDefault("NATS_URL", "nats://localhost:4222"),
		BookmarkSubject:    getEnvOrDefault("BOOKMARK_SUBJECT", ""),
		MessageQueueSize:   getEnvIntOrDefault("MESSAGE_QUEUE_SIZE", defaultMessageQueueSize),
		NumMessageWorkers:  getEnvIntOrDefault("NUM_MESSAGE_WORKERS", defaultNumMessageWorkers),
	}

	return cfg, nil
}
