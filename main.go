package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/groupwatchapp/groupwatchbackend/bookmarks"
	"github.com/groupwatchapp/groupwatchbackend/config"
	"github.com/groupwatchapp/groupwatchbackend/database"
	"github.com/groupwatchapp/groupwatchbackend/dispatch"
	"github.com/groupwatchapp/groupwatchbackend/handlers"
	"github.com/groupwatchapp/groupwatchbackend/messaging"
	"github.com/groupwatchapp/groupwatchbackend/realtime"
	"github.com/groupwatchapp/groupwatchbackend/recognition"
	"github.com/groupwatchapp/groupwatchbackend/repository"
	"github.com/groupwatchapp/groupwatchbackend/services"
	"github.com/groupwatchapp/groupwatchbackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.ThumbnailsPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	watcherRepo := repository.NewWatcherRepository(db)
	imageRepo := repository.NewFilteredImageRepository(db)
	personRepo := repository.NewPersonProfileRepository(db)

	registry := services.NewWatcherRegistry(watcherRepo, personRepo)

	matcher := recognition.NewClient(cfg.RecognitionURL, cfg.RecognitionAPIKey, cfg.RecognitionTimeout)
	messenger := messaging.NewGatewayClient(cfg.GatewayURL, cfg.GatewayAPIKey)

	hub := realtime.NewHub()
	go hub.Run()

	var bookmarkIngestor dispatch.BookmarkIngestor
	natsIngestor, err := bookmarks.NewNATSIngestor(cfg.NATSURL, cfg.BookmarkSubject)
	if err != nil {
		log.Printf("Warning: bookmark hand-off disabled, NATS unavailable: %v", err)
	} else {
		defer natsIngestor.Close()
		bookmarkIngestor = natsIngestor
	}

	dispatcher := dispatch.NewDispatcher(watcherRepo, imageRepo, matcher, hub, messenger, bookmarkIngestor, dispatch.Options{
		Algorithm:     cfg.AlgorithmTag,
		ThumbnailDir:  cfg.ThumbnailsPath,
		ThumbnailSize: cfg.ThumbnailMaxSize,
	})

	log.Printf("Initializing message worker pool (Workers: %d, Queue Size: %d)...", cfg.NumMessageWorkers, cfg.MessageQueueSize)
	messageQueue := workers.NewMessageProcessor(dispatcher, cfg.MessageQueueSize, cfg.NumMessageWorkers)
	defer func() {
		messageQueue.Stop()
		dispatcher.DrainSideEffects()
	}()

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Using recognition service: %s (timeout %s)", cfg.RecognitionURL, cfg.RecognitionTimeout)
	log.Printf("Storing match thumbnails in: %s", cfg.ThumbnailsPath)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Owner-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	watcherHandler := &handlers.WatcherHandler{Registry: registry}
	imageHandler := &handlers.FilteredImageHandler{Repo: imageRepo}
	webhookHandler := &handlers.WebhookHandler{Queue: messageQueue}

	r.Route("/api", func(r chi.Router) {
		r.Route("/watchers", func(r chi.Router) {
			r.Post("/", watcherHandler.CreateWatcher)
			r.Get("/", watcherHandler.ListWatchers)
			r.Route("/{watcher_id}", func(r chi.Router) {
				r.Put("/", watcherHandler.UpdateWatcher)
				r.Delete("/", watcherHandler.DeleteWatcher)
				r.Post("/deactivate", watcherHandler.DeactivateWatcher)
			})
		})

		r.Get("/watched-groups", watcherHandler.ListWatchedGroups)

		r.Route("/images", func(r chi.Router) {
			r.Get("/", imageHandler.ListImages)
			r.Route("/{image_id}", func(r chi.Router) {
				r.Get("/", imageHandler.GetImage)
				r.Delete("/", imageHandler.DeleteImage)
				r.Post("/archive", imageHandler.SetArchived(true))
				r.Post("/unarchive", imageHandler.SetArchived(false))
			})
		})

		r.Post("/messages", webhookHandler.ReceiveMessage)
		r.Get("/ws", hub.ServeWS)
	})

	log.Printf("Starting server on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		log.Fatalf("FATAL: Server failed: %v", err)
	}
}
