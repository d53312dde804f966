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

	"github.com/ourmemories/memoriesbackend/config"
	"github.com/ourmemories/memoriesbackend/database"
	"github.com/ourmemories/memoriesbackend/handlers"
	"github.com/ourmemories/memoriesbackend/media"
	"github.com/ourmemories/memoriesbackend/policy"
	"github.com/ourmemories/memoriesbackend/repository"
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

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		log.Fatalf("FATAL: Failed to create database directory: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}
	if err := database.SeedUsers(db, cfg); err != nil {
		log.Fatalf("FATAL: Failed to seed users: %v", err)
	}

	var mediaStore media.Store
	switch cfg.MediaBackend {
	case config.MediaBackendS3:
		mediaStore, err = media.NewS3Storage(media.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 media store: %v", err)
		}
		log.Printf("Using S3 media backend (bucket: %s)", cfg.S3Bucket)
	default:
		mediaStore, err = media.NewLocalStorage(cfg.MediaStoragePath, cfg.PublicBaseURL)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize local media store: %v", err)
		}
		log.Printf("Using local media backend at %s", cfg.MediaStoragePath)
	}
	mediaProcessor := media.NewProcessor(mediaStore, cfg.ThumbnailSize)

	accessPolicy := policy.New(cfg.PrivilegedEmails())

	userRepo := repository.NewUserRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	imageRepo := repository.NewImageRepository(db)
	anniversaryRepo := repository.NewAnniversaryRepository(db)
	settingsRepo := repository.NewSiteSettingsRepository(db)

	tokenExpiry := time.Duration(cfg.JWTExpireHours) * time.Hour
	maxUpload := cfg.MaxUploadBytes()
	trustVisibility := cfg.TrustExplicitVisibilityFilter

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret, tokenExpiry)
	albumHandler := handlers.NewAlbumHandler(albumRepo, imageRepo, accessPolicy, mediaProcessor, trustVisibility, maxUpload)
	imageHandler := handlers.NewImageHandler(imageRepo, albumRepo, accessPolicy, mediaProcessor, trustVisibility, maxUpload)
	anniversaryHandler := handlers.NewAnniversaryHandler(anniversaryRepo, imageRepo, albumRepo, accessPolicy, trustVisibility)
	settingsHandler := handlers.NewSiteSettingsHandler(settingsRepo, accessPolicy, mediaProcessor, maxUpload)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{cfg.PublicBaseURL, "http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
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

	requireAuth := handlers.RequireAuth(cfg.JWTSecret)
	optionalAuth := handlers.OptionalAuth(cfg.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(requireAuth).Get("/me", authHandler.Me)
		})

		r.Route("/albums", func(r chi.Router) {
			r.With(optionalAuth).Get("/", albumHandler.List)
			r.With(optionalAuth).Post("/", albumHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.With(optionalAuth).Get("/", albumHandler.Get)
				r.With(optionalAuth).Put("/", albumHandler.Update)
				r.With(optionalAuth).Put("/cover", albumHandler.UpdateCover)
				r.With(optionalAuth).Delete("/", albumHandler.Delete)
			})
		})

		r.Route("/images", func(r chi.Router) {
			r.With(optionalAuth).Get("/", imageHandler.List)
			r.With(optionalAuth).Get("/timeline", imageHandler.Timeline)
			r.With(optionalAuth).Get("/timeline/anniversary", imageHandler.AnniversaryTimeline)
			r.With(optionalAuth).Get("/today-in-past", imageHandler.TodayInPast)
			r.With(optionalAuth).Post("/", imageHandler.Upload)
			r.Route("/{id}", func(r chi.Router) {
				r.With(optionalAuth).Get("/", imageHandler.Get)
				r.With(optionalAuth).Put("/", imageHandler.Update)
				r.With(optionalAuth).Put("/move", imageHandler.Move)
				r.With(optionalAuth).Delete("/", imageHandler.Delete)
				// reactions and notes are open to anyone
				r.Post("/react", imageHandler.React)
				r.Post("/love-note", imageHandler.LoveNote)
			})
		})

		r.Route("/anniversaries", func(r chi.Router) {
			r.With(optionalAuth).Get("/", anniversaryHandler.List)
			r.With(optionalAuth).Get("/timeline", anniversaryHandler.Timeline)
			r.With(optionalAuth).Post("/", anniversaryHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.With(optionalAuth).Get("/", anniversaryHandler.Get)
				r.With(optionalAuth).Put("/", anniversaryHandler.Update)
				r.With(optionalAuth).Delete("/", anniversaryHandler.Delete)
			})
		})

		r.Route("/site-settings", func(r chi.Router) {
			r.Get("/", settingsHandler.Get)
			r.With(optionalAuth).Post("/background", settingsHandler.UpdateBackground)
			r.With(optionalAuth).Delete("/background", settingsHandler.DeleteBackground)
		})
	})

	if local, ok := mediaStore.(*media.LocalStorage); ok {
		fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(local.BasePath())))
		r.Get("/media/*", func(w http.ResponseWriter, req *http.Request) {
			fileServer.ServeHTTP(w, req)
		})
		log.Printf("Registered media server at /media/*")
	}

	serverAddr := ":" + cfg.Port
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Minute, // uploads can be large
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
