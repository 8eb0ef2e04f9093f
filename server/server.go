package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/apexwis/AudioSplitterFaaS/config"
	"github.com/apexwis/AudioSplitterFaaS/core/audio"
	"github.com/apexwis/AudioSplitterFaaS/core/splitter"
	"github.com/apexwis/AudioSplitterFaaS/logger"
	"github.com/apexwis/AudioSplitterFaaS/metrics"
	"github.com/apexwis/AudioSplitterFaaS/storage"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.InfoLevel,
		OutputPath: cfg.LogPath,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     14,
		Compress:   true,
	})

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", logger.ErrorField(err))
	}

	store, err := storage.NewMinioStore(cfg)
	if err != nil {
		logger.Fatal("failed to initialize object store", logger.ErrorField(err))
	}

	proc := audio.NewFFmpegProcessor(cfg.FFmpegPath)
	var extractor audio.Extractor
	switch cfg.Strategy {
	case config.StrategyDecodeReencode:
		extractor = audio.NewReencodeExtractor(proc)
	default:
		extractor = audio.NewStreamCopyExtractor(proc)
	}

	sp := splitter.New(extractor, store, cfg.KeyPrefix, cfg.Workers)
	m := metrics.New()
	apiHandler := NewAPIHandler(sp, m, cfg)

	router := mux.NewRouter()
	router.Use(metrics.RequestMiddleware(m))

	// CORS middleware
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, API-Key")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	router.HandleFunc("/", apiHandler.IndexHandler).Methods(http.MethodGet)
	router.HandleFunc("/healthz", apiHandler.HealthzHandler).Methods(http.MethodGet)
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/split-audio", apiHandler.AuthMiddleware(apiHandler.SplitAudioHandler)).Methods(http.MethodPost)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			logger.String("addr", server.Addr),
			logger.String("strategy", cfg.Strategy),
			logger.Int("workers", cfg.Workers))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("server stopped")
}
