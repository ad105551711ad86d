package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/manas360/practice-api/internal/api"
	"github.com/manas360/practice-api/internal/config"
	"github.com/manas360/practice-api/internal/insight"
	"github.com/manas360/practice-api/internal/llm"
	"github.com/manas360/practice-api/internal/llm/gemini"
	"github.com/manas360/practice-api/internal/llm/openai"
	"github.com/manas360/practice-api/internal/repository/memory"
	"github.com/manas360/practice-api/internal/repository/redis"
	"github.com/manas360/practice-api/internal/scheduling"
	"github.com/manas360/practice-api/internal/seed"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	// Optional rotating log file sink
	if cfg.Logging.File != "" {
		writer, err := rotatelogs.New(
			cfg.Logging.File,
			rotatelogs.WithRotationTime(24*time.Hour),
			rotatelogs.WithMaxAge(7*24*time.Hour),
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open log file")
		}
		log.Logger = log.Output(io.MultiWriter(os.Stderr, writer))
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting practice API server")

	// Initialize the session store and seed it
	store := memory.NewSessionStore()
	switch cfg.Seed.Mode {
	case "generated":
		randomSeed := cfg.Seed.RandomSeed
		if randomSeed == 0 {
			randomSeed = uint64(time.Now().UnixNano())
		}
		if err := seed.Generate(context.Background(), store, cfg.Seed.Patients, cfg.Seed.Sessions, randomSeed); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed store")
		}
	default:
		if err := seed.Demo(context.Background(), store, time.Now()); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed store")
		}
	}
	log.Info().Int("sessions", len(store.All(context.Background()))).Str("mode", cfg.Seed.Mode).Msg("Store seeded")

	// Initialize LLM router with providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	} else {
		log.Warn().Msg("Gemini API key is empty, skipping registration")
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI))
	}

	// Optional Redis cache for generated insight text
	var insightCache insight.Cache
	if cfg.Cache.Enabled {
		redisClient, err := redis.NewClient(cfg.Cache)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		insightCache = redis.NewInsightCache(redisClient, cfg.Cache.TTL)
		log.Info().Str("addr", cfg.Cache.Addr()).Msg("Insight cache enabled")
	}

	// Initialize services
	scheduler := scheduling.NewService(store)
	insights := insight.NewService(store, llmRouter, insightCache, cfg.LLM.RequestTimeout)

	// Session writes drop any cached insight text derived from the old state
	scheduler.OnSessionCreated(insights.InvalidateSession)
	scheduler.OnSessionUpdated(insights.InvalidateSession)

	// Initialize router
	router := api.NewRouter(cfg, scheduler, insights, llmRouter)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Background sweep for past-due scheduled sessions
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.Sweep.Enabled {
		go runSweep(sweepCtx, scheduler, cfg.Sweep.Interval)
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	stopSweep()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// runSweep periodically marks past-due scheduled sessions as missed
func runSweep(ctx context.Context, scheduler *scheduling.Service, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("Missed-session sweep started")
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			swept, err := scheduler.SweepMissed(ctx, now)
			if err != nil {
				log.Error().Err(err).Msg("Sweep failed")
				continue
			}
			if swept > 0 {
				log.Info().Int("swept", swept).Msg("Marked past-due sessions missed")
			}
		}
	}
}
