package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string

	// Session tracker tuning. Defaults match production behavior; tests
	// and local runs can shrink them through the environment.
	HeartbeatInterval time.Duration
	WarningAfter      time.Duration
	TimeoutAfter      time.Duration
	SweepInterval     time.Duration

	// StudyRoutes lists the path prefixes that count as active-study
	// screens, as "prefix=activity_type" pairs.
	StudyRoutes map[string]string

	MaintenanceWorkerCount int
	MaintenanceQueueSize   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:notegenius.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		HeartbeatInterval: envDurationOr("SESSION_HEARTBEAT_INTERVAL", 30*time.Second),
		WarningAfter:      envDurationOr("SESSION_WARNING_AFTER", 25*time.Minute),
		TimeoutAfter:      envDurationOr("SESSION_TIMEOUT_AFTER", 30*time.Minute),
		SweepInterval:     envDurationOr("SESSION_SWEEP_INTERVAL", time.Hour),
		StudyRoutes:       envRoutesOr("STUDY_ROUTES", DefaultStudyRoutes()),

		MaintenanceWorkerCount: envIntOr("MAINTENANCE_WORKER_COUNT", 1),
		MaintenanceQueueSize:   envIntOr("MAINTENANCE_QUEUE_SIZE", 8),
	}
}

// DefaultStudyRoutes returns the built-in study-relevant route prefixes
// mapped to their activity types.
func DefaultStudyRoutes() map[string]string {
	return map[string]string{
		"/flashcards": "flashcard_study",
		"/notes":      "note_review",
		"/quiz":       "quiz_taking",
		"/study":      "general",
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

// envRoutesOr parses a comma-separated list of "prefix=activity" pairs,
// e.g. "/flashcards=flashcard_study,/notes=note_review".
func envRoutesOr(key string, def map[string]string) map[string]string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	out := map[string]string{}
	for _, pair := range strings.Split(v, ",") {
		prefix, activity, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || prefix == "" || activity == "" {
			log.Printf("invalid route mapping %q in %s, using defaults", pair, key)
			return def
		}
		out[prefix] = activity
	}
	return out
}
