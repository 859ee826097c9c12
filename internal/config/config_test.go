package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:notegenius.db", cfg.DBPath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 25*time.Minute, cfg.WarningAfter)
	assert.Equal(t, 30*time.Minute, cfg.TimeoutAfter)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, DefaultStudyRoutes(), cfg.StudyRoutes)
	assert.Equal(t, 1, cfg.MaintenanceWorkerCount)
	assert.Equal(t, 8, cfg.MaintenanceQueueSize)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SESSION_HEARTBEAT_INTERVAL", "5s")
	t.Setenv("SESSION_TIMEOUT_AFTER", "10m")
	t.Setenv("MAINTENANCE_WORKER_COUNT", "3")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 10*time.Minute, cfg.TimeoutAfter)
	assert.Equal(t, 25*time.Minute, cfg.WarningAfter, "untouched values keep defaults")
	assert.Equal(t, 3, cfg.MaintenanceWorkerCount)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SESSION_HEARTBEAT_INTERVAL", "soon")
	t.Setenv("SESSION_WARNING_AFTER", "-5m")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 25*time.Minute, cfg.WarningAfter, "non-positive durations are rejected")
}

func TestLoad_StudyRoutesParsing(t *testing.T) {
	t.Setenv("STUDY_ROUTES", "/review=flashcard_study, /exam=quiz_taking")

	cfg := Load()

	assert.Equal(t, map[string]string{
		"/review": "flashcard_study",
		"/exam":   "quiz_taking",
	}, cfg.StudyRoutes)
}

func TestLoad_MalformedStudyRoutesFallBack(t *testing.T) {
	t.Setenv("STUDY_ROUTES", "/review=flashcard_study,broken")

	cfg := Load()

	assert.Equal(t, DefaultStudyRoutes(), cfg.StudyRoutes)
}
