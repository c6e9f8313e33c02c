package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AI_TIMEOUT", "")
	t.Setenv("SESSION_LOCK_TTL", "")

	cfg := Load()
	assert.Equal(t, 20*time.Second, cfg.Ai.Timeout)
	assert.Equal(t, 50*time.Second, cfg.Engine.SessionLockTTL)
	assert.Equal(t, 300, cfg.Ai.ReactionMaxToken)
	assert.Equal(t, 1500, cfg.Ai.DebriefMaxToken)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("GRAPH_CACHE_TTL", "1m")
	t.Setenv("REDIS_LOCK_ENABLED", "false")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GO_ENV", "production")

	cfg := Load()
	assert.Equal(t, 5*time.Second, cfg.Ai.Timeout)
	assert.Equal(t, time.Minute, cfg.Engine.GraphCacheTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "gemini", cfg.Ai.LLMProvider)
	assert.True(t, cfg.IsProduction())
}

func TestSessionLockTTLOutlivesAICalls(t *testing.T) {
	t.Setenv("AI_TIMEOUT", "30s")
	t.Setenv("SESSION_LOCK_TTL", "")
	cfg := Load()
	assert.Equal(t, 70*time.Second, cfg.Engine.SessionLockTTL)
	assert.Greater(t, cfg.Engine.SessionLockTTL, 2*cfg.Ai.Timeout)

	// too short a TTL is raised
	t.Setenv("SESSION_LOCK_TTL", "30s")
	cfg = Load()
	assert.Equal(t, 70*time.Second, cfg.Engine.SessionLockTTL)

	t.Setenv("SESSION_LOCK_TTL", "2m")
	cfg = Load()
	assert.Equal(t, 2*time.Minute, cfg.Engine.SessionLockTTL)
}

func TestEnvHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "twelve")
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_BOOL", "maybe")
	assert.Equal(t, 7, getEnvAsInt("X_INT", 7))
	assert.Equal(t, time.Hour, getEnvAsDuration("X_DUR", time.Hour))
	assert.True(t, getEnvAsBool("X_BOOL", true))
}
