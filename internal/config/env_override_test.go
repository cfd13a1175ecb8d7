package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_Server(t *testing.T) {
	t.Run("TIMELY_BASE_URL replaces base url", func(t *testing.T) {
		t.Setenv("TIMELY_BASE_URL", "https://timely.example.com")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "https://timely.example.com", cfg.Server.BaseURL)
		assert.Equal(t, "/api/v1", cfg.Server.APIPrefix)
	})

	t.Run("TIMELY_API_PREFIX may be set to empty", func(t *testing.T) {
		t.Setenv("TIMELY_API_PREFIX", "")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "", cfg.Server.APIPrefix)
	})

	t.Run("TIMELY_TIMEOUT feeds GetTimeout", func(t *testing.T) {
		t.Setenv("TIMELY_TIMEOUT", "5s")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 5*time.Second, cfg.GetTimeout())
	})
}

func TestEnvOverrides_Assistant(t *testing.T) {
	t.Setenv("TIMELY_ENERGY", "high")
	t.Setenv("TIMELY_PERSONALITY", "zen")
	t.Setenv("TIMELY_THEME", "dark")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "high", cfg.Assistant.Energy)
	assert.Equal(t, "zen", cfg.Assistant.Personality)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestEnvOverrides_Logging(t *testing.T) {
	t.Run("TIMELY_DEBUG accepts bool strings", func(t *testing.T) {
		t.Setenv("TIMELY_DEBUG", "true")
		t.Setenv("TIMELY_LOG_LEVEL", "warn")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Logging.DebugMode)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("invalid TIMELY_DEBUG is ignored", func(t *testing.T) {
		t.Setenv("TIMELY_DEBUG", "maybe")

		cfg := DefaultConfig()
		cfg.Logging.DebugMode = true
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Logging.DebugMode)
	})
}
