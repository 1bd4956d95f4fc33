package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-di/framework/config"
)

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load("testdata/empty.env")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"App.Name", cfg.App.Name, "go-di"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Debug", cfg.App.Debug, true},
		{"Container.File", cfg.Container.File, "di.yaml"},
		{"Container.Discovery", cfg.Container.Discovery, true},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.JSON", cfg.Log.JSON, false},
		{"Inspect.Enabled", cfg.Inspect.Enabled, false},
		{"Inspect.Addr", cfg.Inspect.Addr, ":8000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "billing")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DI_CONFIG", "config/container.json")
	t.Setenv("DI_DISCOVERY", "false")
	t.Setenv("INSPECT_ENABLED", "1")

	cfg := config.Load("testdata/empty.env")

	assert.Equal(t, "billing", cfg.App.Name)
	assert.Equal(t, "production", cfg.App.Env)
	assert.False(t, cfg.App.Debug, "debug defaults to off outside local")
	assert.True(t, cfg.Log.JSON, "production logs are JSON by default")
	assert.Equal(t, "config/container.json", cfg.Container.File)
	assert.False(t, cfg.Container.Discovery)
	assert.True(t, cfg.Inspect.Enabled)
}

func TestLoad_ReadsDotenvFile(t *testing.T) {
	// godotenv never overrides variables that are already set.
	for _, key := range []string{"APP_NAME", "LOG_LEVEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := config.Load("testdata/app.env")
	assert.Equal(t, "FromDotenv", cfg.App.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidBoolFallsBack(t *testing.T) {
	t.Setenv("APP_DEBUG", "not-a-bool")
	t.Setenv("APP_ENV", "testing")
	cfg := config.Load("testdata/empty.env")
	assert.False(t, cfg.App.Debug)
}

// ── Get helpers ───────────────────────────────────────────────────────────────

func TestGet(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "value")
	assert.Equal(t, "value", config.Get("CUSTOM_KEY", "fallback"))
	assert.Equal(t, "fallback", config.Get("UNSET_KEY_XYZ", "fallback"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("POOL_SIZE", "42")
	t.Setenv("BAD_INT", "forty")
	assert.Equal(t, 42, config.GetInt("POOL_SIZE", 1))
	assert.Equal(t, 7, config.GetInt("BAD_INT", 7))
	assert.Equal(t, 3, config.GetInt("UNSET_INT_XYZ", 3))
}

func TestGetBool(t *testing.T) {
	t.Setenv("FEATURE_ON", "true")
	assert.True(t, config.GetBool("FEATURE_ON", false))
	assert.True(t, config.GetBool("UNSET_BOOL_XYZ", true))
}
