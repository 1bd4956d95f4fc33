package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the process configuration of an application built around a container.
type Config struct {
	App       AppConfig
	Container ContainerConfig
	Log       LogConfig
	Inspect   InspectConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
}

type ContainerConfig struct {
	// File is the definitions/aliases/values file applied at startup.
	File string
	// Discovery enables struct-tag discovery for registered classes.
	Discovery bool
}

type LogConfig struct {
	Level string // debug | info | warn | error
	JSON  bool
}

type InspectConfig struct {
	Enabled bool
	Addr    string
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	appEnv := env("APP_ENV", "local")
	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "go-di"),
			Env:   appEnv,
			Debug: envBool("APP_DEBUG", appEnv == "local"),
		},
		Container: ContainerConfig{
			File:      env("DI_CONFIG", "di.yaml"),
			Discovery: envBool("DI_DISCOVERY", true),
		},
		Log: LogConfig{
			Level: env("LOG_LEVEL", "info"),
			JSON:  envBool("LOG_JSON", appEnv == "production"),
		},
		Inspect: InspectConfig{
			Enabled: envBool("INSPECT_ENABLED", false),
			Addr:    env("INSPECT_ADDR", ":8000"),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
