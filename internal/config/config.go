package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"huddle/internal/platform/logging"
)

// Config stores runtime configuration for the viewer.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string

	ESPNSiteAPIBaseURL string
	ESPNCoreAPIBaseURL string
	ESPNTimeout        time.Duration
	RosterPageLimit    int
	RosterWorkers      int
	CollegeWorkers     int

	UpdateBuffer int

	PprofEnabled bool
	PprofAddr    string

	LogLevel logging.Level
}

func Load() (Config, error) {
	// A local .env is a convenience for development; the environment wins.
	_ = godotenv.Load()

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	espnTimeout, err := time.ParseDuration(getEnv("ESPN_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_TIMEOUT: %w", err)
	}
	if espnTimeout <= 0 {
		return Config{}, fmt.Errorf("ESPN_TIMEOUT must be > 0")
	}

	rosterPageLimit, err := getEnvAsInt("ESPN_ROSTER_PAGE_LIMIT", 200)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_ROSTER_PAGE_LIMIT: %w", err)
	}
	if rosterPageLimit < 1 {
		return Config{}, fmt.Errorf("ESPN_ROSTER_PAGE_LIMIT must be >= 1")
	}

	rosterWorkers, err := getEnvAsInt("ESPN_ROSTER_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_ROSTER_WORKERS: %w", err)
	}
	if rosterWorkers < 1 {
		return Config{}, fmt.Errorf("ESPN_ROSTER_WORKERS must be >= 1")
	}

	collegeWorkers, err := getEnvAsInt("ESPN_COLLEGE_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_COLLEGE_WORKERS: %w", err)
	}
	if collegeWorkers < 1 {
		return Config{}, fmt.Errorf("ESPN_COLLEGE_WORKERS must be >= 1")
	}

	updateBuffer, err := getEnvAsInt("APP_UPDATE_BUFFER", 16)
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_UPDATE_BUFFER: %w", err)
	}
	if updateBuffer < 1 {
		return Config{}, fmt.Errorf("APP_UPDATE_BUFFER must be >= 1")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	return Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "huddle"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		ESPNSiteAPIBaseURL: strings.TrimSpace(getEnv("ESPN_SITE_API_BASE_URL", "")),
		ESPNCoreAPIBaseURL: strings.TrimSpace(getEnv("ESPN_CORE_API_BASE_URL", "")),
		ESPNTimeout:        espnTimeout,
		RosterPageLimit:    rosterPageLimit,
		RosterWorkers:      rosterWorkers,
		CollegeWorkers:     collegeWorkers,
		UpdateBuffer:       updateBuffer,
		PprofEnabled:       pprofEnabled,
		PprofAddr:          pprofAddr,
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
