package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Addr           string
	LogLevel       string
	LogFormat      string
	QuizURL        string
	TriviaCSV      string
	TuningFile     string
	AssetURLs      []string
	SessionIdle    time.Duration
	PreloadTimeout time.Duration
	Tuning         Tuning
}

// InitConfig loads a .env file into the process environment. A missing file
// is fine; the defaults and real environment still apply.
func InitConfig() {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("[InitConfig] no .env file, using process environment")
			return
		}
		log.Warnf("[InitConfig] failed to load .env: %v", err)
		return
	}

	log.Info("[InitConfig] successfully loaded environment variables")
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil
}

func envOr(key, def string) string {
	if v, err := GetEnvVariable(key); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v, err := GetEnvVariable(key)
	if err != nil {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	v, err := GetEnvVariable(key)
	if err != nil {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

// Load reads the server configuration from the environment, applying the
// tuning file and per-variable overrides on top of DefaultTuning.
func Load() (Config, error) {
	cfg := Config{
		Addr:       envOr("STOPGO_ADDR", ":8080"),
		LogLevel:   envOr("STOPGO_LOG_LEVEL", "info"),
		LogFormat:  envOr("STOPGO_LOG_FORMAT", "text"),
		QuizURL:    envOr("STOPGO_QUIZ_URL", ""),
		TriviaCSV:  envOr("STOPGO_TRIVIA_CSV", ""),
		TuningFile: envOr("STOPGO_TUNING_FILE", ""),
	}

	if raw := envOr("STOPGO_ASSET_URLS", ""); raw != "" {
		for _, u := range strings.Split(raw, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.AssetURLs = append(cfg.AssetURLs, u)
			}
		}
	}

	var err error
	if cfg.SessionIdle, err = envDuration("STOPGO_SESSION_IDLE", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.PreloadTimeout, err = envDuration("STOPGO_PRELOAD_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}

	cfg.Tuning = DefaultTuning()
	if cfg.TuningFile != "" {
		if cfg.Tuning, err = LoadTuning(cfg.TuningFile); err != nil {
			return Config{}, err
		}
	}
	if cfg.Tuning.MaxRounds, err = envInt("STOPGO_MAX_ROUNDS", cfg.Tuning.MaxRounds); err != nil {
		return Config{}, err
	}
	if cfg.Tuning.RoundDuration, err = envDuration("STOPGO_ROUND_DURATION", cfg.Tuning.RoundDuration); err != nil {
		return Config{}, err
	}
	if err := cfg.Tuning.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
