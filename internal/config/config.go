package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Storage struct {
		Backend string `yaml:"backend"` // memory, file, redis or postgres
		DataDir string `yaml:"dataDir"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Key      string `yaml:"key"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Client struct {
		APIURL         string `yaml:"apiUrl"`
		PollInterval   string `yaml:"pollInterval"`
		Freshness      string `yaml:"freshness"`
		RequestTimeout string `yaml:"requestTimeout"`
		CachePath      string `yaml:"cachePath"`
	} `yaml:"client"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "3001"
	cfg.Storage.Backend = "file"
	cfg.Storage.DataDir = "."
	cfg.Client.APIURL = "http://localhost:3001/api"
	cfg.Client.PollInterval = "1s"
	cfg.Client.Freshness = "500ms"
	cfg.Client.RequestTimeout = "5s"
	cfg.Client.CachePath = "evalmate-cache.db"
	cfg.Log.Level = "info"
	return cfg
}

// Load reads .env (if present), then YAML config from path over the defaults,
// then applies environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	for env, dst := range map[string]*string{
		"PORT":               &cfg.Server.Port,
		"DATA_DIR":           &cfg.Storage.DataDir,
		"EVALMATE_STORAGE":   &cfg.Storage.Backend,
		"REDIS_ADDR":         &cfg.Redis.Addr,
		"DATABASE_URL":       &cfg.Postgres.URL,
		"EVALMATE_API_URL":   &cfg.Client.APIURL,
		"EVALMATE_CACHE":     &cfg.Client.CachePath,
		"EVALMATE_LOG_LEVEL": &cfg.Log.Level,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
