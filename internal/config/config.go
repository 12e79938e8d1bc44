package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Provider   ProviderConfig   `yaml:"provider"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Redis      RedisConfig      `yaml:"redis"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

// ProviderConfig holds the fallback model-backed provider settings, used when
// no provider row is configured in the database.
type ProviderConfig struct {
	Kind       string        `yaml:"kind"` // heuristic, openai, azure, anthropic, ollama, gemini
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Model      string        `yaml:"model"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// EnrichmentConfig controls batch passes and the background schedulers.
type EnrichmentConfig struct {
	BatchSize       int    `yaml:"batch_size"`
	SweepCron       string `yaml:"sweep_cron"`       // enrichment sweep schedule
	RecomputeCron   string `yaml:"recompute_cron"`   // trust score recompute schedule
	ExtraStopWords  string `yaml:"extra_stop_words"` // comma-separated place-name noise for the extractor
	TrustedImageTag string `yaml:"trusted_image_tag"`
}

// RedisConfig for optional async task queue
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		fileCfg := *DefaultConfig()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "trustengine.db",
		},
		JWT: JWTConfig{
			Secret:     "trustengine-secret-key-change-in-production",
			ExpireHour: 24,
		},
		Provider: ProviderConfig{
			Kind:       "heuristic",
			Model:      "rules-v1",
			Timeout:    12 * time.Second,
			MaxRetries: 1,
		},
		Enrichment: EnrichmentConfig{
			BatchSize:       500,
			SweepCron:       "*/30 * * * *",
			RecomputeCron:   "0 * * * *",
			TrustedImageTag: "directory-listing",
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			DB:      0,
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if kind := os.Getenv("PROVIDER_KIND"); kind != "" {
		c.Provider.Kind = kind
	}
	if baseURL := os.Getenv("PROVIDER_BASE_URL"); baseURL != "" {
		c.Provider.BaseURL = baseURL
	}
	if apiKey := os.Getenv("PROVIDER_API_KEY"); apiKey != "" {
		c.Provider.APIKey = apiKey
	}
	if model := os.Getenv("PROVIDER_MODEL"); model != "" {
		c.Provider.Model = model
	}
	if timeout := os.Getenv("PROVIDER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			c.Provider.Timeout = d
		}
	}
	if batch := os.Getenv("ENRICHMENT_BATCH_SIZE"); batch != "" {
		if n, err := strconv.Atoi(batch); err == nil && n > 0 {
			c.Enrichment.BatchSize = n
		}
	}
	// Redis URL override (format: redis://:password@host:port/db)
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.Enabled = true
		c.parseRedisURL(redisURL)
	}
}

// parseRedisURL parses a Redis URL and sets config values
// Format: redis://:password@host:port/db
func (c *Config) parseRedisURL(redisURL string) {
	url := strings.TrimPrefix(redisURL, "redis://")

	if atIdx := strings.Index(url, "@"); atIdx != -1 {
		authPart := url[:atIdx]
		url = url[atIdx+1:]
		if colonIdx := strings.Index(authPart, ":"); colonIdx != -1 {
			c.Redis.Password = authPart[colonIdx+1:]
		}
	}

	if slashIdx := strings.LastIndex(url, "/"); slashIdx != -1 {
		dbStr := url[slashIdx+1:]
		url = url[:slashIdx]
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.Redis.DB = db
		}
	}

	c.Redis.Addr = url
}

// ExtraStopWordList returns the configured place-name noise words as a slice.
func (c *EnrichmentConfig) ExtraStopWordList() []string {
	if c.ExtraStopWords == "" {
		return nil
	}
	var words []string
	for _, w := range strings.Split(c.ExtraStopWords, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
