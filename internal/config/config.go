package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"careerhub-utils/internal/logging/types"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		Host            string        `yaml:"host"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		IdleTimeout     time.Duration `yaml:"idle_timeout"`
		RequestTimeout  time.Duration `yaml:"request_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		AllowOrigins    []string      `yaml:"allow_origins"`
	} `yaml:"server"`

	// Backend is the platform REST API that owns saved jobs and matches
	Backend struct {
		BaseURL   string        `yaml:"base_url"`
		Timeout   time.Duration `yaml:"timeout"`
		RateLimit float64       `yaml:"rate_limit"` // requests per second, 0 disables
		Burst     int           `yaml:"burst"`
		UserAgent string        `yaml:"user_agent"`
	} `yaml:"backend"`

	SignedURL struct {
		Source        string        `yaml:"source"` // backend or s3
		Bucket        string        `yaml:"bucket"`
		TTL           time.Duration `yaml:"ttl"`
		CacheBackend  string        `yaml:"cache_backend"` // memory or redis
		KeyPrefix     string        `yaml:"key_prefix"`
		MaxConcurrent int           `yaml:"max_concurrent"`
	} `yaml:"signed_url"`

	// Storage is used when SignedURL.Source is s3
	Storage struct {
		Endpoint        string `yaml:"endpoint"`
		Region          string `yaml:"region"`
		AccessKeyID     string `yaml:"access_key_id"`
		AccessKeySecret string `yaml:"access_key_secret"`
		ForcePathStyle  bool   `yaml:"force_path_style"`
	} `yaml:"storage"`

	Pipeline struct {
		PageSize               int           `yaml:"page_size"`
		ClosingSoonWindow      time.Duration `yaml:"closing_soon_window"`
		DefaultMatchPercentage int           `yaml:"default_match_percentage"`
		Locale                 string        `yaml:"locale"`
	} `yaml:"pipeline"`

	Sidebar struct {
		Limit int `yaml:"limit"`
	} `yaml:"sidebar"`

	Sessions struct {
		IdleTTL time.Duration `yaml:"idle_ttl"`
	} `yaml:"sessions"`

	Janitor struct {
		Enabled  bool   `yaml:"enabled"`
		Schedule string `yaml:"schedule"`
	} `yaml:"janitor"`

	Logging struct {
		Level    string                `yaml:"level"`
		Format   string                `yaml:"format"`
		Adapters []types.AdapterConfig `yaml:"adapters"`
	} `yaml:"logging"`

	Redis struct {
		URL      string        `yaml:"url"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"redis"`
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareEnvVar   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands ${VAR} and $VAR, leaving unknown variables untouched
func expandEnvVars(s string) string {
	lookup := func(name, original string) string {
		if val := os.Getenv(name); val != "" {
			return val
		}
		return original
	}
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(m string) string {
		return lookup(m[2:len(m)-1], m)
	})
	return bareEnvVar.ReplaceAllStringFunc(s, func(m string) string {
		return lookup(m[1:], m)
	})
}

// Default returns a Config populated with defaults only
func Default() *Config {
	c := &Config{}

	c.Server.Port = 8080
	c.Server.Host = "0.0.0.0"
	c.Server.ReadTimeout = 30 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.IdleTimeout = 60 * time.Second
	c.Server.RequestTimeout = 30 * time.Second
	c.Server.ShutdownTimeout = 30 * time.Second
	c.Server.AllowOrigins = []string{"*"}

	c.Backend.BaseURL = "http://localhost:3000/api"
	c.Backend.Timeout = 10 * time.Second
	c.Backend.RateLimit = 20
	c.Backend.Burst = 40
	c.Backend.UserAgent = "careerhub-utils/1.0"

	c.SignedURL.Source = "backend"
	c.SignedURL.Bucket = "company-logos"
	c.SignedURL.TTL = 55 * time.Minute
	c.SignedURL.CacheBackend = "memory"
	c.SignedURL.KeyPrefix = "companyLogoUrl:"
	c.SignedURL.MaxConcurrent = 5

	c.Storage.Region = "us-east-1"

	c.Pipeline.PageSize = 5
	c.Pipeline.ClosingSoonWindow = 72 * time.Hour
	c.Pipeline.DefaultMatchPercentage = 85
	c.Pipeline.Locale = "en"

	c.Sidebar.Limit = 3

	c.Sessions.IdleTTL = 30 * time.Minute

	c.Janitor.Enabled = true
	c.Janitor.Schedule = "@every 5m"

	c.Logging.Level = "info"
	c.Logging.Format = "json"

	c.Redis.URL = "redis://localhost:6379"
	c.Redis.Timeout = 5 * time.Second

	return c
}

// LoadConfig loads configuration from defaults, then the YAML file at
// configPath (if present), then environment variables.
func LoadConfig(configPath string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), config); err != nil {
				return nil, fmt.Errorf("parse %s: %w", configPath, err)
			}
		}
	}

	if err := config.loadFromEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// loadFromEnv overrides fields from environment variables. Malformed
// numeric or duration values are reported rather than ignored.
func (c *Config) loadFromEnv() error {
	var errs []string

	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s must be an integer, got %q", key, v))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s must be a duration, got %q", key, v))
				return
			}
			*dst = d
		}
	}
	flag := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			*dst = v == "true" || v == "1"
		}
	}

	num("PORT", &c.Server.Port)
	str("HOST", &c.Server.Host)
	dur("REQUEST_TIMEOUT", &c.Server.RequestTimeout)
	if origins := os.Getenv("ALLOW_ORIGINS"); origins != "" {
		c.Server.AllowOrigins = strings.Split(origins, ",")
	}

	str("BACKEND_BASE_URL", &c.Backend.BaseURL)
	dur("BACKEND_TIMEOUT", &c.Backend.Timeout)
	if v := os.Getenv("BACKEND_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("BACKEND_RATE_LIMIT must be a number, got %q", v))
		} else {
			c.Backend.RateLimit = f
		}
	}

	str("SIGNED_URL_SOURCE", &c.SignedURL.Source)
	str("SIGNED_URL_BUCKET", &c.SignedURL.Bucket)
	dur("SIGNED_URL_TTL", &c.SignedURL.TTL)
	str("CACHE_BACKEND", &c.SignedURL.CacheBackend)

	str("BUCKET_ENDPOINT", &c.Storage.Endpoint)
	str("BUCKET_REGION", &c.Storage.Region)
	str("BUCKET_ACCESS_KEY_ID", &c.Storage.AccessKeyID)
	str("BUCKET_ACCESS_KEY_SECRET", &c.Storage.AccessKeySecret)

	num("PAGE_SIZE", &c.Pipeline.PageSize)
	dur("SESSION_IDLE_TTL", &c.Sessions.IdleTTL)
	str("JANITOR_SCHEDULE", &c.Janitor.Schedule)
	flag("JANITOR_ENABLED", &c.Janitor.Enabled)

	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)

	str("REDIS_URL", &c.Redis.URL)
	str("REDIS_PASSWORD", &c.Redis.Password)
	num("REDIS_DB", &c.Redis.DB)
	dur("REDIS_TIMEOUT", &c.Redis.Timeout)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Pipeline.PageSize < 1 {
		return fmt.Errorf("pipeline.page_size must be positive, got %d", c.Pipeline.PageSize)
	}
	if c.Sidebar.Limit < 1 {
		return fmt.Errorf("sidebar.limit must be positive, got %d", c.Sidebar.Limit)
	}
	if c.SignedURL.TTL <= 0 {
		return fmt.Errorf("signed_url.ttl must be positive")
	}

	switch c.SignedURL.Source {
	case "backend":
	case "s3":
		if c.Storage.AccessKeyID == "" || c.Storage.AccessKeySecret == "" {
			return fmt.Errorf("storage credentials are required when signed_url.source is s3")
		}
	default:
		return fmt.Errorf("signed_url.source must be backend or s3, got %q", c.SignedURL.Source)
	}

	switch c.SignedURL.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("signed_url.cache_backend must be memory or redis, got %q", c.SignedURL.CacheBackend)
	}
	return nil
}

// Address returns host:port for the listener
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
