package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Services    ServicesConfig    `env:",prefix=SERVICES_"`
	Credentials CredentialsConfig `env:",prefix=CREDENTIALS_"`
	HTTP        HTTPConfig        `env:",prefix=HTTP_"`
	Redis       RedisConfig       `env:",prefix=REDIS_"`
	Watch       WatchConfig       `env:",prefix=WATCH_"`
	CORS        CORSConfig        `env:",prefix=CORS_"`
	Env         string            `env:"ENV,default=development"`
}

// ServicesConfig holds the base URLs of the platform backend services.
type ServicesConfig struct {
	AuthURL         string `env:"AUTH_URL,default=http://localhost:8080"`
	UserURL         string `env:"USER_URL,default=http://localhost:8082"`
	RecruitURL      string `env:"RECRUIT_URL,default=http://localhost:8084"`
	TeamURL         string `env:"TEAM_URL,default=http://localhost:8085"`
	NotificationURL string `env:"NOTIFICATION_URL,default=http://localhost:8086"`
}

// CredentialsConfig selects and configures the persisted credential store.
type CredentialsConfig struct {
	Backend  string `env:"BACKEND,default=file"`
	Path     string `env:"PATH,default="`
	Secret   string `env:"SECRET,default="`
	DeviceID string `env:"DEVICE_ID,default="`
}

type HTTPConfig struct {
	Timeout   Duration `env:"TIMEOUT,default=15s"`
	RateLimit float64  `env:"RATE_LIMIT,default=0"`
	RateBurst int      `env:"RATE_BURST,default=1"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

// WatchConfig configures the long-running watch mode: the local callback and
// metrics server plus the notification poll loop.
type WatchConfig struct {
	Host         string   `env:"HOST,default=127.0.0.1"`
	Port         string   `env:"PORT,default=8090"`
	PollInterval Duration `env:"POLL_INTERVAL,default=30s"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization"`
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Address returns the watch server listen address
func (w WatchConfig) Address() string {
	return fmt.Sprintf("%s:%s", w.Host, w.Port)
}

// CredentialsPath resolves the credential file path, defaulting to
// ~/.kickoff/credentials.json when unset.
func (c CredentialsConfig) CredentialsPath() (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".kickoff", "credentials.json"), nil
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	switch config.Credentials.Backend {
	case "file", "redis":
	default:
		return nil, fmt.Errorf("unknown credentials backend %q", config.Credentials.Backend)
	}

	// A short secret gives a false sense of at-rest protection
	if s := config.Credentials.Secret; s != "" && len(s) < 16 {
		return nil, fmt.Errorf("CREDENTIALS_SECRET must be at least 16 characters long")
	}

	return &config, nil
}

// LoadWithDefaults loads configuration with default context
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}
