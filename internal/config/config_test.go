package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()
	cfg, err := Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	// Test default values
	if cfg.Services.AuthURL != "http://localhost:8080" {
		t.Errorf("Expected Services.AuthURL to be 'http://localhost:8080', got '%s'", cfg.Services.AuthURL)
	}

	if cfg.Services.RecruitURL != "http://localhost:8084" {
		t.Errorf("Expected Services.RecruitURL to be 'http://localhost:8084', got '%s'", cfg.Services.RecruitURL)
	}

	if cfg.Credentials.Backend != "file" {
		t.Errorf("Expected Credentials.Backend to be 'file', got '%s'", cfg.Credentials.Backend)
	}

	if cfg.HTTP.Timeout.Duration != 15*time.Second {
		t.Errorf("Expected HTTP.Timeout to be 15s, got %v", cfg.HTTP.Timeout.Duration)
	}

	if cfg.HTTP.RateLimit != 0 {
		t.Errorf("Expected HTTP.RateLimit to be disabled by default, got %v", cfg.HTTP.RateLimit)
	}

	if cfg.Redis.Host != "localhost" {
		t.Errorf("Expected Redis.Host to be 'localhost', got '%s'", cfg.Redis.Host)
	}

	if cfg.Watch.PollInterval.Duration != 30*time.Second {
		t.Errorf("Expected Watch.PollInterval to be 30s, got %v", cfg.Watch.PollInterval.Duration)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be 'development', got '%s'", cfg.Env)
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Error("Expected CORS.AllowedOrigins to have at least one value")
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("SERVICES_AUTH_URL", "https://auth.kickoff.example")
	os.Setenv("SERVICES_RECRUIT_URL", "https://recruit.kickoff.example")
	os.Setenv("CREDENTIALS_BACKEND", "redis")
	os.Setenv("HTTP_TIMEOUT", "30s")
	os.Setenv("WATCH_POLL_INTERVAL", "5s")
	os.Setenv("ENV", "production")
	defer func() {
		os.Unsetenv("SERVICES_AUTH_URL")
		os.Unsetenv("SERVICES_RECRUIT_URL")
		os.Unsetenv("CREDENTIALS_BACKEND")
		os.Unsetenv("HTTP_TIMEOUT")
		os.Unsetenv("WATCH_POLL_INTERVAL")
		os.Unsetenv("ENV")
	}()

	ctx := context.Background()
	cfg, err := Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Services.AuthURL != "https://auth.kickoff.example" {
		t.Errorf("Expected Services.AuthURL to be 'https://auth.kickoff.example', got '%s'", cfg.Services.AuthURL)
	}

	if cfg.Services.RecruitURL != "https://recruit.kickoff.example" {
		t.Errorf("Expected Services.RecruitURL to be 'https://recruit.kickoff.example', got '%s'", cfg.Services.RecruitURL)
	}

	if cfg.Credentials.Backend != "redis" {
		t.Errorf("Expected Credentials.Backend to be 'redis', got '%s'", cfg.Credentials.Backend)
	}

	if cfg.HTTP.Timeout.Duration != 30*time.Second {
		t.Errorf("Expected HTTP.Timeout to be 30s, got %v", cfg.HTTP.Timeout.Duration)
	}

	if cfg.Watch.PollInterval.Duration != 5*time.Second {
		t.Errorf("Expected Watch.PollInterval to be 5s, got %v", cfg.Watch.PollInterval.Duration)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be 'production', got '%s'", cfg.Env)
	}
}

func TestLoadWithUnknownBackend(t *testing.T) {
	os.Setenv("CREDENTIALS_BACKEND", "postgres")
	defer os.Unsetenv("CREDENTIALS_BACKEND")

	ctx := context.Background()
	_, err := Load(ctx)
	if err == nil {
		t.Error("Expected error for unknown credentials backend")
	}
}

func TestLoadWithShortSecret(t *testing.T) {
	os.Setenv("CREDENTIALS_SECRET", "short")
	defer os.Unsetenv("CREDENTIALS_SECRET")

	ctx := context.Background()
	_, err := Load(ctx)
	if err == nil {
		t.Error("Expected error when CREDENTIALS_SECRET is too short")
	}
}

func TestRedisAddress(t *testing.T) {
	redis := RedisConfig{
		Host: "localhost",
		Port: "6379",
	}

	addr := redis.Address()
	expected := "localhost:6379"
	if addr != expected {
		t.Errorf("Expected Address to be '%s', got '%s'", expected, addr)
	}
}

func TestCredentialsPath(t *testing.T) {
	c := CredentialsConfig{Path: "/tmp/creds.json"}
	path, err := c.CredentialsPath()
	if err != nil {
		t.Fatalf("Failed to resolve credentials path: %v", err)
	}
	if path != "/tmp/creds.json" {
		t.Errorf("Expected explicit path to win, got '%s'", path)
	}

	c = CredentialsConfig{}
	path, err = c.CredentialsPath()
	if err != nil {
		t.Fatalf("Failed to resolve default credentials path: %v", err)
	}
	if path == "" {
		t.Error("Expected a non-empty default credentials path")
	}
}
