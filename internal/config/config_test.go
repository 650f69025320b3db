package config

import (
	"strings"
	"testing"
	"time"
)

// envMap returns a lookup function backed by m.
func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		List:    ListConfig{PageSize: 10, SeedCount: 50, SeedDelay: time.Second},
		Session: SessionConfig{TTL: time.Minute, CleanupInterval: time.Minute, NotificationBuffer: 20, CookieName: "s"},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100, Burst: 10, SessionCreateLimit: 5},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(envMap(nil))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.List.PageSize != 10 {
		t.Errorf("List.PageSize = %d, want %d", cfg.List.PageSize, 10)
	}
	if cfg.List.SeedCount != 50 {
		t.Errorf("List.SeedCount = %d, want %d", cfg.List.SeedCount, 50)
	}
	if cfg.List.SeedDelay != time.Second {
		t.Errorf("List.SeedDelay = %v, want %v", cfg.List.SeedDelay, time.Second)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("Session.TTL = %v, want %v", cfg.Session.TTL, 30*time.Minute)
	}
	if cfg.Session.NotificationBuffer != 20 {
		t.Errorf("Session.NotificationBuffer = %d, want %d", cfg.Session.NotificationBuffer, 20)
	}
	if !cfg.Rate.Enabled {
		t.Error("Rate.Enabled = false, want true")
	}
	if cfg.Security.TrustedProxies != nil {
		t.Errorf("Security.TrustedProxies = %v, want nil", cfg.Security.TrustedProxies)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	cfg, err := LoadFrom(envMap(map[string]string{
		"SERVER_PORT":     "9090",
		"LIST_PAGE_SIZE":  "25",
		"LIST_SEED_DELAY": "250ms",
		"LOG_LEVEL":       "debug",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.List.PageSize != 25 {
		t.Errorf("List.PageSize = %d, want %d", cfg.List.PageSize, 25)
	}
	if cfg.List.SeedDelay != 250*time.Millisecond {
		t.Errorf("List.SeedDelay = %v, want %v", cfg.List.SeedDelay, 250*time.Millisecond)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Session.TTL != time.Hour {
		t.Errorf("Session.TTL = %v, want %v", cfg.Session.TTL, time.Hour)
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	cfg, err := LoadFrom(envMap(map[string]string{"PORT": "3000"}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 3000)
	}

	cfg, err = LoadFrom(envMap(map[string]string{"PORT": "3000", "SERVER_PORT": "4000"}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want primary variable %d", cfg.Server.Port, 4000)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"integer", map[string]string{"LIST_PAGE_SIZE": "ten"}, "LIST_PAGE_SIZE"},
		{"duration", map[string]string{"LIST_SEED_DELAY": "soon"}, "LIST_SEED_DELAY"},
		{"boolean", map[string]string{"RATE_LIMIT_ENABLED": "maybe"}, "RATE_LIMIT_ENABLED"},
		{"validation", map[string]string{"LIST_PAGE_SIZE": "0"}, "LIST_PAGE_SIZE must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(envMap(tt.env))
			if err == nil {
				t.Fatal("LoadFrom() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %s: %v", tt.want, err)
			}
		})
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	cfg, err := LoadFrom(envMap(map[string]string{
		"TRUSTED_PROXIES": "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies length = %d, want %d", len(cfg.Security.TrustedProxies), len(expected))
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"zero page size", func(c *Config) { c.List.PageSize = 0 }, "LIST_PAGE_SIZE"},
		{"negative seed delay", func(c *Config) { c.List.SeedDelay = -time.Second }, "LIST_SEED_DELAY"},
		{"zero notification buffer", func(c *Config) { c.Session.NotificationBuffer = 0 }, "SESSION_NOTIFICATION_BUFFER"},
		{"zero burst", func(c *Config) { c.Rate.Burst = 0 }, "RATE_LIMIT_BURST"},
		{"api key required without keys", func(c *Config) { c.Security.RequireAPIKey = true }, "API_KEYS"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() on valid config error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() expected error for %s", tt.name)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %s: %v", tt.want, err)
			}
		})
	}
}

func TestValidate_RateLimitDisabled(t *testing.T) {
	cfg := validConfig()
	cfg.Rate = RateLimitConfig{Enabled: false}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with rate limiting disabled error = %v", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString_MasksAPIKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Security.APIKeys = []string{"secret-key-1", "secret-key-2"}

	str := cfg.String()
	if strings.Contains(str, "secret") {
		t.Error("String() should mask API keys")
	}
	if !strings.Contains(str, "2 MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}

func TestServiceConfig(t *testing.T) {
	cfg := validConfig()
	sc := cfg.ServiceConfig()

	if sc.PageSize != cfg.List.PageSize || sc.SeedCount != cfg.List.SeedCount || sc.SeedDelay != cfg.List.SeedDelay {
		t.Errorf("ServiceConfig() list settings = %+v", sc)
	}
	if sc.SessionTTL != cfg.Session.TTL || sc.NotificationBuffer != cfg.Session.NotificationBuffer {
		t.Errorf("ServiceConfig() session settings = %+v", sc)
	}
}
