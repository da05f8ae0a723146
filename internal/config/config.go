// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

// Settings contains every tunable of the server. Values are decoded from the
// environment; each field carries a default so an empty environment yields a
// runnable development configuration.
type Settings struct {
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=INFO"`

	Host string `env:"HOST,default=0.0.0.0"`
	Port int    `env:"PORT,default=8000"`

	// Token, when set, requires "Authorization: Bearer <Token>" on /mcp routes.
	Token string `env:"MCP_TOKEN,default="`

	ServerName      string `env:"MCP_SERVER_NAME,default=immanuel-astrology"`
	ServerVersion   string `env:"MCP_SERVER_VERSION,default=1.0.0"`
	ProtocolVersion string `env:"MCP_PROTOCOL_VERSION,default=2024-11-05"`

	DefaultHouseSystem string `env:"DEFAULT_HOUSE_SYSTEM,default=placidus"`

	RateLimitRequests int `env:"RATE_LIMIT_REQUESTS,default=100"`
	RateLimitWindow   int `env:"RATE_LIMIT_WINDOW,default=60"`

	// CORSOrigins is a comma-separated allowlist. The default covers local
	// development; production deployments set it explicitly.
	CORSOrigins          string `env:"CORS_ORIGINS,default=http://localhost:3000"`
	CORSAllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS,default=true"`
}

// Load decodes Settings from the environment and validates them.
func Load() (Settings, error) {
	var s Settings
	if err := envdecode.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", s.Port)
	}
	if s.RateLimitRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive: %d", s.RateLimitRequests)
	}
	if s.RateLimitWindow < 1 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive: %d", s.RateLimitWindow)
	}
	return nil
}

// Addr returns the host:port listen address.
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RateWindow returns the rate-limit window as a duration.
func (s Settings) RateWindow() time.Duration {
	return time.Duration(s.RateLimitWindow) * time.Second
}

// CORSOriginList splits CORS_ORIGINS on commas, trimming whitespace.
func (s Settings) CORSOriginList() []string {
	parts := strings.Split(s.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsDevelopment reports whether the server runs in development mode.
func (s Settings) IsDevelopment() bool {
	return strings.EqualFold(s.Environment, "development")
}
