package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", s.Environment)
	assert.Equal(t, "0.0.0.0:8000", s.Addr())
	assert.Equal(t, "immanuel-astrology", s.ServerName)
	assert.Equal(t, "2024-11-05", s.ProtocolVersion)
	assert.Equal(t, "placidus", s.DefaultHouseSystem)
	assert.Equal(t, 100, s.RateLimitRequests)
	assert.Equal(t, time.Minute, s.RateWindow())
	assert.True(t, s.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "10")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", s.Addr())
	assert.False(t, s.IsDevelopment())
	assert.Equal(t, 5, s.RateLimitRequests)
	assert.Equal(t, 10*time.Second, s.RateWindow())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, s.CORSOriginList())
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("PORT", "70000")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")

	t.Setenv("PORT", "8000")
	t.Setenv("RATE_LIMIT_REQUESTS", "0")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_REQUESTS")
}
