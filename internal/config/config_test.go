package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "REDIS_ADDR", "DATABASE_URL", "TOKEN_TTL", "NUM_PLAYERS", "MAX_ROUNDS", "CHECK_CONSERVATION"} {
		t.Setenv(k, "")
	}
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, uint8(4), cfg.HouseRules.NumPlayers)
	assert.Equal(t, uint8(3), cfg.HouseRules.MaxRounds)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.False(t, cfg.CheckConservation)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("NUM_PLAYERS", "2")
	t.Setenv("MAX_ROUNDS", "5")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("CHECK_CONSERVATION", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, uint8(2), cfg.HouseRules.NumPlayers)
	assert.Equal(t, uint8(5), cfg.HouseRules.MaxRounds)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.True(t, cfg.CheckConservation)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"NUM_PLAYERS":        "9",
		"MAX_ROUNDS":         "many",
		"TOKEN_TTL":          "soon",
		"CHECK_CONSERVATION": "maybe",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestConfigureLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.GetLevel())

	cfg := Config{LogLevel: "debug", LogFormat: "json"}
	require.NoError(t, cfg.ConfigureLogging())
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	assert.Error(t, Config{LogLevel: "loud"}.ConfigureLogging())
	assert.Error(t, Config{LogLevel: "info", LogFormat: "xml"}.ConfigureLogging())
}
