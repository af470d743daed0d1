package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Load_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "8080", cfg.ApiServer.Port)
	require.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiration)
	require.Equal(t, "journey-events", cfg.Kafka.Topic)
	require.Equal(t, 5, cfg.Journey.BonusMissionMinLevel)
	require.Equal(t, 50, cfg.Journey.StandardMissionReward)
	require.Equal(t, 100, cfg.Journey.BonusMissionReward)
	require.Equal(t, 5*time.Minute, cfg.Journey.DashboardCacheTTL)
	require.Equal(t, "gpt-4o-mini", cfg.AI.Model)
}

func Test_Load_EnvOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_SECRET", "override-secret")
	t.Setenv("CLINICAL_ENDPOINT", "https://clinical.example.com")
	t.Setenv("AI_MODEL", "gpt-4o")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "9000", cfg.ApiServer.Port)
	require.Equal(t, "override-secret", cfg.Auth.TokenSecret)
	require.Equal(t, "https://clinical.example.com", cfg.Clinical.Endpoint)
	require.Equal(t, "gpt-4o", cfg.AI.Model)
}

func Test_Load_MissingFileIsNotAnError(t *testing.T) {
	_, err := Load("does-not-exist.toml")
	require.NoError(t, err)
}
