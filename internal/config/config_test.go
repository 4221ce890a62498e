package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("META_VERSION", "v20.0")
	t.Setenv("META_BALANCE_SYNC_INTERVAL", "10m")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, time.UTC.String(), cfg.Location.String())
	assert.Equal(t, "https://graph.facebook.com/v20.0", cfg.Meta.URL)
	assert.Equal(t, 10*time.Minute, cfg.MetaBalanceSync.Interval)
	assert.Equal(t, 3, cfg.MetaBalanceSync.MaxConcurrentJobs)
	assert.Equal(t, "BRL", cfg.App.DefaultCurrency)
	assert.Equal(t, "primary", cfg.Google.CalendarID)
	assert.Equal(t, "1 0 * * *", cfg.DailySettlement.CronSchedule)
	assert.True(t, cfg.DailySettlement.Enabled)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:4001", "https://traffic-budget-web.vercel.app"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Google.IsConfigured())
	assert.False(t, cfg.Meta.HasAppCredentials())
}

func TestNewConfig_InvalidTimezone(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Marte/Olimpo")

	cfg, err := NewConfig()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}
