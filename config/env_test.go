package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 15*time.Minute, cfg.ListCacheTTL)
	assert.Equal(t, 60, cfg.ThrottleBurst)
	assert.Equal(t, 1000, cfg.ThrottleSustained)
	assert.False(t, cfg.ThrottleEnabled)
	assert.False(t, cfg.MailEnabled())
	assert.False(t, cfg.SMSEnabled())
}

func TestLoad_ThrottleFollowsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	t.Setenv("GO_ENV", "production")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.ThrottleEnabled)

	t.Setenv("THROTTLE_ENABLED", "false")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.ThrottleEnabled)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := Load()
	assert.Error(t, err)
}

func TestChannelsEnabled(t *testing.T) {
	cfg := Config{SMTPAddr: "smtp:25", TwilioAccountSID: "AC", TwilioAuthToken: "t", TwilioPhoneNumber: "+1"}
	assert.True(t, cfg.MailEnabled())
	assert.True(t, cfg.SMSEnabled())
	assert.Equal(t, ":9000", Config{Port: ":9000"}.Addr())
}
