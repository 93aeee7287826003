package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "secret")
	t.Setenv("RESEND_FROM", "shop@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, StorageCSV, cfg.Storage.Driver)
	assert.Equal(t, 30*time.Second, cfg.Contact.Window)
	assert.Equal(t, 10*time.Second, cfg.Email.Timeout)
	assert.Equal(t, "INR", cfg.Razorpay.Currency)
	assert.Equal(t, "shop@example.com", cfg.Email.BusinessEmail)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.False(t, cfg.Email.EmailEnabled())
	assert.False(t, cfg.Server.TrustForwardedHeaders)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "ADMIN_JWT_SECRET")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := Load()
	assert.ErrorContains(t, err, "STORAGE_DRIVER")
}
