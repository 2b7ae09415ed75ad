package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(overrides map[string]interface{}) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for key, value := range overrides {
		v.Set(key, value)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]interface{}{"JWT_SECRET": "secret"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins)
	assert.Equal(t, "09:00", cfg.Booking.DayStart)
	assert.Equal(t, "18:00", cfg.Booking.DayEnd)
	assert.Equal(t, 30*time.Minute, cfg.Booking.SlotInterval)
	assert.Equal(t, 500, cfg.Booking.NoteMaxLength)
	assert.Equal(t, 5*time.Minute, cfg.Redis.AvailabilityTTL)
	assert.Equal(t, 20, cfg.Redis.PoolSize)
	assert.Equal(t, time.Second, cfg.Redis.OpTimeout)
	assert.Equal(t, "Asia/Jakarta", cfg.DB.TimeZone)
	assert.Equal(t, "Asia/Jakarta", cfg.Booking.Location().String())
}

func TestFromViper_RequiresSecret(t *testing.T) {
	_, err := fromViper(newTestViper(nil))
	assert.Error(t, err)
}

func TestFromViper_RejectsBadTimeZone(t *testing.T) {
	_, err := fromViper(newTestViper(map[string]interface{}{
		"JWT_SECRET":       "secret",
		"BOOKING_TIMEZONE": "Mars/Olympus_Mons",
	}))
	assert.Error(t, err)
}

func TestDBConfig_MigrationURL(t *testing.T) {
	cfg := DBConfig{User: "app", Password: "pw", Host: "db", Port: "5432", Name: "booking", SSLMode: "disable"}
	assert.Equal(t, "pgx5://app:pw@db:5432/booking?sslmode=disable", cfg.MigrationURL())
}

func TestFromViper_CORSOrigins(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]interface{}{
		"JWT_SECRET":           "secret",
		"CORS_ALLOWED_ORIGINS": " https://app.example.com, ,https://admin.example.com ",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.App.CORSOrigins)
}
