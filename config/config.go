package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Booking BookingConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Env         string
	LogLevel    string
	CORSOrigins []string
}

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	TimeZone     string
	MaxIdleConns int
	MaxOpenConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Host            string
	Port            string
	Password        string
	DB              int
	PoolSize        int
	DialTimeout     time.Duration
	OpTimeout       time.Duration
	AvailabilityTTL time.Duration
}

type JWTConfig struct {
	Secret string
}

type BookingConfig struct {
	TimeZone       string
	DayStart       string
	DayEnd         string
	SlotInterval   time.Duration
	NoteMaxLength  int
	CompletionSpec string
	RequestTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "hospital_booking")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "hospital_booking")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 20)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_OP_TIMEOUT", "1s")
	v.SetDefault("REDIS_AVAILABILITY_TTL", "5m")

	v.SetDefault("BOOKING_TIMEZONE", "Asia/Jakarta")
	v.SetDefault("BOOKING_DAY_START", "09:00")
	v.SetDefault("BOOKING_DAY_END", "18:00")
	v.SetDefault("BOOKING_SLOT_INTERVAL", "30m")
	v.SetDefault("BOOKING_NOTE_MAX_LENGTH", 500)
	v.SetDefault("BOOKING_COMPLETION_SPEC", "@every 5m")
	v.SetDefault("BOOKING_REQUEST_TIMEOUT", "10s")
}

// LoadConfig reads .env when present and always lets environment variables win.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	config := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			TimeZone:     v.GetString("BOOKING_TIMEZONE"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:            v.GetString("REDIS_HOST"),
			Port:            v.GetString("REDIS_PORT"),
			Password:        v.GetString("REDIS_PASSWORD"),
			DB:              v.GetInt("REDIS_DB"),
			PoolSize:        v.GetInt("REDIS_POOL_SIZE"),
			DialTimeout:     v.GetDuration("REDIS_DIAL_TIMEOUT"),
			OpTimeout:       v.GetDuration("REDIS_OP_TIMEOUT"),
			AvailabilityTTL: v.GetDuration("REDIS_AVAILABILITY_TTL"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		Booking: BookingConfig{
			TimeZone:       v.GetString("BOOKING_TIMEZONE"),
			DayStart:       v.GetString("BOOKING_DAY_START"),
			DayEnd:         v.GetString("BOOKING_DAY_END"),
			SlotInterval:   v.GetDuration("BOOKING_SLOT_INTERVAL"),
			NoteMaxLength:  v.GetInt("BOOKING_NOTE_MAX_LENGTH"),
			CompletionSpec: v.GetString("BOOKING_COMPLETION_SPEC"),
			RequestTimeout: v.GetDuration("BOOKING_REQUEST_TIMEOUT"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Booking.SlotInterval <= 0 {
		return fmt.Errorf("BOOKING_SLOT_INTERVAL must be positive, got %s", c.Booking.SlotInterval)
	}
	if _, err := time.LoadLocation(c.Booking.TimeZone); err != nil {
		return fmt.Errorf("invalid BOOKING_TIMEZONE %q: %w", c.Booking.TimeZone, err)
	}
	return nil
}

// splitList reads a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Location returns the booking time zone. validate guarantees it loads.
func (c BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MigrationURL is the golang-migrate pgx/v5 connection string
func (c DBConfig) MigrationURL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}
