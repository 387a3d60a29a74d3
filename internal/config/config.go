package config

import (
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the prayer-times service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - HTTPPort: The port of the public API server.
// - MonitoringPort: The port of the health and metrics server.
// - ShutdownTimeout: How long the servers get to drain on shutdown.
// - Storage: Which key-value backend persists alarms and prayer times.
// - Geocoder: The reverse geocoding provider used to name the user's location.
// - Aladhan: Prayer-time provider settings.
// - Fallback: The city used when the location is unknown.
// - UIOnly: Record alarm display times without scheduling anything.
// - Database, Redis, MQTT: Connection settings of the optional backends.
type Config struct {
	Env             string
	HTTPPort        int
	MonitoringPort  int
	ShutdownTimeout time.Duration
	Storage         StorageConfig
	Geocoder        GeocoderConfig
	Aladhan         AladhanConfig
	Fallback        FallbackConfig
	UIOnly          bool
	Database        PostgresConfig
	Redis           RedisConfig
	MQTT            MQTTConfig
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend  string // postgres, redis, file or memory
	FilePath string // used by the file backend
}

// GeocoderConfig selects the reverse geocoding provider. An empty type disables it.
type GeocoderConfig struct {
	Type      string
	APIKey    string
	RateLimit int
}

// AladhanConfig configures the prayer-time provider.
type AladhanConfig struct {
	Method    int // calculation method id
	RateLimit int // requests per second, 0 disables limiting
}

// FallbackConfig is the place used for prayer times when no location is known.
type FallbackConfig struct {
	City    string
	Country string
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

// MQTTConfig holds the broker settings. An empty broker disables MQTT delivery.
type MQTTConfig struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	DeviceAlarm bool // deliver alarms to paired devices as native alarms
}

var defaults = map[string]any{
	"MINARET_ENV":              "production",
	"MINARET_HTTP_PORT":        "8000",
	"MINARET_HEALTH_PORT":      "8080",
	"MINARET_SHUTDOWN_TIMEOUT": "10s",
	"MINARET_STORAGE":          "file",
	"MINARET_STATE_FILE":       "minaret-state.json",
	"MINARET_GEOCODER":         "nominatim",
	"MINARET_GEOCODER_RATE":    "10",
	"MINARET_ALADHAN_METHOD":   "2",
	"MINARET_ALADHAN_RATE":     "5",
	"MINARET_DEFAULT_CITY":     "Mecca",
	"MINARET_DEFAULT_COUNTRY":  "Saudi Arabia",
	"MINARET_UI_ONLY":          "false",
	"DB_PORT":                  "5432",
	"REDIS_ADDR":               "localhost:6379",
	"REDIS_DB":                 "0",
	"REDIS_PREFIX":             "minaret:",
	"MQTT_CLIENT_ID":           "minaret",
	"MQTT_TOPIC_PREFIX":        "minaret",
	"MQTT_DEVICE_ALARMS":       "false",
}

// MustLoad reads the configuration from the environment (and a .env file when present).
// It panics when a numeric, boolean or duration value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	shutdown, err := time.ParseDuration(v.GetString("MINARET_SHUTDOWN_TIMEOUT"))
	if err != nil {
		panic("failed to parse shutdown timeout from configuration")
	}

	return &Config{
		Env:             v.GetString("MINARET_ENV"),
		HTTPPort:        mustInt(v, "MINARET_HTTP_PORT", "failed to parse port for api server from configuration"),
		MonitoringPort:  mustInt(v, "MINARET_HEALTH_PORT", "failed to parse port for monitoring server from configuration"),
		ShutdownTimeout: shutdown,
		Storage: StorageConfig{
			Backend:  v.GetString("MINARET_STORAGE"),
			FilePath: v.GetString("MINARET_STATE_FILE"),
		},
		Geocoder: GeocoderConfig{
			Type:      v.GetString("MINARET_GEOCODER"),
			APIKey:    v.GetString("MINARET_GEOCODER_KEY"),
			RateLimit: mustInt(v, "MINARET_GEOCODER_RATE", "failed to parse geocoder rate limit, must be an integer"),
		},
		Aladhan: AladhanConfig{
			Method:    mustInt(v, "MINARET_ALADHAN_METHOD", "failed to parse aladhan method, must be an integer"),
			RateLimit: mustInt(v, "MINARET_ALADHAN_RATE", "failed to parse aladhan rate limit, must be an integer"),
		},
		Fallback: FallbackConfig{
			City:    v.GetString("MINARET_DEFAULT_CITY"),
			Country: v.GetString("MINARET_DEFAULT_COUNTRY"),
		},
		UIOnly: mustBool(v, "MINARET_UI_ONLY", "failed to parse ui-only flag, must be a boolean"),
		Database: PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USERNAME"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Username: v.GetString("REDIS_USERNAME"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       mustInt(v, "REDIS_DB", "failed to parse redis db index, must be an integer"),
			Prefix:   v.GetString("REDIS_PREFIX"),
		},
		MQTT: MQTTConfig{
			Broker:      v.GetString("MQTT_BROKER"),
			ClientID:    v.GetString("MQTT_CLIENT_ID"),
			TopicPrefix: v.GetString("MQTT_TOPIC_PREFIX"),
			DeviceAlarm: mustBool(v, "MQTT_DEVICE_ALARMS", "failed to parse device alarm flag, must be a boolean"),
		},
	}
}

func mustInt(v *viper.Viper, key, message string) int {
	value, err := strconv.Atoi(v.GetString(key))
	if err != nil {
		panic(message)
	}

	return value
}

func mustBool(v *viper.Viper, key, message string) bool {
	value, err := strconv.ParseBool(v.GetString(key))
	if err != nil {
		panic(message)
	}

	return value
}
