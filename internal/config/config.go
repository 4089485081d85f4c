package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid configuration")
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env      string   `mapstructure:"env"`      // current application environment (local, dev, production etc)
	Timezone string   `mapstructure:"timezone"` // location alarm times are interpreted in
	DB       DB       `mapstructure:"database"` // database configuration section
	Telegram Telegram `mapstructure:"telegram"` // chat bot section
	HTTP     HTTP     `mapstructure:"http"`     // REST API section
	Ring     Ring     `mapstructure:"ring"`     // ringing behaviour
	Words    Words    `mapstructure:"words"`
	Sounds   Sounds   `mapstructure:"sounds"`
	Weights  Weights  `mapstructure:"weights"`
}

// DB contains database-related configuration parameters.
type DB struct {
	Driver          string        `mapstructure:"driver"`            // postgres or sqlite
	URL             string        `mapstructure:"-"`                 // postgres connection string loaded from environment
	SQLitePath      string        `mapstructure:"sqlite_path"`       // database file for the sqlite driver
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.Driver == DriverSQLite {
		return db.SQLitePath, nil
	}
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

type Telegram struct {
	Enabled     bool   `mapstructure:"enabled"`
	APIToken    string `mapstructure:"-"`             // loaded from environment
	OwnerChatID int64  `mapstructure:"owner_chat_id"` // the only chat allowed to talk to the bot
	Debug       bool   `mapstructure:"debug"`
}

type HTTP struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	Timeout time.Duration `mapstructure:"timeout"` // per request deadline
	CORS    CORS          `mapstructure:"cors"`
}

type CORS struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Ring struct {
	RepeatInterval time.Duration `mapstructure:"repeat_interval"` // how often a ringing alarm is repeated
	Timeout        time.Duration `mapstructure:"timeout"`         // 0 rings until solved or stopped
}

type Words struct {
	SeedPath string `mapstructure:"seed_path"` // JSON word list used for the default deck
}

type Sounds struct {
	Dir string `mapstructure:"dir"`
}

type Weights struct {
	QueueSize int `mapstructure:"queue_size"` // pending weight updates before new ones are dropped
}

// Load reads configuration from ./config and environment variables.
func Load() (*Config, error) {
	return LoadFrom("./config")
}

// LoadFrom reads configuration from the config file in dir and environment variables.
// A .env file in the working directory is loaded first when present.
func LoadFrom(dir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.Telegram.APIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.sqlite_path", "data/langalarm.db")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("telegram.enabled", true)
	v.SetDefault("telegram.owner_chat_id", 0)
	v.SetDefault("telegram.debug", false)
	v.SetDefault("http.enabled", false)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.timeout", "15s")
	v.SetDefault("http.cors.allowed_origins", []string{"*"})
	v.SetDefault("ring.repeat_interval", "1m")
	v.SetDefault("ring.timeout", "0s")
	v.SetDefault("words.seed_path", "assets/data/words.json")
	v.SetDefault("sounds.dir", "data/sounds")
	v.SetDefault("weights.queue_size", 64)
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.URL == "" {
			return ErrMissingEnvironmentVariables
		}
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			return fmt.Errorf("%w: database.sqlite_path is empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.DB.Driver)
	}

	if c.Telegram.Enabled {
		if c.Telegram.APIToken == "" {
			return ErrMissingEnvironmentVariables
		}
		if c.Telegram.OwnerChatID == 0 {
			return fmt.Errorf("%w: telegram.owner_chat_id is required", ErrInvalidConfig)
		}
	}

	if c.Ring.RepeatInterval <= 0 {
		return fmt.Errorf("%w: ring.repeat_interval must be positive", ErrInvalidConfig)
	}

	return nil
}
