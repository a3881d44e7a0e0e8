package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

// SchedulerConfig controls batching and the dispatch rate.
type SchedulerConfig struct {
	BatchSize        int           `mapstructure:"batch_size"`
	IdlePollInterval time.Duration `mapstructure:"idle_poll_interval"`
	ProcessingDelay  time.Duration `mapstructure:"processing_delay"`
	// MaxQueueDepth caps the number of queued batches; 0 means unbounded.
	MaxQueueDepth int `mapstructure:"max_queue_depth"`
}

// DatabaseConfig configures the dispatch journal.
type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"` // sqlite or postgres
	Path        string `mapstructure:"path"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`

	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
	return c.Path
}

type NotifyConfig struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ArchiveConfig configures the S3-compatible bucket that receives completion reports.
type ArchiveConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Type      string `mapstructure:"type"` // r2, s3, s3compatible; empty to detect from endpoint
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Prefix    string `mapstructure:"prefix"`
}

// Validate rejects settings the scheduler cannot run with.
func (c *Config) Validate() error {
	s := c.Scheduler
	if s.BatchSize <= 0 {
		return errors.New("scheduler.batch_size must be positive")
	}
	if s.IdlePollInterval <= 0 {
		return errors.New("scheduler.idle_poll_interval must be positive")
	}
	if s.ProcessingDelay <= 0 {
		return errors.New("scheduler.processing_delay must be positive")
	}
	if s.MaxQueueDepth < 0 {
		return errors.New("scheduler.max_queue_depth must not be negative")
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Archive.Enabled && (c.Archive.Endpoint == "" || c.Archive.Bucket == "") {
		return errors.New("archive.endpoint and archive.bucket are required when archive is enabled")
	}
	return nil
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// SCHEDULER_BATCH_SIZE overrides scheduler.batch_size, and so on
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("scheduler.batch_size", 3)
	v.SetDefault("scheduler.idle_poll_interval", 100*time.Millisecond)
	v.SetDefault("scheduler.processing_delay", 5*time.Second)
	v.SetDefault("scheduler.max_queue_depth", 0)
	// Shared in-memory sqlite keeps the journal process-lifetime only.
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "file::memory:?cache=shared")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "ingestq")
	v.SetDefault("database.dbname", "ingestq")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 1)
	// An in-memory sqlite database lives only as long as its last connection.
	v.SetDefault("database.conn_max_lifetime", 0)
	v.SetDefault("notify.webhook_url", "")
	v.SetDefault("notify.timeout", 10*time.Second)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.use_ssl", true)
	v.SetDefault("archive.prefix", "reports")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("notify.webhook_url", "INGEST_WEBHOOK_URL")
	v.BindEnv("archive.access_key", "ARCHIVE_ACCESS_KEY")
	v.BindEnv("archive.secret_key", "ARCHIVE_SECRET_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
