package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. CARGO_REDIS_ADDR.
const EnvPrefix = "CARGO"

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Routes   RoutesConfig   `yaml:"routes"`
	Auth     AuthConfig     `yaml:"auth"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins" split_words:"true"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode" split_words:"true"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL renders the connection in the pgx5:// form understood by golang-migrate.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic" split_words:"true"`
	NotificationsTopic string   `yaml:"notifications_topic" split_words:"true"`
	GroupID            string   `yaml:"group_id" split_words:"true"`
}

type BookingConfig struct {
	LockTTL        time.Duration `yaml:"lock_ttl" split_words:"true"`
	CacheTTL       time.Duration `yaml:"cache_ttl" split_words:"true"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl" split_words:"true"`
}

type RoutesConfig struct {
	CacheTTL          time.Duration `yaml:"cache_ttl" split_words:"true"`
	PremiumMarker     string        `yaml:"premium_marker" split_words:"true"`
	MaxTransitOptions int           `yaml:"max_transit_options" split_words:"true"`
	MinConnection     time.Duration `yaml:"min_connection" split_words:"true"`
}

type AuthConfig struct {
	// JWTSecret enables bearer-token checks on mutating booking routes when set.
	JWTSecret string `yaml:"jwt_secret" split_words:"true"`
}

type ArchiveConfig struct {
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

type WorkerConfig struct {
	ArchiveInterval  time.Duration `yaml:"archive_interval" split_words:"true"`
	ArchiveBatchSize int           `yaml:"archive_batch_size" split_words:"true"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Booking.LockTTL <= 0 {
		c.Booking.LockTTL = 30 * time.Second
	}
	if c.Booking.CacheTTL <= 0 {
		c.Booking.CacheTTL = 5 * time.Minute
	}
	if c.Booking.IdempotencyTTL <= 0 {
		c.Booking.IdempotencyTTL = 24 * time.Hour
	}
	if c.Routes.CacheTTL <= 0 {
		c.Routes.CacheTTL = 5 * time.Minute
	}
	if c.Routes.PremiumMarker == "" {
		c.Routes.PremiumMarker = "Premium"
	}
	if c.Routes.MaxTransitOptions <= 0 {
		c.Routes.MaxTransitOptions = 5
	}
	if c.Routes.MinConnection <= 0 {
		c.Routes.MinConnection = 60 * time.Minute
	}
	if c.Worker.ArchiveInterval <= 0 {
		c.Worker.ArchiveInterval = 10 * time.Minute
	}
	if c.Worker.ArchiveBatchSize <= 0 {
		c.Worker.ArchiveBatchSize = 100
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
