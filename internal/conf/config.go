package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig holds the application configuration.
type AppConfig struct {
	Mode               string `mapstructure:"mode"`
	Port               int    `mapstructure:"port"`
	Name               string `mapstructure:"name"`
	Version            string `mapstructure:"version"`
	TimeZone           string `mapstructure:"time_zone"`
	*LogConfig         `mapstructure:"log"`
	*MongodbConfig     `mapstructure:"mongodb"`
	*WorkerConfig      `mapstructure:"worker"`
	*RabbitMQConfig    `mapstructure:"rabbitmq"`
	*RedisConfig       `mapstructure:"redis"`
	*RateLimiterConfig `mapstructure:"rate_limiter"`
	*BillingConfig     `mapstructure:"billing"`
}

// MongodbConfig holds the MongoDB configuration.
type MongodbConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

// LogConfig holds the logger configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// WorkerConfig holds all background worker configurations.
type WorkerConfig struct {
	Outbox          OutboxWorkerConfig    `mapstructure:"outbox"`
	ReadingReminder ReadingReminderConfig `mapstructure:"reading_reminder"`
}

// ReadingReminderConfig holds the cron schedule of the reading reminder worker.
type ReadingReminderConfig struct {
	Schedule string `mapstructure:"schedule"` // standard 5-field cron spec
}

// OutboxWorkerConfig holds the configuration for the outbox polling worker.
type OutboxWorkerConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
	BatchSize       int `mapstructure:"batch_size"`
}

// RabbitMQConfig holds the RabbitMQ configuration.
type RabbitMQConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	BillingEventTopic string `mapstructure:"billing_event_topic"`
	// ActivityQueue is bound to BillingEventTopic and drained by the consumer.
	ActivityQueue string `mapstructure:"activity_queue"`
}

// RedisConfig holds the Redis client configuration.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimiterPolicy defines the limit and interval for a policy.
type RateLimiterPolicy struct {
	Interval string `mapstructure:"interval"` // e.g., "1s", "1m", "1h"
	Limit    int    `mapstructure:"limit"`
}

// RateLimiterConfig holds all rate limiting policies.
type RateLimiterConfig struct {
	Default  RateLimiterPolicy            `mapstructure:"default"`
	Policies map[string]RateLimiterPolicy `mapstructure:"policies"`
}

// BillingConfig holds engine tunables.
type BillingConfig struct {
	PendingThresholdDay int          `mapstructure:"pending_threshold_day"`
	DefaultRates        DefaultRates `mapstructure:"default_rates"`
}

// DefaultRates are served by the settings endpoint until an operator saves rates.
type DefaultRates struct {
	InternetPerDevice        string `mapstructure:"internet_per_device"`
	ElectricityPerUnit       string `mapstructure:"electricity_per_unit"`
	ElectricityServiceCharge string `mapstructure:"electricity_service_charge"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "dev")
	v.SetDefault("port", 8080)
	v.SetDefault("name", "rental_billing")
	v.SetDefault("time_zone", "Asia/Kathmandu")
	v.SetDefault("log.level", "info")
	v.SetDefault("worker.outbox.interval_seconds", 5)
	v.SetDefault("worker.outbox.batch_size", 50)
	v.SetDefault("worker.reading_reminder.schedule", "0 9 * * *")
	v.SetDefault("rabbitmq.billing_event_topic", "billing_events")
	v.SetDefault("rabbitmq.activity_queue", "billing_activity")
	v.SetDefault("rate_limiter.default.interval", "1s")
	v.SetDefault("rate_limiter.default.limit", 20)
	v.SetDefault("billing.pending_threshold_day", 20)
	v.SetDefault("billing.default_rates.internet_per_device", "200")
	v.SetDefault("billing.default_rates.electricity_per_unit", "10")
	v.SetDefault("billing.default_rates.electricity_service_charge", "50")
}

// NewConfig loads the application configuration from a file.
func NewConfig(confFile string) (*AppConfig, error) {
	// Load .env file. It's okay if it doesn't exist.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(confFile)
	setDefaults(v)

	// `mongodb.host` -> `MONGODB_HOST`
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var conf AppConfig
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if conf.BillingConfig == nil {
		conf.BillingConfig = &BillingConfig{PendingThresholdDay: 20}
	}
	if d := conf.BillingConfig.PendingThresholdDay; d < 1 || d > 32 {
		return nil, fmt.Errorf("billing.pending_threshold_day must be within 1-32, got %d", d)
	}

	// Set timezone
	loc, err := time.LoadLocation(conf.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}
	time.Local = loc

	return &conf, nil
}
