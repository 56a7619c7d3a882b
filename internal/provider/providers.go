package provider

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"rental_billing/internal/conf"
	"rental_billing/internal/dao/mongodb"
	"rental_billing/internal/db"
	"rental_billing/internal/logic"
	"rental_billing/internal/mq"
	"rental_billing/internal/mq/noop"
	"rental_billing/internal/mq/rabbitmq"
	"rental_billing/pkg/snowflake"
)

// --- Type-safe configuration values for dependency injection ---

type AppName string
type AppMode string

// RedisNamespace is a custom type for the Redis key namespace.
type RedisNamespace string

// ActivityQueue is the queue the consumer reads billing events from.
type ActivityQueue string

func ProvideAppName(c *conf.AppConfig) AppName {
	return AppName(c.Name)
}

func ProvideAppMode(c *conf.AppConfig) AppMode {
	return AppMode(c.Mode)
}

// --- Config sections ---

func ProvideLogConfig(c *conf.AppConfig) *conf.LogConfig {
	return c.LogConfig
}

func ProvideMongodbConfig(c *conf.AppConfig) *conf.MongodbConfig {
	return c.MongodbConfig
}

func ProvideWorkerConfig(c *conf.AppConfig) *conf.WorkerConfig {
	return c.WorkerConfig
}

func ProvideRabbitMQConfig(c *conf.AppConfig) *conf.RabbitMQConfig {
	return c.RabbitMQConfig
}

func ProvideRedisConfig(c *conf.AppConfig) *conf.RedisConfig {
	return c.RedisConfig
}

func ProvideRateLimiterConfig(c *conf.AppConfig) *conf.RateLimiterConfig {
	return c.RateLimiterConfig
}

func ProvideBillingConfig(c *conf.AppConfig) *conf.BillingConfig {
	return c.BillingConfig
}

// --- Providers for application components ---

// indexTimeout bounds the index creation done before the DAOs are built.
const indexTimeout = time.Minute

// ProvideDatabase returns the configured database after its indexes are in
// place. Bill and reading creation depend on the unique (room, period)
// indexes, so a failure here stops startup.
func ProvideDatabase(client *mongo.Client, cfg *conf.MongodbConfig, logger *zap.Logger) (*mongo.Database, error) {
	database := client.Database(cfg.DB)

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()
	if err := mongodb.EnsureIndexes(ctx, database); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes on %s: %w", cfg.DB, err)
	}
	logger.Info("MongoDB indexes ensured", zap.String("db", cfg.DB))
	return database, nil
}

// ProvideMachineID attempts to parse a numeric id from the hostname (e.g., for StatefulSets).
// It defaults to 1 if parsing fails, which is safe for single-instance/dev environments.
func ProvideMachineID() uint16 {
	hostname, err := os.Hostname()
	if err != nil {
		fmt.Printf("WARN: Cannot get hostname, defaulting machine id to 1: %v\n", err)
		return 1
	}

	parts := strings.Split(hostname, "-")
	if len(parts) < 2 {
		return 1
	}

	id, err := strconv.ParseUint(parts[len(parts)-1], 10, 16)
	if err != nil {
		fmt.Printf("WARN: Cannot parse id from hostname '%s', defaulting machine id to 1: %v\n", hostname, err)
		return 1
	}

	return uint16(id)
}

// ProvideBillSerialGenerator issues bill serials from a sonyflake node.
func ProvideBillSerialGenerator(machineID uint16) (logic.IDGenerator, error) {
	g, err := snowflake.NewGenerator(machineID)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ProvideBillingEventTopic extracts the billing event topic from the app config.
func ProvideBillingEventTopic(cfg *conf.RabbitMQConfig) logic.BillingEventTopic {
	return logic.BillingEventTopic(cfg.BillingEventTopic)
}

func ProvideActivityQueue(cfg *conf.RabbitMQConfig) ActivityQueue {
	return ActivityQueue(cfg.ActivityQueue)
}

// ProvideTransactionManager decides which TransactionManager to use based on the app mode.
func ProvideTransactionManager(mode AppMode, client *mongo.Client) db.TransactionManager {
	if mode == "dev" || mode == "test" {
		// Standalone mongod in dev has no replica set, so no transactions.
		return db.NewNoOpTransactionManager()
	}
	return db.NewMongoTransactionManager(client)
}

// ProvidePublisher connects to RabbitMQ outside dev and test; there the
// outbox is drained into a no-op publisher.
func ProvidePublisher(mode AppMode, cfg *conf.RabbitMQConfig, logger *zap.Logger) (mq.Publisher, func(), error) {
	if mode == "dev" || mode == "test" {
		p := noop.NewPublisher(logger)
		return p, p.Close, nil
	}
	p, err := rabbitmq.NewPublisher(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}

// ProvideRedisNamespace creates a namespace string for Redis keys.
func ProvideRedisNamespace(cfg *conf.AppConfig) RedisNamespace {
	return RedisNamespace(fmt.Sprintf("%s:%s:", cfg.Name, cfg.Mode))
}

// ProvideRedisClient creates and returns a new Redis client based on the application configuration.
// It also returns a cleanup function to close the connection.
func ProvideRedisClient(cfg *conf.RedisConfig) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Check the connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	cleanup := func() {
		client.Close()
	}

	return client, cleanup, nil
}
