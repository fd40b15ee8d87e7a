package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Order backends
const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
	BackendMemory    = "memory"
)

// Write policies applied after a successful order append
const (
	WritePolicyRefresh    = "refresh"
	WritePolicyOptimistic = "optimistic"
)

// Config holds all application configuration
type Config struct {
	Port        string
	AuthEnabled bool
	Orders      OrdersConfig
	Firebase    FirebaseConfig
	Mongo       MongoConfig
	ClickHouse  ClickHouseConfig
	Redis       RedisConfig
	Log         LogConfig
}

// OrdersConfig controls the order collection and its refresh cycle
type OrdersConfig struct {
	Backend           string // firestore, mongo or memory
	WritePolicy       string // refresh or optimistic
	RefreshSchedule   string // cron spec, empty disables periodic refresh
	IdempotencyTTLMS  int64  // how long an Idempotency-Key is remembered in milliseconds
	RequestTimeoutSec int    // timeout for a single backend call
}

// FirebaseConfig holds Firebase Admin SDK settings
type FirebaseConfig struct {
	ProjectID        string
	CredentialsFile  string
	OrdersCollection string
	UsersCollection  string
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// ClickHouseConfig holds ClickHouse connection settings for the sales history mirror
type ClickHouseConfig struct {
	Enabled                bool
	Host                   string
	Port                   string
	Database               string
	User                   string
	Password               string
	DSN                    string
	AsyncInsertEnabled     bool  // whether to use async inserts
	AsyncInsertWait        int   // wait_for_async_insert (0 or 1)
	AsyncInsertMaxDataSize int64 // async_insert_max_data_size in bytes
	AsyncInsertBusyTimeout int   // async_insert_busy_timeout_ms in milliseconds
	MirrorMarkerTTLMS      int64 // how long a mirrored order marker lives in Redis in milliseconds
	BufferChannelCapacity  int   // capacity of the order buffer channel (default: 10,000)
	BatchSize              int   // number of orders to batch before flushing (default: 1,000)
	FlushIntervalSeconds   int   // time interval in seconds to flush batches (default: 1)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	Endpoint string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level      string
	Format     string // json or text
	File       string // optional rotated log file
	MaxSizeMB  int
	MaxBackups int
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("config: failed to read .env file")
	}

	return &Config{
		Port:        getEnv("PORT", "3000"),
		AuthEnabled: getEnv("AUTH_ENABLED", "1") == "1",
		Orders: OrdersConfig{
			Backend:           getEnv("ORDER_BACKEND", BackendFirestore),
			WritePolicy:       getEnv("ORDER_WRITE_POLICY", WritePolicyRefresh),
			RefreshSchedule:   getEnv("ORDER_REFRESH_SCHEDULE", "@every 1m"),
			IdempotencyTTLMS:  getEnvAsInt64("ORDER_IDEMPOTENCY_TTL_MS", 24*60*60*1000),
			RequestTimeoutSec: getEnvAsInt("ORDER_REQUEST_TIMEOUT_SECONDS", 10),
		},
		Firebase: FirebaseConfig{
			ProjectID:        getEnv("FIREBASE_PROJECT_ID", "realtimesalesapp"),
			CredentialsFile:  getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			OrdersCollection: getEnv("FIREBASE_ORDERS_COLLECTION", "orders"),
			UsersCollection:  getEnv("FIREBASE_USERS_COLLECTION", "users"),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
			Database:   getEnv("MONGO_DATABASE", "realtimesales"),
			Collection: getEnv("MONGO_ORDERS_COLLECTION", "orders"),
		},
		ClickHouse: ClickHouseConfig{
			Enabled:                getEnv("SALES_MIRROR_ENABLED", "1") == "1",
			Host:                   getEnv("CLICKHOUSE_HOST", "127.0.0.1"),
			Port:                   getEnv("CLICKHOUSE_PORT", "9000"),
			Database:               getEnv("CLICKHOUSE_DATABASE", "default"),
			User:                   getEnv("CLICKHOUSE_USER", "app"),
			Password:               getEnv("CLICKHOUSE_PASSWORD", "clickhouse_app_password"),
			DSN:                    getEnv("CLICKHOUSE_DSN", ""),
			AsyncInsertEnabled:     getEnv("CLICKHOUSE_ASYNC_INSERT_ENABLED", "1") == "1",
			AsyncInsertWait:        getEnvAsInt("CLICKHOUSE_ASYNC_INSERT_WAIT", 1),
			AsyncInsertMaxDataSize: getEnvAsInt64("CLICKHOUSE_ASYNC_INSERT_MAX_DATA_SIZE", 10485760),
			AsyncInsertBusyTimeout: getEnvAsInt("CLICKHOUSE_ASYNC_INSERT_BUSY_TIMEOUT", 200),
			MirrorMarkerTTLMS:      getEnvAsInt64("SALES_MIRROR_MARKER_TTL_MS", 30*24*60*60*1000),
			BufferChannelCapacity:  getEnvAsInt("SALES_MIRROR_BUFFER_CAPACITY", 10000),
			BatchSize:              getEnvAsInt("SALES_MIRROR_BATCH_SIZE", 1000),
			FlushIntervalSeconds:   getEnvAsInt("SALES_MIRROR_FLUSH_INTERVAL_SECONDS", 1),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "127.0.0.1"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			Endpoint: getEnv("REDIS_ENDPOINT", ""),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 5),
		},
	}
}

// Validate rejects combinations the service cannot start with
func (c *Config) Validate() error {
	switch c.Orders.Backend {
	case BackendFirestore, BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("unknown ORDER_BACKEND %q", c.Orders.Backend)
	}
	switch c.Orders.WritePolicy {
	case WritePolicyRefresh, WritePolicyOptimistic:
	default:
		return fmt.Errorf("unknown ORDER_WRITE_POLICY %q", c.Orders.WritePolicy)
	}
	if c.AuthEnabled && c.Firebase.ProjectID == "" {
		return fmt.Errorf("AUTH_ENABLED requires FIREBASE_PROJECT_ID")
	}
	return nil
}

func (c *ClickHouseConfig) GetClickHouseDSN() string {
	if c.DSN != "" {
		return c.DSN
	}

	// Build DSN from components
	dsn := "clickhouse://"
	if c.User != "" {
		dsn += c.User
		if c.Password != "" {
			dsn += ":" + c.Password
		}
		dsn += "@"
	}
	dsn += c.Host + ":" + c.Port + "/" + c.Database

	var queryParams []string

	if c.AsyncInsertEnabled {
		// These settings apply to all queries on this connection
		queryParams = append(queryParams,
			fmt.Sprintf("wait_for_async_insert=%d", c.AsyncInsertWait),
			fmt.Sprintf("async_insert_max_data_size=%d", c.AsyncInsertMaxDataSize),
			fmt.Sprintf("async_insert_busy_timeout_ms=%d", c.AsyncInsertBusyTimeout),
		)
	}

	for i, param := range queryParams {
		if i == 0 {
			dsn += "?" + param
		} else {
			dsn += "&" + param
		}
	}

	return dsn
}

func (r *RedisConfig) GetRedisAddr() string {
	if r.Endpoint != "" {
		return r.Endpoint
	}
	return r.Host + ":" + r.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
