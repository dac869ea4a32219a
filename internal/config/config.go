package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
)

// Config holds application configuration.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	HTTP         HTTPConfig         `mapstructure:"http"`
	Log          LogConfig          `mapstructure:"log"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Storage      StorageConfig      `mapstructure:"storage"`
	DynamoDB     DynamoDBConfig     `mapstructure:"dynamodb"`
	Redis        RedisConfig        `mapstructure:"redis"`
	SQLite       SQLiteConfig       `mapstructure:"sqlite"`
	Postgres     PostgresConfig     `mapstructure:"postgres"`
	Notification NotificationConfig `mapstructure:"notification"`
	Lifecycle    LifecycleConfig    `mapstructure:"lifecycle"`
	Snowflake    SnowflakeConfig    `mapstructure:"snowflake"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	StaffPasscode string        `mapstructure:"staff_passcode"`
}

// StorageConfig selects the key-value backend and the keys the portal writes to.
type StorageConfig struct {
	Driver           string `mapstructure:"driver"`
	QuotesKey        string `mapstructure:"quotes_key"`
	UsersKey         string `mapstructure:"users_key"`
	CartPrefix       string `mapstructure:"cart_prefix"`
	AttachmentPrefix string `mapstructure:"attachment_prefix"`
}

type DynamoDBConfig struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	Table           string `mapstructure:"table"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type NotificationConfig struct {
	Driver          string `mapstructure:"driver"`
	QueueKey        string `mapstructure:"queue_key"`
	FallbackAddress string `mapstructure:"fallback_address"`
}

type LifecycleConfig struct {
	TransitionPolicy string `mapstructure:"transition_policy"`
}

type SnowflakeConfig struct {
	Node int64 `mapstructure:"node"`
}

const (
	DriverMemory   = "memory"
	DriverDynamoDB = "dynamodb"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "portal-orcamentos")
	v.SetDefault("app.env", "development")
	v.SetDefault("http.port", 8080)
	v.SetDefault("log.level", "info")

	v.SetDefault("auth.jwt_secret", "change-me")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("auth.staff_passcode", "")

	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.quotes_key", "orcamentos_store_v1")
	v.SetDefault("storage.users_key", "portal_users_v1")
	v.SetDefault("storage.cart_prefix", "portal_cart_v1:")
	v.SetDefault("storage.attachment_prefix", "portal_attachment_v1:")

	v.SetDefault("dynamodb.region", "us-east-1")
	v.SetDefault("dynamodb.endpoint", "")
	v.SetDefault("dynamodb.table", "portal_kv")
	v.SetDefault("dynamodb.access_key_id", "local")
	v.SetDefault("dynamodb.secret_access_key", "local")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("sqlite.path", "portal.db")
	v.SetDefault("postgres.dsn", "")

	v.SetDefault("notification.driver", "log")
	v.SetDefault("notification.queue_key", "portal:notifications")
	v.SetDefault("notification.fallback_address", "cliente@exemplo.com")

	v.SetDefault("lifecycle.transition_policy", "permissive")
	v.SetDefault("snowflake.node", 1)
}

// Load reads configuration from an optional file and the environment.
// Env var overrides use prefix PORTAL_, e.g. PORTAL_STORAGE_DRIVER=redis.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path := os.Getenv("PORTAL_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PORTAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverDynamoDB, DriverRedis, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("invalid storage.driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == DriverPostgres && c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required for the postgres driver")
	}
	switch c.Notification.Driver {
	case "log", "redis":
	default:
		return fmt.Errorf("invalid notification.driver %q", c.Notification.Driver)
	}
	if c.HTTP.Port <= 0 {
		return fmt.Errorf("invalid http.port %d", c.HTTP.Port)
	}
	return nil
}
