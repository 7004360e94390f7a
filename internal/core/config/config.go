package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var v *viper.Viper
var cfg *Config

// Config App-wide configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Analytics AnalyticsConfig
	JWT       JWTConfig
	Snowflake SnowflakeConfig
	Logging   LoggingConfig
	Security  SecurityConfig
}

// AppConfig Application Configuration
type AppConfig struct {
	Host string
	Port int
	Mode string
}

// DatabaseConfig Postgres Database Configuration
type DatabaseConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// RedisConfig Redis Configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// CacheConfig Cache Configuration
type CacheConfig struct {
	L1Cap         int // L1 capacity in MB
	L2TTL         int // L2 entry lifetime in seconds
	DisplayTTLSec int // taxonomy display snapshot lifetime
}

// AnalyticsConfig Analytics report defaults
type AnalyticsConfig struct {
	DefaultWindowDays int
	TopAssets         int
	RecentEvents      int
}

// JWTConfig JWT Configuration
type JWTConfig struct {
	Secret string
	Expiry int // token lifetime in seconds
}

// SnowflakeConfig Snowflake Configuration
type SnowflakeConfig struct {
	WorkerID int64
}

// LoggingConfig Logging Configuration
type LoggingConfig struct {
	Level  string
	Output string
}

// SecurityConfig Security Configuration
type SecurityConfig struct {
	AllowIPs     []string
	DenyIPs      []string
	AllowOrigins []string // CORS; empty means allow all
	RateLimit    int      // requests per minute per IP
}

// Init Initialize configuration with Viper
func Init(configPath string) error {
	v = viper.New()
	cfg = &Config{}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// no config file, defaults plus env apply
	}

	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs()

	return parseConfig()
}

// setDefaults Default values
func setDefaults() {
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.mode", "release")

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "catalog")
	v.SetDefault("database.name", "catalog")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 300)

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("cache.l1_cap", 64)
	v.SetDefault("cache.l2_ttl", 3600)
	v.SetDefault("cache.display_ttl", 60)

	v.SetDefault("analytics.default_window_days", 30)
	v.SetDefault("analytics.top_assets", 10)
	v.SetDefault("analytics.recent_events", 20)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expiry", 86400)

	v.SetDefault("snowflake.worker_id", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("security.allow_ips", []string{"127.0.0.1", "localhost", "::1"})
	v.SetDefault("security.rate_limit", 100)
}

// bindEnvs Bind environment variables
func bindEnvs() {
	v.BindEnv("database.host", "CATALOG_DATABASE_HOST")
	v.BindEnv("database.port", "CATALOG_DATABASE_PORT")
	v.BindEnv("database.username", "CATALOG_DATABASE_USERNAME")
	v.BindEnv("database.password", "CATALOG_DATABASE_PASSWORD")
	v.BindEnv("database.name", "CATALOG_DATABASE_NAME")

	v.BindEnv("redis.host", "CATALOG_REDIS_HOST")
	v.BindEnv("redis.port", "CATALOG_REDIS_PORT")
	v.BindEnv("redis.password", "CATALOG_REDIS_PASSWORD")

	v.BindEnv("jwt.secret", "CATALOG_JWT_SECRET")
}

// parseConfig Fill the Config struct
func parseConfig() error {
	cfg.App.Host = v.GetString("app.host")
	cfg.App.Port = v.GetInt("app.port")
	cfg.App.Mode = v.GetString("app.mode")

	cfg.Database.Host = v.GetString("database.host")
	cfg.Database.Port = v.GetInt("database.port")
	cfg.Database.Username = v.GetString("database.username")
	cfg.Database.Password = v.GetString("database.password")
	cfg.Database.Name = v.GetString("database.name")
	cfg.Database.SSLMode = v.GetString("database.sslmode")
	cfg.Database.MaxOpenConns = v.GetInt("database.max_open_conns")
	cfg.Database.MaxIdleConns = v.GetInt("database.max_idle_conns")
	cfg.Database.ConnMaxLifetime = v.GetInt("database.conn_max_lifetime")

	cfg.Redis.Host = v.GetString("redis.host")
	cfg.Redis.Port = v.GetInt("redis.port")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")
	cfg.Redis.PoolSize = v.GetInt("redis.pool_size")

	cfg.Cache.L1Cap = v.GetInt("cache.l1_cap")
	cfg.Cache.L2TTL = v.GetInt("cache.l2_ttl")
	cfg.Cache.DisplayTTLSec = v.GetInt("cache.display_ttl")

	cfg.Analytics.DefaultWindowDays = v.GetInt("analytics.default_window_days")
	cfg.Analytics.TopAssets = v.GetInt("analytics.top_assets")
	cfg.Analytics.RecentEvents = v.GetInt("analytics.recent_events")

	cfg.JWT.Secret = v.GetString("jwt.secret")
	cfg.JWT.Expiry = v.GetInt("jwt.expiry")

	cfg.Snowflake.WorkerID = v.GetInt64("snowflake.worker_id")

	cfg.Logging.Level = v.GetString("logging.level")
	cfg.Logging.Output = v.GetString("logging.output")

	cfg.Security.AllowIPs = v.GetStringSlice("security.allow_ips")
	cfg.Security.DenyIPs = v.GetStringSlice("security.deny_ips")
	cfg.Security.AllowOrigins = v.GetStringSlice("security.allow_origins")
	cfg.Security.RateLimit = v.GetInt("security.rate_limit")

	return nil
}

// Get Get config instance
func Get() *Config {
	return cfg
}

// GetDSN Get Postgres DSN
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Name, c.SSLMode)
}

// GetRedisAddr Get Redis address
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetServerAddr Get server address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
