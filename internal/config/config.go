// internal/config/config.go
package config

import (
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Reorder  ReorderConfig
	Notify   NotifyConfig
	LogLevel string
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled                  bool
	RedisURL                 string
	RedisHost                string
	RedisPort                string
	RedisPassword            string
	RedisDB                  int
	KeyPrefix                string
	ReorderListTTLSeconds    int
	CriticalListTTLSeconds   int
	SupplierScoreTTLSeconds  int
	VelocityTTLSeconds       int
	TagIndexRetentionSeconds int
}

type ReorderConfig struct {
	VelocityWindowDays    int
	DefaultLeadTimeDays   float64
	SupplierHistoryMonths int
	BuildConcurrency      int
}

type NotifyConfig struct {
	KafkaBrokers  []string
	LowStockTopic string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("DATABASE_URL", "")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "pos_supermarket")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_KEY_PREFIX", "pos")
		viper.SetDefault("CACHE_REORDER_LIST_TTL_SECONDS", 300)
		viper.SetDefault("CACHE_CRITICAL_LIST_TTL_SECONDS", 180)
		viper.SetDefault("CACHE_SUPPLIER_SCORE_TTL_SECONDS", 3600)
		viper.SetDefault("CACHE_VELOCITY_TTL_SECONDS", 3600)
		viper.SetDefault("CACHE_TAG_INDEX_RETENTION_SECONDS", 86400)
		viper.SetDefault("REORDER_VELOCITY_WINDOW_DAYS", 30)
		viper.SetDefault("REORDER_DEFAULT_LEAD_TIME_DAYS", 7)
		viper.SetDefault("REORDER_SUPPLIER_HISTORY_MONTHS", 6)
		viper.SetDefault("REORDER_BUILD_CONCURRENCY", 8)
		viper.SetDefault("KAFKA_BROKERS", "")
		viper.SetDefault("KAFKA_LOW_STOCK_TOPIC", "inventory.low-stock-alerts")

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				URL:      viper.GetString("DATABASE_URL"),
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:                  viper.GetBool("CACHE_ENABLED"),
				RedisURL:                 viper.GetString("REDIS_URL"),
				RedisHost:                viper.GetString("REDIS_HOST"),
				RedisPort:                viper.GetString("REDIS_PORT"),
				RedisPassword:            viper.GetString("REDIS_PASSWORD"),
				RedisDB:                  viper.GetInt("REDIS_DB"),
				KeyPrefix:                viper.GetString("CACHE_KEY_PREFIX"),
				ReorderListTTLSeconds:    viper.GetInt("CACHE_REORDER_LIST_TTL_SECONDS"),
				CriticalListTTLSeconds:   viper.GetInt("CACHE_CRITICAL_LIST_TTL_SECONDS"),
				SupplierScoreTTLSeconds:  viper.GetInt("CACHE_SUPPLIER_SCORE_TTL_SECONDS"),
				VelocityTTLSeconds:       viper.GetInt("CACHE_VELOCITY_TTL_SECONDS"),
				TagIndexRetentionSeconds: viper.GetInt("CACHE_TAG_INDEX_RETENTION_SECONDS"),
			},
			Reorder: ReorderConfig{
				VelocityWindowDays:    viper.GetInt("REORDER_VELOCITY_WINDOW_DAYS"),
				DefaultLeadTimeDays:   viper.GetFloat64("REORDER_DEFAULT_LEAD_TIME_DAYS"),
				SupplierHistoryMonths: viper.GetInt("REORDER_SUPPLIER_HISTORY_MONTHS"),
				BuildConcurrency:      viper.GetInt("REORDER_BUILD_CONCURRENCY"),
			},
			Notify: NotifyConfig{
				KafkaBrokers:  splitList(viper.GetString("KAFKA_BROKERS")),
				LowStockTopic: viper.GetString("KAFKA_LOW_STOCK_TOPIC"),
			},
			LogLevel: viper.GetString("LOG_LEVEL"),
		}
	})

	return instance
}

// DSN builds a lib/pq connection string, preferring DATABASE_URL when set
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return "host=" + c.Host + " port=" + c.Port + " user=" + c.User + " password=" + c.Password +
		" dbname=" + c.DBName + " sslmode=" + c.SSLMode
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
