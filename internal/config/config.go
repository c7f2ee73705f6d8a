// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Snapshot SnapshotConfig
	Database DatabaseConfig
	Object   ObjectConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	AllowedOrigins []string
}

type AppConfig struct {
	// Branches are the named stock locations tracked next to the global
	// warehouse figure.
	Branches []string
}

// SnapshotConfig selects where the state document is persisted between
// sessions: "file", "postgres", "object" or "none".
type SnapshotConfig struct {
	Backend  string
	FilePath string
	// ObjectKey is the document key for the object-storage backend.
	ObjectKey string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ObjectConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ReportTTLSeconds int
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
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_BRANCHES", []string{"shevchenko", "nahorka", "appollo", "horodok"})
		viper.SetDefault("SNAPSHOT_BACKEND", "file")
		viper.SetDefault("SNAPSHOT_FILE_PATH", "./data/state.json")
		viper.SetDefault("SNAPSHOT_OBJECT_KEY", "snapshots/state.json")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "retail_analytics")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("OBJECT_ENDPOINT", "")
		viper.SetDefault("OBJECT_ACCESS_KEY", "")
		viper.SetDefault("OBJECT_SECRET_KEY", "")
		viper.SetDefault("OBJECT_BUCKET", "")
		viper.SetDefault("OBJECT_USE_SSL", true)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_REPORT_TTL_SECONDS", 300)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			App: AppConfig{
				Branches: viper.GetStringSlice("APP_BRANCHES"),
			},
			Snapshot: SnapshotConfig{
				Backend:   viper.GetString("SNAPSHOT_BACKEND"),
				FilePath:  viper.GetString("SNAPSHOT_FILE_PATH"),
				ObjectKey: viper.GetString("SNAPSHOT_OBJECT_KEY"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Object: ObjectConfig{
				Endpoint:  viper.GetString("OBJECT_ENDPOINT"),
				AccessKey: viper.GetString("OBJECT_ACCESS_KEY"),
				SecretKey: viper.GetString("OBJECT_SECRET_KEY"),
				Bucket:    viper.GetString("OBJECT_BUCKET"),
				UseSSL:    viper.GetBool("OBJECT_USE_SSL"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				ReportTTLSeconds: viper.GetInt("CACHE_REPORT_TTL_SECONDS"),
			},
		}
	})

	return instance
}
