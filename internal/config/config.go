// backend-go/internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Forecast ForecastConfig
	Storage  StorageConfig
	Drive    DriveConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	ProductTTLSeconds int
}

type ForecastConfig struct {
	DefaultMinimumStock    int
	DefaultReorderQuantity int
	SessionTTLMinutes      int
}

// StorageConfig selects the object store used for forecast files and report exports.
// Provider is "sevalla", "minio" or empty for none.
type StorageConfig struct {
	Provider       string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Bucket         string
	Region         string
	UseSSL         bool
	ForecastPrefix string
	ExportPrefix   string
}

type DriveConfig struct {
	CredentialsJSON string
	FolderID        string
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
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "storeops")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_PRODUCT_TTL_SECONDS", 600)
		viper.SetDefault("FORECAST_DEFAULT_MIN_STOCK", 10)
		viper.SetDefault("FORECAST_DEFAULT_REORDER_QTY", 50)
		viper.SetDefault("FORECAST_SESSION_TTL_MINUTES", 30)
		viper.SetDefault("STORAGE_PROVIDER", "")
		viper.SetDefault("STORAGE_REGION", "us-east-1")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("STORAGE_FORECAST_PREFIX", "forecasts")
		viper.SetDefault("STORAGE_EXPORT_PREFIX", "exports/recommendations")
		viper.SetDefault("GOOGLE_DRIVE_CREDENTIALS_JSON", "")
		viper.SetDefault("GOOGLE_DRIVE_FOLDER_ID", "")

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
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:           viper.GetBool("CACHE_ENABLED"),
				RedisURL:          viper.GetString("REDIS_URL"),
				RedisHost:         viper.GetString("REDIS_HOST"),
				RedisPort:         viper.GetString("REDIS_PORT"),
				RedisPassword:     viper.GetString("REDIS_PASSWORD"),
				RedisDB:           viper.GetInt("REDIS_DB"),
				ProductTTLSeconds: viper.GetInt("CACHE_PRODUCT_TTL_SECONDS"),
			},
			Forecast: ForecastConfig{
				DefaultMinimumStock:    viper.GetInt("FORECAST_DEFAULT_MIN_STOCK"),
				DefaultReorderQuantity: viper.GetInt("FORECAST_DEFAULT_REORDER_QTY"),
				SessionTTLMinutes:      viper.GetInt("FORECAST_SESSION_TTL_MINUTES"),
			},
			Storage: StorageConfig{
				Provider:       viper.GetString("STORAGE_PROVIDER"),
				Endpoint:       viper.GetString("STORAGE_ENDPOINT"),
				AccessKey:      viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey:      viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:         viper.GetString("STORAGE_BUCKET"),
				Region:         viper.GetString("STORAGE_REGION"),
				UseSSL:         viper.GetBool("STORAGE_USE_SSL"),
				ForecastPrefix: viper.GetString("STORAGE_FORECAST_PREFIX"),
				ExportPrefix:   viper.GetString("STORAGE_EXPORT_PREFIX"),
			},
			Drive: DriveConfig{
				CredentialsJSON: viper.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
				FolderID:        viper.GetString("GOOGLE_DRIVE_FOLDER_ID"),
			},
		}
	})

	return instance
}
