package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	Storefront StorefrontConfig
	Cart       CartConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	S3         S3Config
	Commerce   CommerceConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// StorefrontConfig describes how product images are resolved.
type StorefrontConfig struct {
	APIOrigin       string // base URL used to build network image references
	AssetIndexPath  string // yaml, json or xlsx
	PlaceholderName string
}

type CartConfig struct {
	Backend        string // file, redis, sql, s3
	SnapshotKey    string
	SnapshotDir    string
	LoadTimeout    time.Duration
	WriteTimeout   time.Duration
	CheckpointSpec string // cron spec, empty disables the checkpoint job
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	ProductCache time.Duration
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type CommerceConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	apiOrigin := getEnv("STOREFRONT_API_ORIGIN", "http://localhost:8000")

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Storefront: StorefrontConfig{
			APIOrigin:       apiOrigin,
			AssetIndexPath:  getEnv("ASSET_INDEX_PATH", "assets/index.yaml"),
			PlaceholderName: getEnv("ASSET_PLACEHOLDER", "placeholder.png"),
		},
		Cart: CartConfig{
			Backend:        getEnv("CART_SNAPSHOT_BACKEND", "file"),
			SnapshotKey:    getEnv("CART_SNAPSHOT_KEY", "storefront:cart"),
			SnapshotDir:    getEnv("CART_SNAPSHOT_DIR", "./data"),
			LoadTimeout:    parseDuration(getEnv("CART_LOAD_TIMEOUT", "3s"), 3*time.Second),
			WriteTimeout:   parseDuration(getEnv("CART_WRITE_TIMEOUT", "5s"), 5*time.Second),
			CheckpointSpec: getEnv("CART_CHECKPOINT_SPEC", "@every 5m"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "storefront"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", ""),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           parseInt(getEnv("REDIS_DB", "0")),
			ProductCache: parseDuration(getEnv("REDIS_PRODUCT_CACHE_TTL", "10m"), 10*time.Minute),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-northeast-2"),
			Bucket:          getEnv("AWS_S3_BUCKET", "udonggeum-storefront"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Commerce: CommerceConfig{
			BaseURL: getEnv("COMMERCE_BASE_URL", apiOrigin),
			APIKey:  getEnv("COMMERCE_API_KEY", ""),
			Timeout: parseDuration(getEnv("COMMERCE_TIMEOUT", "10s"), 10*time.Second),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Enabled reports whether a Redis host was configured.
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using 0", s)
		return 0
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for i := 0; i < len(s); {
		end := i
		for end < len(s) && s[end] != ',' {
			end++
		}
		result = append(result, s[i:end])
		i = end + 1
	}
	return result
}
