package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	Firebase   FirebaseConfig
	Hosting    HostingConfig
	Generation GenerationConfig
	App        AppConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type FirebaseConfig struct {
	CredentialsPath string
	// DevBypass allows X-User-Id header auth for local development.
	DevBypass bool
}

type HostingConfig struct {
	Region string
	// Endpoint overrides the S3 endpoint (useful for local stacks).
	Endpoint  string
	AccessKey string
	SecretKey string
	// DomainSuffix is appended to the namespace slug to form the public host,
	// e.g. slug "roomify-abc123" + suffix ".roomify.site".
	DomainSuffix string
	RootDir      string
}

type GenerationConfig struct {
	BaseURL  string
	APIKey   string
	TestMode bool
	// RequestsPerMinute throttles calls to the generation driver.
	RequestsPerMinute int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "*")),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			DevBypass:       getEnvAsBool("AUTH_DEV_BYPASS", false),
		},
		Hosting: HostingConfig{
			Region:       getEnv("HOSTING_REGION", "us-east-1"),
			Endpoint:     getEnv("HOSTING_ENDPOINT", ""),
			AccessKey:    getEnv("HOSTING_ACCESS_KEY", ""),
			SecretKey:    getEnv("HOSTING_SECRET_KEY", ""),
			DomainSuffix: getEnv("HOSTING_DOMAIN_SUFFIX", ".roomify.site"),
			RootDir:      getEnv("HOSTING_ROOT_DIR", "roomify-hosting"),
		},
		Generation: GenerationConfig{
			BaseURL:           getEnv("GENERATION_BASE_URL", ""),
			APIKey:            getEnv("GENERATION_API_KEY", ""),
			TestMode:          getEnvAsBool("GENERATION_TEST_MODE", false),
			RequestsPerMinute: getEnvAsInt("GENERATION_RPM", 20),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	if c.App.Environment == "production" {
		if c.Firebase.CredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required in production")
		}
		if c.Firebase.DevBypass {
			return fmt.Errorf("AUTH_DEV_BYPASS must not be enabled in production")
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
