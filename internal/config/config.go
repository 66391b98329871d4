package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	// Server
	Port       string `yaml:"port"`
	Env        string `yaml:"env"`
	CORSOrigin string `yaml:"cors_origin"`

	// Database
	DBDriver   string `yaml:"db_driver"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_sslmode"`
	SQLitePath string `yaml:"sqlite_path"`

	// JWT
	JWTSecret        string        `yaml:"jwt_secret"`
	JWTExpirationDur time.Duration `yaml:"jwt_expires_in"`

	// Pipeline and background jobs
	PipelineAPIKey   string `yaml:"pipeline_api_key"`
	SnapshotSchedule string `yaml:"snapshot_schedule"`

	// Logging
	LogFile string `yaml:"log_file"`
}

var appConfig *Config

// Load loads configuration from an optional YAML file (CONFIG_FILE) and
// environment variables. Environment variables win over the file, and
// defaults fill whatever is still empty.
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}

	applyEnv(config)
	applyDefaults(config)

	if config.DBDriver != "postgres" && config.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q: must be postgres or sqlite", config.DBDriver)
	}

	appConfig = config
	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

func applyEnv(config *Config) {
	setFromEnv(&config.Port, "PORT")
	setFromEnv(&config.Env, "ENV")
	setFromEnv(&config.CORSOrigin, "CORS_ORIGIN")
	setFromEnv(&config.DBDriver, "DB_DRIVER")
	setFromEnv(&config.DBHost, "DB_HOST")
	setFromEnv(&config.DBPort, "DB_PORT")
	setFromEnv(&config.DBUser, "DB_USER")
	setFromEnv(&config.DBPassword, "DB_PASSWORD")
	setFromEnv(&config.DBName, "DB_NAME")
	setFromEnv(&config.DBSSLMode, "DB_SSLMODE")
	setFromEnv(&config.SQLitePath, "SQLITE_PATH")
	setFromEnv(&config.JWTSecret, "JWT_SECRET")
	setFromEnv(&config.PipelineAPIKey, "PIPELINE_API_KEY")
	setFromEnv(&config.SnapshotSchedule, "SNAPSHOT_SCHEDULE")
	setFromEnv(&config.LogFile, "LOG_FILE")

	// Parse JWT expiration duration
	if expStr := os.Getenv("JWT_EXPIRES_IN"); expStr != "" {
		expDur, err := time.ParseDuration(expStr)
		if err != nil {
			log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
			expDur = 24 * time.Hour
		}
		config.JWTExpirationDur = expDur
	}
}

func applyDefaults(config *Config) {
	setDefault(&config.Port, "8080")
	setDefault(&config.Env, "development")
	setDefault(&config.CORSOrigin, "*")
	setDefault(&config.DBDriver, "postgres")
	setDefault(&config.DBHost, "localhost")
	setDefault(&config.DBPort, "5432")
	setDefault(&config.DBUser, "advisoriq")
	setDefault(&config.DBPassword, "advisoriq")
	setDefault(&config.DBName, "advisoriq")
	setDefault(&config.DBSSLMode, "disable")
	setDefault(&config.SQLitePath, "advisoriq.db")
	setDefault(&config.JWTSecret, "fallback-secret-key-for-dev-only")
	if config.JWTExpirationDur == 0 {
		config.JWTExpirationDur = 24 * time.Hour
	}
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// setFromEnv overwrites *dst with the environment variable when it is set.
func setFromEnv(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setDefault(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}
