package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all the configuration for the application.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer `yaml:"http_server"`
	Database   `yaml:"database"`
	Tracking   `yaml:"tracking"`
	Clicks     `yaml:"clicks"`
	Auth       `yaml:"auth"`
}

// HTTPServer holds HTTP server specific configuration.
type HTTPServer struct {
	Port        int    `yaml:"port" env:"HTTP_SERVER_PORT" env-default:"8080"`
	BaseURL     string `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:8080"`
	FallbackURL string `yaml:"fallback_url" env:"FALLBACK_URL" env-default:"/"`
}

// Database holds PostgreSQL connection configuration.
type Database struct {
	Host            string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string `yaml:"user" env:"DB_USER" env-default:"linkpulse"`
	Password        string `yaml:"password" env:"DB_PASSWORD" env-default:""`
	DBName          string `yaml:"dbname" env:"DB_NAME" env-default:"linkpulse"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	Timezone        string `yaml:"timezone" env:"DB_TIMEZONE" env-default:"UTC"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// Tracking holds tracking-code and link-creation configuration.
type Tracking struct {
	CodeLength      int `yaml:"code_length" env:"TRACKING_CODE_LENGTH" env-default:"6"`
	CodeMaxAttempts int `yaml:"code_max_attempts" env:"TRACKING_CODE_MAX_ATTEMPTS" env-default:"10"`
}

// Clicks holds click-recording configuration.
type Clicks struct {
	DedupWindow   time.Duration `yaml:"dedup_window" env:"CLICK_DEDUP_WINDOW" env-default:"3s"`
	WriteTimeout  time.Duration `yaml:"write_timeout" env:"CLICK_WRITE_TIMEOUT" env-default:"5s"`
	Workers       int           `yaml:"workers" env:"CLICK_WORKERS" env-default:"3"`
	BufferSize    int           `yaml:"buffer_size" env:"CLICK_BUFFER_SIZE" env-default:"1000"`
	RetryAttempts int           `yaml:"retry_attempts" env:"CLICK_RETRY_ATTEMPTS" env-default:"3"`
	RetryDelay    time.Duration `yaml:"retry_delay" env:"CLICK_RETRY_DELAY" env-default:"1s"`
}

// Auth holds scope-token validation configuration. Tokens are issued by the
// external auth service; this backend only verifies them.
type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-default:""`
	Issuer    string `yaml:"issuer" env:"JWT_ISSUER" env-default:"linkpulse-auth"`
}

// MustLoad loads the application configuration.
func MustLoad() *Config {
	// Try to load .env file (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config

	// Check if config file path is specified
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yml" // default path
	}

	// Try to load config file
	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
	} else {
		// If config file doesn't exist, use environment variables only
		log.Println("Config file not found, using environment variables only")
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err)
		}
	}

	return &cfg
}
