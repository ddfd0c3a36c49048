package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Env         string   `yaml:"env"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	DocumentStore struct {
		Type          string `yaml:"type"` // postgres, mongo, memory
		MongoURI      string `yaml:"mongo_uri"`
		MongoDatabase string `yaml:"mongo_database"`
	} `yaml:"document_store"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	JWT struct {
		Secret     string `yaml:"secret"`
		Issuer     string `yaml:"issuer"`
		TTL        int    `yaml:"ttl"`         // минуты
		RefreshTTL int    `yaml:"refresh_ttl"` // часы
	} `yaml:"jwt"`

	Auth struct {
		MinPasswordLength int `yaml:"min_password_length"`
	} `yaml:"auth"`

	Locale struct {
		Default string `yaml:"default"`
	} `yaml:"locale"`

	Workers struct {
		SessionCleanupInterval int `yaml:"session_cleanup_interval"` // минуты
	} `yaml:"workers"`
}

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

var AppConfig *Config

// LoadConfig загружает конфигурацию в AppConfig и завершает процесс при ошибке
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Load читает .env (если есть), затем YAML-файл или, когда задан
// DATABASE_URL, переменные окружения.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to read .env: %v", err)
	}

	var cfg Config
	if os.Getenv("DATABASE_URL") == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}
		log.Printf("Загрузка конфигурации из %s", configPath)

		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("open config file %s: %w", configPath, err)
		}
		defer f.Close()

		if err := decodeYAML(f, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
		}
	} else {
		log.Println("Загрузка конфигурации из переменных окружения")
		fromEnv(&cfg)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeYAML(r io.Reader, cfg *Config) error {
	return yaml.NewDecoder(r).Decode(cfg)
}

func fromEnv(cfg *Config) {
	cfg.Server.Host = os.Getenv("SERVER_HOST")
	cfg.Server.Port = envInt("SERVER_PORT")
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = strings.Split(origins, ",")
	}

	cfg.Database.DSN = os.Getenv("DATABASE_URL")

	cfg.DocumentStore.Type = os.Getenv("DOCUMENT_STORE_TYPE")
	cfg.DocumentStore.MongoURI = os.Getenv("MONGO_URI")
	cfg.DocumentStore.MongoDatabase = os.Getenv("MONGO_DATABASE")

	cfg.Redis.Enabled, _ = strconv.ParseBool(os.Getenv("REDIS_ENABLED"))
	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.DB = envInt("REDIS_DB")

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.Issuer = os.Getenv("JWT_ISSUER")
	cfg.JWT.TTL = envInt("JWT_TTL")
	cfg.JWT.RefreshTTL = envInt("JWT_REFRESH_TTL")

	cfg.Auth.MinPasswordLength = envInt("AUTH_MIN_PASSWORD_LENGTH")
	cfg.Locale.Default = os.Getenv("LOCALE_DEFAULT")
	cfg.Workers.SessionCleanupInterval = envInt("SESSION_CLEANUP_INTERVAL")
}

func envInt(key string) int {
	v, _ := strconv.Atoi(os.Getenv(key))
	return v
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 4000
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.DocumentStore.Type == "" {
		c.DocumentStore.Type = StorePostgres
	}
	if c.DocumentStore.MongoDatabase == "" {
		c.DocumentStore.MongoDatabase = "influmatch"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "influmatch"
	}
	if c.JWT.TTL == 0 {
		c.JWT.TTL = 15
	}
	if c.JWT.RefreshTTL == 0 {
		c.JWT.RefreshTTL = 24 * 30
	}
	if c.Auth.MinPasswordLength == 0 {
		c.Auth.MinPasswordLength = 6
	}
	if c.Locale.Default == "" {
		c.Locale.Default = "tr"
	}
	if c.Workers.SessionCleanupInterval == 0 {
		c.Workers.SessionCleanupInterval = 60
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: jwt.secret is required")
	}
	switch c.DocumentStore.Type {
	case StorePostgres, StoreMemory:
	case StoreMongo:
		if c.DocumentStore.MongoURI == "" {
			return errors.New("config: document_store.mongo_uri is required for mongo")
		}
	default:
		return fmt.Errorf("config: unknown document_store.type %q", c.DocumentStore.Type)
	}
	if c.Database.DSN == "" && c.DocumentStore.Type != StoreMemory {
		return errors.New("config: database.url is required")
	}
	return nil
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.JWT.TTL) * time.Minute
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTTL) * time.Hour
}

func (c *Config) SessionCleanupInterval() time.Duration {
	return time.Duration(c.Workers.SessionCleanupInterval) * time.Minute
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
