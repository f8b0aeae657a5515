package config

import (
	"errors"
	"fmt"
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
		Driver          string `yaml:"driver"` // postgres, mysql, sqlite
		DSN             string `yaml:"url"`
		MaxOpenConns    int    `yaml:"max_open_conns"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime_minutes"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // часы
	} `yaml:"jwt"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	SMS struct {
		Provider string `yaml:"provider"` // log, http
		Endpoint string `yaml:"endpoint"`
		APIKey   string `yaml:"api_key"`
		Sender   string `yaml:"sender"`
	} `yaml:"sms"`

	Notifications struct {
		Queue          string `yaml:"queue"` // memory, redis
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		RedisAddr      string `yaml:"redis_addr"`
		RedisPassword  string `yaml:"redis_password"`
		RedisDB        int    `yaml:"redis_db"`
		RedisKey       string `yaml:"redis_key"`
	} `yaml:"notifications"`

	Storage struct {
		Type      string `yaml:"type"`      // local, s3
		BasePath  string `yaml:"base_path"` // для local
		BaseURL   string `yaml:"base_url"`  // публичный префикс URL
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Endpoint  string `yaml:"endpoint"` // R2 или другой S3-совместимый
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"` // байты
		AllowedTypes []string `yaml:"allowed_types"`
		MaxDimension int      `yaml:"max_dimension"`
		MaxPixels    int64    `yaml:"max_pixels"` // ширина*высота до декодирования
		ImageQuality int      `yaml:"image_quality"`
	} `yaml:"upload"`

	FirstAdmin struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"first_admin"`
}

// LoadConfig читает .env (если есть), затем config.yaml.
// Если задан DATABASE_URL или файла нет, конфигурация собирается из переменных окружения.
func LoadConfig() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := Defaults()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if os.Getenv("DATABASE_URL") == "" {
		if err := loadFile(configPath, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

// Defaults - значения для локального запуска без файла конфигурации
func Defaults() *Config {
	var cfg Config

	cfg.Server.Port = 5000
	cfg.Server.Env = "development"
	cfg.Server.CORSOrigins = []string{"*"}

	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "iskort.db"
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 5
	cfg.Database.ConnMaxLifetime = 30

	cfg.JWT.Secret = "change-me"
	cfg.JWT.TTL = 24

	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "Iskort"

	cfg.SMS.Provider = "log"

	cfg.Notifications.Queue = "memory"
	cfg.Notifications.TimeoutSeconds = 10
	cfg.Notifications.RedisAddr = "localhost:6379"
	cfg.Notifications.RedisKey = "iskort:notifications"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"

	cfg.Upload.MaxSize = 5 * 1024 * 1024 // 5MB
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png"}
	cfg.Upload.MaxDimension = 1600
	cfg.Upload.MaxPixels = 40_000_000
	cfg.Upload.ImageQuality = 85

	return &cfg
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Env, "SERVER_ENV")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.Server.CORSOrigins = append(cfg.Server.CORSOrigins, origin)
			}
		}
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Database.DSN = dsn
		if cfg.Database.Driver == "sqlite" {
			cfg.Database.Driver = "postgres"
		}
	}
	setString(&cfg.Database.Driver, "DATABASE_DRIVER")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setInt(&cfg.JWT.TTL, "JWT_TTL_HOURS")

	setString(&cfg.Email.SMTPHost, "SMTP_HOST")
	setInt(&cfg.Email.SMTPPort, "SMTP_PORT")
	setString(&cfg.Email.SMTPUsername, "SMTP_USER")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Email.FromEmail, "SMTP_FROM")
	if cfg.Email.SMTPHost != "" && os.Getenv("SMTP_HOST") != "" {
		cfg.Email.Enabled = true
	}

	setString(&cfg.SMS.Provider, "SMS_PROVIDER")
	setString(&cfg.SMS.Endpoint, "SMS_ENDPOINT")
	setString(&cfg.SMS.APIKey, "SMS_API_KEY")
	setString(&cfg.SMS.Sender, "SMS_SENDER")

	setString(&cfg.Notifications.Queue, "NOTIFICATION_QUEUE")
	setString(&cfg.Notifications.RedisAddr, "REDIS_URL")
	setString(&cfg.Notifications.RedisPassword, "REDIS_PASSWORD")

	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")

	setString(&cfg.FirstAdmin.Name, "FIRST_ADMIN_NAME")
	setString(&cfg.FirstAdmin.Email, "FIRST_ADMIN_EMAIL")
	setString(&cfg.FirstAdmin.Password, "FIRST_ADMIN_PASSWORD")
}

// Validate отсекает комбинации, с которыми приложение не сможет стартовать
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database url is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required")
	}
	if c.Server.Env == "production" && c.JWT.Secret == "change-me" {
		return errors.New("jwt secret must be set in production")
	}
	for _, origin := range c.Server.CORSOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("cors origin %q must be \"*\" or start with http:// or https://", origin)
		}
	}
	switch c.SMS.Provider {
	case "log":
	case "http":
		if c.SMS.Endpoint == "" {
			return errors.New("sms endpoint is required for http provider")
		}
	default:
		return fmt.Errorf("unsupported sms provider %q", c.SMS.Provider)
	}
	switch c.Notifications.Queue {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported notification queue %q", c.Notifications.Queue)
	}
	switch c.Storage.Type {
	case "local":
	case "s3":
		if c.Storage.Bucket == "" {
			return errors.New("storage bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type %q", c.Storage.Type)
	}
	return nil
}

// IsDevelopment - режим разработки (подробные ошибки, text-логи)
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// JWTTTL возвращает время жизни токена
func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWT.TTL) * time.Hour
}

// NotificationTimeout - таймаут одной отправки уведомления
func (c *Config) NotificationTimeout() time.Duration {
	if c.Notifications.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Notifications.TimeoutSeconds) * time.Second
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
