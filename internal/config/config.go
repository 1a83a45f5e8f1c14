package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Config holds every setting the storefront reads from the environment.
type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	AppPort     string `envconfig:"APP_PORT"     default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL"    default:"info"`

	RemoteBaseURL string        `envconfig:"REMOTE_BASE_URL" default:"http://10.0.2.2:8080/"`
	RemoteTimeout time.Duration `envconfig:"REMOTE_TIMEOUT"  default:"10s"`
	AssetBaseURL  string        `envconfig:"ASSET_BASE_URL"  default:"https://tu-bucket-s3.amazonaws.com/imagenes/"`

	JWTSecret  string        `envconfig:"JWT_SECRET"  required:"true"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	SyncOnStartup      bool          `envconfig:"SYNC_ON_STARTUP"      default:"true"`
	SyncInterval       time.Duration `envconfig:"SYNC_INTERVAL"        default:"0s"`
	LiveGracePeriod    time.Duration `envconfig:"LIVE_GRACE_PERIOD"    default:"5s"`
	SeedSampleProducts bool          `envconfig:"SEED_SAMPLE_PRODUCTS" default:"false"`

	// Receipt mail is disabled while SMTPHost is empty.
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT"     default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM"     default:"no-reply@limpiohogar.cl"`
}

// Load reads an optional .env file and then the process environment, and
// applies LOG_LEVEL to logger.
func Load(logger *logrus.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			logger.Info("Config: .env file not found, using environment variables")
		} else {
			logger.Warnf("Config: error loading .env file (continuing): %v", err)
		}
	} else {
		logger.Info("Config: loaded .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if cfg.SyncInterval < 0 {
		return nil, fmt.Errorf("SYNC_INTERVAL must not be negative")
	}
	if cfg.LiveGracePeriod < 0 {
		return nil, fmt.Errorf("LIVE_GRACE_PERIOD must not be negative")
	}

	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logger.Warnf("Config: invalid LOG_LEVEL '%s', keeping %s", cfg.LogLevel, logger.GetLevel())
	} else {
		logger.SetLevel(lvl)
	}

	logger.WithFields(logrus.Fields{
		"port":          cfg.AppPort,
		"remote":        cfg.RemoteBaseURL,
		"sync_interval": cfg.SyncInterval.String(),
		"smtp_enabled":  cfg.SMTPHost != "",
	}).Info("Config: configuration loaded")
	return &cfg, nil
}

// NewLogger builds the process logger. Empty or unknown levels fall back to info.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", level, lvl)
	}
	logger.SetLevel(lvl)
	return logger
}
