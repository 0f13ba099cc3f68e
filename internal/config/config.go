package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryDSN string `env:"SENTRY_DSN"`
	}
	Telegram struct {
		Token         string `env:"TELEGRAM_TOKEN"`
		ZipLimitBytes int64  `env:"TELEGRAM_ZIP_LIMIT_BYTES" env-default:"47185920"`
	}
	Instagram struct {
		SessionID      string `env:"INSTAGRAM_SESSION_ID"`
		KeyringService string `env:"INSTAGRAM_KEYRING_SERVICE" env-default:"instapack"`
		UserAgent      string `env:"INSTAGRAM_USER_AGENT" env-default:"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.0 Safari/605.1.15"`
	}
	Downloader struct {
		ThrottleSeconds float64 `env:"THROTTLE_SECONDS" env-default:"0.6"`
		JitterSeconds   float64 `env:"THROTTLE_JITTER_SECONDS" env-default:"0.4"`
		MaxAttempts     int     `env:"DOWNLOADER_MAX_ATTEMPTS" env-default:"3"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	History struct {
		RetentionDays int `env:"HISTORY_RETENTION_DAYS" env-default:"30"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// GetDSN returns the postgres connection string in keyword form.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}
