package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`
	AdminUserID      int64  `env:"ADMIN_USER"`

	// Content
	CatalogPath string `env:"CATALOG_PATH" envDefault:"data/ac_models.json"`
	TheoryPath  string `env:"THEORY_PATH" envDefault:"data/theory_guide.json"`
	BTUPerM2    int    `env:"BTU_PER_M2" envDefault:"340"`

	// Storage
	UsersFilePath string `env:"USERS_FILE_PATH" envDefault:"data/users.json"`
	LogFilePath   string `env:"LOG_FILE_PATH" envDefault:"logs/calculations.jsonl"`

	// Optional audit sinks
	AuditPostgresDSN string   `env:"AUDIT_POSTGRES_DSN"`
	KafkaBrokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic       string   `env:"KAFKA_TOPIC" envDefault:"ac.calculations"`
	RedisAddr        string   `env:"REDIS_ADDR"`
	AuditQueueSize   int      `env:"AUDIT_QUEUE_SIZE" envDefault:"256"`

	// Sessions and schedules (UTC)
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	SessionSweepCron   string        `env:"SESSION_SWEEP_CRON" envDefault:"@every 1m"`
	ReportCron         string        `env:"REPORT_CRON" envDefault:"0 21 * * *"`

	// Ops HTTP, disabled when empty
	HTTPAddr string `env:"HTTP_ADDR"`

	// Formatting
	MessageParseMode string `env:"MESSAGE_PARSE_MODE" envDefault:"Markdown"`
}

func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// Parse reads the configuration from the environment.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
