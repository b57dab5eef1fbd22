package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token    string  `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminIDs []int64 `yaml:"admin_ids" envconfig:"TELEGRAM_ADMIN_IDS"`
	RunMode  string  `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	Dir     string `yaml:"dir"`
	BotFile string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// MongoConfig holds document store connection settings.
type MongoConfig struct {
	URI      string `yaml:"uri" envconfig:"MONGO_URI"`
	Database string `yaml:"database" envconfig:"MONGO_DATABASE"`
	// OpTimeoutSeconds bounds a single store operation; 0 -> 5s default.
	OpTimeoutSeconds int `yaml:"op_timeout_seconds" envconfig:"MONGO_OP_TIMEOUT_SECONDS"`
}

// ShopConfig groups catalog and session policy knobs.
type ShopConfig struct {
	// CzkRubRate is the fixed conversion rate: RUB per 1 CZK. The derived
	// price is display-only and is always recomputed from the authoritative
	// currency.
	CzkRubRate float64 `yaml:"czk_rub_rate" envconfig:"SHOP_CZK_RUB_RATE"`

	// AdminSessionTTLSeconds is the idle window after which an abandoned
	// admin prompt session is evicted.
	AdminSessionTTLSeconds int `yaml:"admin_session_ttl_seconds" envconfig:"SHOP_ADMIN_SESSION_TTL_SECONDS"`
	// SweepIntervalSeconds is the period of the expiry sweeper.
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds" envconfig:"SHOP_SWEEP_INTERVAL_SECONDS"`

	// MenuReturnDelayMS delays the admin menu re-render after a confirmation
	// so the confirmation stays visible for a moment.
	MenuReturnDelayMS int `yaml:"menu_return_delay_ms" envconfig:"SHOP_MENU_RETURN_DELAY_MS"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates the full bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Shop      ShopConfig      `yaml:"shop"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if strings.TrimSpace(cfg.Mongo.URI) == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	if strings.TrimSpace(cfg.Mongo.Database) == "" {
		return fmt.Errorf("mongo.database is required")
	}
	if cfg.Mongo.OpTimeoutSeconds < 0 {
		return fmt.Errorf("mongo.op_timeout_seconds must be >= 0")
	}

	if cfg.Shop.CzkRubRate < 0 {
		return fmt.Errorf("shop.czk_rub_rate must be >= 0")
	}
	if cfg.Shop.CzkRubRate == 0 {
		cfg.Shop.CzkRubRate = 4.0
	}
	if cfg.Shop.AdminSessionTTLSeconds <= 0 {
		cfg.Shop.AdminSessionTTLSeconds = 300
	}
	if cfg.Shop.SweepIntervalSeconds <= 0 {
		cfg.Shop.SweepIntervalSeconds = 60
	}
	if cfg.Shop.MenuReturnDelayMS <= 0 {
		cfg.Shop.MenuReturnDelayMS = 1500
	}

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}

// IsAdmin reports whether the given Telegram user id belongs to a configured admin.
func (c *Config) IsAdmin(userID int64) bool {
	if c == nil {
		return false
	}
	for _, id := range c.Telegram.AdminIDs {
		if id != 0 && id == userID {
			return true
		}
	}
	return false
}
