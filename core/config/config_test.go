package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			Token:   "123:abc",
			RunMode: "longpoll",
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "estatebot",
		},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = ""

	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode = %q", cfg.Telegram.RunMode)
	}
	if cfg.Shop.CzkRubRate != 4.0 {
		t.Errorf("rate default = %v", cfg.Shop.CzkRubRate)
	}
	if cfg.Shop.AdminSessionTTLSeconds != 300 {
		t.Errorf("ttl default = %d", cfg.Shop.AdminSessionTTLSeconds)
	}
	if cfg.Shop.SweepIntervalSeconds != 60 {
		t.Errorf("sweep default = %d", cfg.Shop.SweepIntervalSeconds)
	}
	if cfg.Shop.MenuReturnDelayMS != 1500 {
		t.Errorf("menu delay default = %d", cfg.Shop.MenuReturnDelayMS)
	}
}

func TestNormalizePollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("alias not normalized: %q", cfg.Telegram.RunMode)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("missing token accepted")
	}
}

func TestNormalizeRequiresMongo(t *testing.T) {
	cfg := validConfig()
	cfg.Mongo.URI = ""
	if err := Normalize(cfg); err == nil || !strings.Contains(err.Error(), "mongo.uri") {
		t.Fatalf("err = %v", err)
	}

	cfg = validConfig()
	cfg.Mongo.Database = " "
	if err := Normalize(cfg); err == nil || !strings.Contains(err.Error(), "mongo.database") {
		t.Fatalf("err = %v", err)
	}
}

func TestNormalizeWebhookValidation(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "webhook"
	if err := Normalize(cfg); err == nil {
		t.Fatal("webhook mode without url accepted")
	}

	cfg.Webhook = WebhookConfig{URL: "https://example.com/hook", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("valid webhook config rejected: %v", err)
	}
}

func TestNormalizeRejectsUnknownRunMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	if err := Normalize(cfg); err == nil {
		t.Fatal("unknown run mode accepted")
	}
}

func TestNormalizeRateLimitExcludes(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback ", "MESSAGE"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback || cfg.RateLimit.ExcludeUpdates[1] != UpdateMessage {
		t.Errorf("excludes not normalized: %v", cfg.RateLimit.ExcludeUpdates)
	}

	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("unknown exclude accepted")
	}
}

func TestIsAdmin(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.AdminIDs = []int64{10, 20}

	if !cfg.IsAdmin(10) || !cfg.IsAdmin(20) {
		t.Fatal("configured admin rejected")
	}
	if cfg.IsAdmin(30) {
		t.Fatal("stranger accepted")
	}
	if cfg.IsAdmin(0) {
		t.Fatal("zero id accepted")
	}
	var nilCfg *Config
	if nilCfg.IsAdmin(10) {
		t.Fatal("nil config accepted")
	}
}
