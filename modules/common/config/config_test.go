package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "gk")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "sk")
	t.Setenv("PAYSTACK_SECRET_KEY", "pk")
	t.Setenv("JWT_SECRET", "jwt")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GeminiVisionModel != "gemini-3-pro-preview" {
		t.Errorf("unexpected vision model: %s", cfg.GeminiVisionModel)
	}
	if cfg.GeminiImageModel != "gemini-3-pro-image-preview" {
		t.Errorf("unexpected image model: %s", cfg.GeminiImageModel)
	}
	if cfg.SupabaseBucket != "glowups" {
		t.Errorf("unexpected bucket: %s", cfg.SupabaseBucket)
	}
	if cfg.PaystackBaseURL != "https://api.paystack.co" {
		t.Errorf("unexpected Paystack URL: %s", cfg.PaystackBaseURL)
	}
	if cfg.PriceCents != 4900 || cfg.Currency != "ZAR" {
		t.Errorf("unexpected price: %d %s", cfg.PriceCents, cfg.Currency)
	}
	if cfg.SignedURLTTL != 24*time.Hour {
		t.Errorf("unexpected signed URL TTL: %s", cfg.SignedURLTTL)
	}
	if cfg.Port != "8080" {
		t.Errorf("unexpected port: %s", cfg.Port)
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error when GEMINI_API_KEY is missing")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PRICE_CENTS", "9900")
	t.Setenv("CURRENCY", "NGN")
	t.Setenv("SIGNED_URL_TTL_HOURS", "6")
	t.Setenv("ADMIN_USER_IDS", "admin-1, admin-2")
	t.Setenv("REDIS_USE_TLS", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.PriceCents != 9900 || cfg.Currency != "NGN" {
		t.Errorf("unexpected price override: %d %s", cfg.PriceCents, cfg.Currency)
	}
	if cfg.SignedURLTTL != 6*time.Hour {
		t.Errorf("unexpected TTL override: %s", cfg.SignedURLTTL)
	}
	if len(cfg.AdminUserIDs) != 2 || cfg.AdminUserIDs[0] != "admin-1" || cfg.AdminUserIDs[1] != "admin-2" {
		t.Errorf("unexpected admin IDs: %v", cfg.AdminUserIDs)
	}
	if cfg.RedisUseTLS {
		t.Error("expected TLS disabled")
	}
}

func TestGetRedisAddr(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.GetRedisAddr(); got != "redis.internal:6380" {
		t.Errorf("unexpected redis addr: %s", got)
	}
}
