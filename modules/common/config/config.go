package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// Gemini API
	GeminiAPIKey      string
	GeminiVisionModel string
	GeminiImageModel  string

	// Supabase
	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	// Paystack
	PaystackSecretKey string
	PaystackBaseURL   string

	// Auth
	JWTSecret    string
	AdminUserIDs []string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Pricing
	PriceCents int
	Currency   string

	// Unlock
	SignedURLTTL time.Duration

	// Server
	Port string
}

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	// Redis UseTLS 파싱
	useTLS := true // 기본값
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	// PriceCents 파싱 (minor unit 기준, 기본값 ZAR 49.00)
	priceCents := 4900
	if priceStr := os.Getenv("PRICE_CENTS"); priceStr != "" {
		if parsed, err := strconv.Atoi(priceStr); err == nil && parsed > 0 {
			priceCents = parsed
		}
	}

	// Signed URL 만료 시간 파싱 (시간 단위)
	signedTTL := 24 * time.Hour
	if ttlStr := os.Getenv("SIGNED_URL_TTL_HOURS"); ttlStr != "" {
		if parsed, err := strconv.Atoi(ttlStr); err == nil && parsed > 0 {
			signedTTL = time.Duration(parsed) * time.Hour
		}
	}

	// Admin 유저 ID 목록 (콤마 구분)
	var adminIDs []string
	for _, id := range strings.Split(os.Getenv("ADMIN_USER_IDS"), ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			adminIDs = append(adminIDs, trimmed)
		}
	}

	globalConfig = &Config{
		// Gemini API
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiVisionModel: getEnv("GEMINI_VISION_MODEL", "gemini-3-pro-preview"),
		GeminiImageModel:  getEnv("GEMINI_IMAGE_MODEL", "gemini-3-pro-image-preview"),

		// Supabase
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseBucket:     getEnv("SUPABASE_BUCKET", "glowups"),

		// Paystack
		PaystackSecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackBaseURL:   getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),

		// Auth
		JWTSecret:    getEnv("JWT_SECRET", ""),
		AdminUserIDs: adminIDs,

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		// Pricing
		PriceCents: priceCents,
		Currency:   getEnv("CURRENCY", "ZAR"),

		// Unlock
		SignedURLTTL: signedTTL,

		// Server
		Port: getEnv("PORT", "8080"),
	}

	// 필수 환경변수 검증
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Gemini: vision=%s, image=%s", globalConfig.GeminiVisionModel, globalConfig.GeminiImageModel)
	log.Printf("   Supabase: %s (bucket: %s)", globalConfig.SupabaseURL, globalConfig.SupabaseBucket)
	log.Printf("   Redis: %s:%s (TLS: %v)", globalConfig.RedisHost, globalConfig.RedisPort, globalConfig.RedisUseTLS)
	log.Printf("   Price: %d %s, signed URL TTL: %s", globalConfig.PriceCents, globalConfig.Currency, globalConfig.SignedURLTTL)

	return globalConfig, nil
}

// GetConfig - 로드된 설정 가져오기
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - 필수 환경변수 검증
func (c *Config) validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if c.PaystackSecretKey == "" {
		return fmt.Errorf("PAYSTACK_SECRET_KEY is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
