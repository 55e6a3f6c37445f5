package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"glowup-server/modules/auth"
	"glowup-server/modules/common/config"
	"glowup-server/modules/common/database"
	"glowup-server/modules/common/gemini"
	"glowup-server/modules/common/paystack"
	"glowup-server/modules/common/redis"
	"glowup-server/modules/common/storage"
	"glowup-server/modules/glowup"
	"glowup-server/modules/progress"
	"glowup-server/modules/unlock"
)

// CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "glowup-server",
	})
}

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Gemini 클라이언트
	geminiClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiVisionModel, cfg.GeminiImageModel)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini client: %v", err)
	}

	// Supabase Storage + 레저
	storageClient := storage.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket)
	dbClient, err := database.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Supabase client: %v", err)
	}

	// Paystack 결제 검증
	paystackClient := paystack.NewClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey)

	// Redis: 결제 참조번호 레지스트리
	rdb := redis.Connect(cfg)
	if rdb == nil {
		log.Fatalf("❌ Failed to connect to Redis")
	}
	refRegistry := redis.NewReferenceRegistry(rdb)

	// 진행률 허브
	hub := progress.NewHub()

	// 서비스 조립
	glowupService := glowup.NewService(
		geminiClient, geminiClient, storageClient, dbClient, hub,
		cfg.PriceCents, cfg.Currency,
	)
	unlockService := unlock.NewService(
		paystackClient, dbClient, storageClient, refRegistry,
		auth.AdminPolicy(cfg.AdminUserIDs), cfg.SignedURLTTL,
	)

	// 라우터 설정
	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")

	// 진행률 웹소켓 (인증 불필요, 티켓 기반)
	progress.NewHandler(hub).RegisterRoutes(r)

	// 인증 필요한 API
	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware(cfg.JWTSecret))
	glowup.NewHandler(glowupService).RegisterRoutes(api)
	unlock.NewHandler(unlockService).RegisterRoutes(api)

	log.Printf("🚀 GlowUp server starting on port %s", cfg.Port)
	log.Printf("✨ Analyze endpoint: http://localhost:%s/api/glowup/analyze", cfg.Port)
	log.Printf("🔓 Unlock endpoint: http://localhost:%s/api/glowup/unlock", cfg.Port)
	log.Printf("📡 Progress WebSocket: ws://localhost:%s/ws/progress", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
