package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"glowup-server/modules/common/apperr"
	"glowup-server/modules/common/config"
)

// Connect - Redis 연결 생성
func Connect(cfg *config.Config) *redis.Client {
	log.Printf("🔌 Connecting to Redis: %s", cfg.GetRedisAddr())

	var tlsConfig *tls.Config
	if cfg.RedisUseTLS {
		tlsConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true, // 관리형 Redis의 사설 인증서용
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Username:     cfg.RedisUsername,
		Password:     cfg.RedisPassword,
		TLSConfig:    tlsConfig,
		DB:           0,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Printf("🔍 Testing Redis connection...")
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("❌ Redis ping failed: %v", err)
		return nil
	}

	return rdb
}

// 소비된 결제 참조번호 보관 기간 (Paystack 거래 조회 가능 기간보다 길게)
const referenceTTL = 48 * time.Hour

// ReferenceRegistry - 결제 참조번호 1회 사용 레지스트리
// 같은 참조번호로 두 번째 언락 시도가 오면 거부한다
type ReferenceRegistry struct {
	rdb *redis.Client
}

// NewReferenceRegistry - 레지스트리 생성
func NewReferenceRegistry(rdb *redis.Client) *ReferenceRegistry {
	return &ReferenceRegistry{rdb: rdb}
}

// Claim - 참조번호를 해당 Job에 귀속 (원자적, 이미 소비된 번호면 에러)
func (r *ReferenceRegistry) Claim(ctx context.Context, reference, glowupID string) error {
	key := "payref:" + reference

	ok, err := r.rdb.SetNX(ctx, key, glowupID, referenceTTL).Result()
	if err != nil {
		return apperr.Wrap(apperr.Unavailable, "reference registry unavailable", err)
	}
	if !ok {
		// 같은 Job의 재시도면 멱등 처리 허용
		owner, getErr := r.rdb.Get(ctx, key).Result()
		if getErr == nil && owner == glowupID {
			return nil
		}
		return apperr.New(apperr.PermissionDenied,
			fmt.Sprintf("payment reference already used: %s", reference))
	}

	log.Printf("✅ Payment reference claimed: %s → %s", reference, glowupID)
	return nil
}
