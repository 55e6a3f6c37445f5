package retry

import (
	"context"
	"log"
	"math/rand"
	"time"

	"glowup-server/modules/common/apperr"
)

// maxJitter - 동시 재시도 분산용 랜덤 지연 상한
const maxJitter = time.Second

// Do - 실패 가능한 작업을 지수 백오프 + 지터로 재시도하는 헬퍼 함수
// op: 실행할 작업
// maxAttempts: 최대 시도 횟수 (호출마다 독립 카운터)
// baseDelay: 첫 재시도 전 기본 대기 시간
// 재시도 대상이 아닌 에러는 즉시 반환 (프로그래밍 오류/잘못된 입력은 기다려도 소용없음)
func Do[T any](ctx context.Context, op func() (T, error), maxAttempts int, baseDelay time.Duration) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !Retryable(err) {
			return zero, err
		}

		// 마지막 시도면 대기 없이 종료
		if attempt == maxAttempts-1 {
			break
		}

		// 지수 백오프 + 지터 (동시 호출자들의 재시도 폭주 방지)
		backoff := baseDelay * time.Duration(1<<attempt)
		jitter := time.Duration(rand.Int63n(int64(maxJitter)))
		delay := backoff + jitter

		log.Printf("⚠️  [Retry] Attempt %d/%d failed, retrying in %s: %v", attempt+1, maxAttempts, delay.Round(time.Millisecond), err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	log.Printf("❌ [Retry] All %d attempts exhausted: %v", maxAttempts, lastErr)
	return zero, lastErr
}

// Retryable - 일시적 과부하 계열 에러인지 확인
// 분류는 gemini 경계에서 타입으로 이루어지므로 여기서는 코드만 본다
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	switch apperr.CodeOf(err) {
	case apperr.ResourceExhausted, apperr.Unavailable:
		return true
	default:
		return false
	}
}
