package unlock

import (
	"context"
	"fmt"
	"log"
	"time"

	"glowup-server/modules/common/apperr"
	"glowup-server/modules/common/model"
	"glowup-server/modules/common/paystack"
)

// job ID/참조번호 최소 길이 (실제 값들은 이보다 항상 길다)
const minIDLen = 4

// Verifier - 결제 검증기
type Verifier interface {
	Verify(ctx context.Context, reference string) (*paystack.Verification, error)
}

// Ledger - Job 조회/갱신
type Ledger interface {
	GetJob(ownerID, glowupID string) (*model.GlowupJob, error)
	UpdateJob(ownerID, glowupID string, fields map[string]interface{}) error
}

// URLSigner - 만료형 다운로드 URL 발급기
type URLSigner interface {
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

// ReferenceClaimer - 결제 참조번호 1회 사용 보장
type ReferenceClaimer interface {
	Claim(ctx context.Context, reference, glowupID string) error
}

// AdminPolicy - 결제 검증 우회 여부 판정 (검증 단계만 건너뛴다)
type AdminPolicy func(userID string) bool

// Service - 결제 검증 → 언락 오케스트레이터
type Service struct {
	verifier Verifier
	ledger   Ledger
	signer   URLSigner
	claimer  ReferenceClaimer
	isAdmin  AdminPolicy

	signedURLTTL time.Duration

	now func() time.Time
}

// NewService - 의존성 주입으로 서비스 구성
func NewService(verifier Verifier, ledger Ledger, signer URLSigner, claimer ReferenceClaimer, isAdmin AdminPolicy, signedURLTTL time.Duration) *Service {
	return &Service{
		verifier:     verifier,
		ledger:       ledger,
		signer:       signer,
		claimer:      claimer,
		isAdmin:      isAdmin,
		signedURLTTL: signedURLTTL,
		now:          time.Now,
	}
}

// Unlock - 결제를 검증하고 보정본 다운로드 URL 발급
// 검증 실패 시 레저는 절대 건드리지 않는다
func (s *Service) Unlock(ctx context.Context, ownerID string, req UnlockRequest) (*UnlockResponse, error) {
	if ownerID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "authentication required")
	}
	if len(req.GlowupID) < minIDLen {
		return nil, apperr.New(apperr.InvalidArgument, "invalid glowupId")
	}
	if len(req.Reference) < minIDLen {
		return nil, apperr.New(apperr.InvalidArgument, "invalid payment reference")
	}

	job, err := s.ledger.GetJob(ownerID, req.GlowupID)
	if err != nil {
		return nil, err
	}

	// 같은 참조번호로 이미 언락된 Job이면 URL만 재발급 (멱등)
	if job.Status == model.StatusUnlocked {
		if job.PaystackReference != req.Reference {
			return nil, apperr.New(apperr.FailedPrecondition,
				fmt.Sprintf("job already unlocked: %s", job.GlowupID))
		}
		return s.issueURL(ctx, job)
	}

	// 결제 검증 (운영자는 이 단계만 건너뜀)
	if s.isAdmin == nil || !s.isAdmin(ownerID) {
		verification, err := s.verifier.Verify(ctx, req.Reference)
		if err != nil {
			return nil, err
		}
		if verification.Status != "success" {
			return nil, apperr.New(apperr.PermissionDenied,
				fmt.Sprintf("payment not completed: status=%s", verification.Status))
		}
		if verification.Amount < job.PriceCents {
			return nil, apperr.New(apperr.FailedPrecondition,
				fmt.Sprintf("payment amount %d below price %d", verification.Amount, job.PriceCents))
		}
		if verification.Currency != "" && verification.Currency != job.Currency {
			return nil, apperr.New(apperr.FailedPrecondition,
				fmt.Sprintf("payment currency %s does not match %s", verification.Currency, job.Currency))
		}
	} else {
		log.Printf("🔓 Admin bypass for unlock (user: %s, job: %s)", ownerID, job.GlowupID)
	}

	// 참조번호 소비 (다른 Job에서 재사용 차단)
	if err := s.claimer.Claim(ctx, req.Reference, job.GlowupID); err != nil {
		return nil, err
	}

	resp, err := s.issueURL(ctx, job)
	if err != nil {
		return nil, err
	}

	unlockedAt := s.now().UTC()
	err = s.ledger.UpdateJob(ownerID, job.GlowupID, map[string]interface{}{
		"status":             model.StatusUnlocked,
		"download_url":       resp.DownloadURL,
		"paystack_reference": req.Reference,
		"unlocked_at":        unlockedAt.Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Job unlocked: %s (owner: %s)", job.GlowupID, ownerID)
	return resp, nil
}

// issueURL - 보정본 경로로 서명 URL 발급 (구버전 레코드는 원본으로 폴백)
func (s *Service) issueURL(ctx context.Context, job *model.GlowupJob) (*UnlockResponse, error) {
	path := job.EnhancedPath
	if path == "" {
		path = job.OriginalPath
	}
	if path == "" {
		return nil, apperr.New(apperr.FailedPrecondition, "job has no downloadable artifact")
	}

	downloadURL, err := s.signer.SignedURL(ctx, path, s.signedURLTTL)
	if err != nil {
		return nil, err
	}

	return &UnlockResponse{
		GlowupID:    job.GlowupID,
		DownloadURL: downloadURL,
		ExpiresIn:   int(s.signedURLTTL.Seconds()),
	}, nil
}
