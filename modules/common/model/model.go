package model

import "time"

// Job 상태 (locked → unlocked 단방향)
const (
	StatusLocked   = "locked"
	StatusUnlocked = "unlocked"
)

// 스타일 프로필 키 (닫힌 집합)
const (
	StyleIphone = "iphone"
	StyleDSLR   = "dslr"
)

// ValidStyle - 지원하는 스타일인지 확인
func ValidStyle(style string) bool {
	return style == StyleIphone || style == StyleDSLR
}

// GlowupJob - glowup_jobs 테이블 문서 (소유자+job ID로 키잉)
type GlowupJob struct {
	GlowupID string `json:"glowup_id"`
	OwnerID  string `json:"owner_id"`
	Style    string `json:"style"`
	Status   string `json:"status"`

	// Vision Describer 결과 (생성 제약 겸 투명성용으로 보존)
	Vision string `json:"vision"`

	// Storage 경로 (원본은 결제 전 절대 노출 금지)
	OriginalPath        string `json:"original_path"`
	EnhancedPath        string `json:"enhanced_path"`
	PreviewPath         string `json:"preview_path"`
	OriginalPreviewPath string `json:"original_preview_path"`

	// 공개 프리뷰 URL (워터마크 포함)
	PreviewURL         string `json:"preview_url"`
	OriginalPreviewURL string `json:"original_preview_url"`

	// 가격 (생성 시점에 고정, 불변)
	PriceCents int    `json:"price_cents"`
	Currency   string `json:"currency"`

	// 언락 필드 (status=unlocked일 때만 세팅)
	PaystackReference string     `json:"paystack_reference,omitempty"`
	DownloadURL       string     `json:"download_url,omitempty"`
	UnlockedAt        *time.Time `json:"unlocked_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ArtifactPaths - 유저+job 기준 결정적 경로 생성
type ArtifactPaths struct {
	Original        string
	Enhanced        string
	Preview         string
	OriginalPreview string
}

// PathsFor - 아티팩트 경로 네임스페이스 규칙
func PathsFor(ownerID, glowupID string) ArtifactPaths {
	return ArtifactPaths{
		Original:        "originals/" + ownerID + "/" + glowupID + ".jpg",
		Enhanced:        "enhanced/" + ownerID + "/" + glowupID + ".jpg",
		Preview:         "previews/" + ownerID + "/" + glowupID + ".jpg",
		OriginalPreview: "previews/" + ownerID + "/" + glowupID + "-original.jpg",
	}
}
