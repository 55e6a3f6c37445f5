package glowup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"glowup-server/modules/common/apperr"
	"glowup-server/modules/common/model"
	"glowup-server/modules/common/storage"
	"glowup-server/modules/common/utils"
	"glowup-server/modules/common/watermark"
)

// 프리뷰 파라미터 (원본 소스와 합의된 값)
const (
	watermarkText          = "GLOWUP PREVIEW"
	previewQuality         = 92
	originalPreviewQuality = 82
	originalPreviewMaxSize = 1600
	previewCacheControl    = "public, max-age=31536000"
)

// Describer - 비전 설명 생성기
type Describer interface {
	Describe(ctx context.Context, imageData []byte, mimeType string) (string, error)
}

// Enhancer - 스타일 보정 생성기
type Enhancer interface {
	Enhance(ctx context.Context, imageData []byte, mimeType, instruction string) ([]byte, error)
}

// ArtifactStore - 이미지 아티팩트 저장소
type ArtifactStore interface {
	Upload(ctx context.Context, path string, data []byte, opts storage.UploadOptions) error
	PublicURL(path string) string
}

// Ledger - Job 기록부
type Ledger interface {
	CreateJob(job *model.GlowupJob) error
}

// ProgressSink - 단계별 진행 알림 (티켓 없는 요청엔 no-op)
type ProgressSink interface {
	Publish(ticket, stage string)
}

// Service - 업로드 → 비전 → 보정 → 워터마크 → 저장 오케스트레이터
type Service struct {
	describer Describer
	enhancer  Enhancer
	store     ArtifactStore
	ledger    Ledger
	progress  ProgressSink

	priceCents int
	currency   string

	// 테스트 주입 포인트
	newID func() string
	now   func() time.Time
}

// NewService - 의존성 주입으로 서비스 구성
func NewService(describer Describer, enhancer Enhancer, store ArtifactStore, ledger Ledger, progress ProgressSink, priceCents int, currency string) *Service {
	return &Service{
		describer:  describer,
		enhancer:   enhancer,
		store:      store,
		ledger:     ledger,
		progress:   progress,
		priceCents: priceCents,
		currency:   currency,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

// Analyze - 전체 보정 파이프라인 실행
// 어느 단계든 실패하면 즉시 중단하고 Job 레코드를 남기지 않는다
func (s *Service) Analyze(ctx context.Context, ownerID string, req AnalyzeRequest) (*AnalyzeResponse, error) {
	if ownerID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "authentication required")
	}
	if req.ImageBase64 == "" {
		return nil, apperr.New(apperr.InvalidArgument, "imageBase64 is required")
	}
	if !model.ValidStyle(req.Style) {
		return nil, apperr.New(apperr.InvalidArgument,
			fmt.Sprintf("unsupported style: %q (expected %s or %s)", req.Style, model.StyleIphone, model.StyleDSLR))
	}

	imageData, err := utils.DecodeBase64Image(req.ImageBase64)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidArgument, "invalid base64 image", err)
	}

	_, format, err := utils.DecodeImage(imageData)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidArgument, "unsupported image format", err)
	}
	mimeType := utils.SniffMIMEType(format)

	log.Printf("✨ GlowUp pipeline started (owner: %s, style: %s, %d bytes)", ownerID, req.Style, len(imageData))

	// 1. 비전 분석 (실패하면 파이프라인 전체 중단)
	s.progress.Publish(req.Ticket, "analyzing")
	vision, err := s.describer.Describe(ctx, imageData, mimeType)
	if err != nil {
		return nil, err
	}

	// 2. 스타일 보정 생성
	s.progress.Publish(req.Ticket, "enhancing")
	instruction := BuildInstruction(req.Style, vision)
	enhancedData, err := s.enhancer.Enhance(ctx, imageData, mimeType, instruction)
	if err != nil {
		return nil, err
	}

	// 3. 아티팩트 합성
	s.progress.Publish(req.Ticket, "compositing")

	enhancedImg, _, err := utils.DecodeImage(enhancedData)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "generated image is not decodable", err)
	}
	enhancedJPEG, err := utils.EncodeJPEG(enhancedImg, previewQuality)
	if err != nil {
		return nil, err
	}

	// 보정 프리뷰: 풀사이즈 + 워터마크
	previewJPEG, err := watermark.Apply(enhancedJPEG, watermarkText, watermark.Options{Quality: previewQuality})
	if err != nil {
		return nil, err
	}

	// 원본 프리뷰: 축소 + 워터마크 (비교용)
	originalPreviewJPEG, err := watermark.Apply(imageData, watermarkText, watermark.Options{
		MaxSize: originalPreviewMaxSize,
		Quality: originalPreviewQuality,
	})
	if err != nil {
		return nil, err
	}

	// 4. 업로드
	s.progress.Publish(req.Ticket, "uploading")
	glowupID := s.newID()
	paths := model.PathsFor(ownerID, glowupID)

	jpegOpts := storage.UploadOptions{ContentType: "image/jpeg"}
	previewOpts := storage.UploadOptions{ContentType: "image/jpeg", CacheControl: previewCacheControl}

	// 원본은 재인코딩 없이 업로드된 바이트 그대로 보존한다
	if err := s.store.Upload(ctx, paths.Original, imageData, storage.UploadOptions{ContentType: mimeType}); err != nil {
		return nil, err
	}
	if err := s.store.Upload(ctx, paths.Enhanced, enhancedJPEG, jpegOpts); err != nil {
		return nil, err
	}
	if err := s.store.Upload(ctx, paths.Preview, previewJPEG, previewOpts); err != nil {
		return nil, err
	}
	if err := s.store.Upload(ctx, paths.OriginalPreview, originalPreviewJPEG, previewOpts); err != nil {
		return nil, err
	}

	// 5. 레저 기록 (locked, 가격 고정)
	job := &model.GlowupJob{
		GlowupID:            glowupID,
		OwnerID:             ownerID,
		Style:               req.Style,
		Status:              model.StatusLocked,
		Vision:              vision,
		OriginalPath:        paths.Original,
		EnhancedPath:        paths.Enhanced,
		PreviewPath:         paths.Preview,
		OriginalPreviewPath: paths.OriginalPreview,
		PreviewURL:          s.store.PublicURL(paths.Preview),
		OriginalPreviewURL:  s.store.PublicURL(paths.OriginalPreview),
		PriceCents:          s.priceCents,
		Currency:            s.currency,
		CreatedAt:           s.now().UTC(),
	}
	if err := s.ledger.CreateJob(job); err != nil {
		return nil, err
	}

	s.progress.Publish(req.Ticket, "done")
	log.Printf("✅ GlowUp complete: %s", glowupID)

	return &AnalyzeResponse{
		GlowupID:           glowupID,
		PreviewURL:         job.PreviewURL,
		OriginalPreviewURL: job.OriginalPreviewURL,
		Vision:             vision,
		PriceCents:         job.PriceCents,
		Currency:           job.Currency,
	}, nil
}
