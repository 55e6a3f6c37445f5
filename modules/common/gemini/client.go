package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"glowup-server/modules/common/apperr"
	"glowup-server/modules/common/retry"
)

// 비전 실패 시 생성 제약으로 들어가는 기본 문구
const FallbackVision = "No vision details provided."

const visionPrompt = "Describe faces, expressions, scene and visible text succinctly."

// Client - Gemini 비전/이미지 모델 래퍼
type Client struct {
	genaiClient *genai.Client
	visionModel string
	imageModel  string
}

// NewClient - Gemini API 클라이언트 초기화 (API 키 방식)
func NewClient(ctx context.Context, apiKey, visionModel, imageModel string) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	log.Printf("✅ Gemini client initialized (vision: %s, image: %s)", visionModel, imageModel)

	return &Client{
		genaiClient: genaiClient,
		visionModel: visionModel,
		imageModel:  imageModel,
	}, nil
}

// Describe - 업로드 이미지의 비전 설명 생성
// 응답이 비어 있을 때만 기본 문구로 대체하고, 분류된 에러는 그대로 전파한다
func (c *Client) Describe(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	text, err := retry.Do(ctx, func() (string, error) {
		return c.describe(ctx, imageData, mimeType)
	}, 3, 1*time.Second)
	if err != nil {
		if apperr.CodeOf(err) == apperr.GenerationEmpty {
			log.Printf("⚠️  Vision response empty, using fallback text")
			return FallbackVision, nil
		}
		return "", err
	}
	return text, nil
}

func (c *Client) describe(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	content := &genai.Content{
		Parts: []*genai.Part{
			genai.NewPartFromText(visionPrompt),
			genai.NewPartFromBytes(imageData, mimeType),
		},
	}

	result, err := c.genaiClient.Models.GenerateContent(
		ctx,
		c.visionModel,
		[]*genai.Content{content},
		nil,
	)
	if err != nil {
		return "", classify(err)
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return strings.TrimSpace(part.Text), nil
			}
		}
	}

	return "", apperr.New(apperr.GenerationEmpty, "no vision text in response")
}

// Enhance - 스타일 프롬프트로 이미지 재생성, 첫 번째 이미지 파트 반환
func (c *Client) Enhance(ctx context.Context, imageData []byte, mimeType, instruction string) ([]byte, error) {
	// 이미지 생성은 느려서 재시도 간격을 넓게 잡음 (총 대기 ~45초 이내)
	return retry.Do(ctx, func() ([]byte, error) {
		return c.enhance(ctx, imageData, mimeType, instruction)
	}, 4, 2*time.Second)
}

func (c *Client) enhance(ctx context.Context, imageData []byte, mimeType, instruction string) ([]byte, error) {
	log.Printf("🎨 Calling Gemini image model (%s), prompt length: %d", c.imageModel, len(instruction))

	content := &genai.Content{
		Parts: []*genai.Part{
			genai.NewPartFromText(instruction),
			genai.NewPartFromBytes(imageData, mimeType),
		},
	}

	result, err := c.genaiClient.Models.GenerateContent(
		ctx,
		c.imageModel,
		[]*genai.Content{content},
		nil,
	)
	if err != nil {
		return nil, classify(err)
	}

	if len(result.Candidates) == 0 {
		return nil, apperr.New(apperr.GenerationEmpty, "no candidates in response")
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			// 이미지는 InlineData로 반환됨
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				log.Printf("✅ Received enhanced image from Gemini: %d bytes", len(part.InlineData.Data))
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, apperr.New(apperr.GenerationEmpty, "no image data in response")
}

// classify - Gemini 에러를 API 경계에서 타입 코드로 변환
// (하류 레이어는 문자열 매칭 대신 코드만 본다)
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429:
			return apperr.Wrap(apperr.ResourceExhausted, "Gemini quota exceeded", err)
		case 503:
			return apperr.Wrap(apperr.Unavailable, "Gemini model overloaded", err)
		case 400:
			return apperr.Wrap(apperr.InvalidArgument, "Gemini rejected request", err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "resource exhausted"), strings.Contains(msg, "quota"):
		return apperr.Wrap(apperr.ResourceExhausted, "Gemini quota exceeded", err)
	case strings.Contains(msg, "503"), strings.Contains(msg, "overloaded"), strings.Contains(msg, "service unavailable"):
		return apperr.Wrap(apperr.Unavailable, "Gemini model overloaded", err)
	case strings.Contains(msg, "safety"), strings.Contains(msg, "blocked"):
		return apperr.Wrap(apperr.InvalidArgument, "Gemini blocked the request", err)
	}

	return apperr.Wrap(apperr.Internal, "Gemini API call failed", err)
}
