package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"glowup-server/modules/common/apperr"
)

// Client - Supabase Storage REST 클라이언트
type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// NewClient - Storage 클라이언트 생성
func NewClient(baseURL, serviceKey, bucket string) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// UploadOptions - 업로드 메타데이터
type UploadOptions struct {
	ContentType  string
	CacheControl string
}

// Upload - 버킷 내 경로에 바이너리 업로드
func (c *Client) Upload(ctx context.Context, path string, data []byte, opts UploadOptions) error {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, path)

	log.Printf("📤 Uploading to storage: %s (%d bytes)", path, len(data))

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	if opts.ContentType != "" {
		req.Header.Set("Content-Type", opts.ContentType)
	}
	if opts.CacheControl != "" {
		req.Header.Set("Cache-Control", opts.CacheControl)
		// Supabase는 x-upsert와 함께 cache-control 헤더를 객체 메타데이터로 저장
		req.Header.Set("x-upsert", "true")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.Unavailable, "storage upload failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return apperr.New(apperr.Unavailable,
			fmt.Sprintf("upload failed with status %d: %s", resp.StatusCode, string(body)))
	}

	log.Printf("✅ Uploaded: %s", path)
	return nil
}

// PublicURL - 공개 버킷 객체의 정적 URL (프리뷰 전용)
func (c *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, path)
}

// SignedURL - 만료 시간이 있는 다운로드 URL 발급
func (c *Client) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	signURL := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", c.baseURL, c.bucket, path)

	payload, _ := json.Marshal(map[string]int{
		"expiresIn": int(ttl.Seconds()),
	})

	req, err := http.NewRequestWithContext(ctx, "POST", signURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create sign request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.Unavailable, "storage sign request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", apperr.New(apperr.Unavailable,
			fmt.Sprintf("sign failed with status %d: %s", resp.StatusCode, string(body)))
	}

	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", fmt.Errorf("failed to decode sign response: %w", err)
	}

	fullURL := c.baseURL + "/storage/v1" + signed.SignedURL
	log.Printf("✅ Signed URL issued for %s (expires in %s)", path, ttl)
	return fullURL, nil
}
