package paystack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"glowup-server/modules/common/apperr"
)

// Verification - 결제 검증 결과 (필요한 필드만 추림)
type Verification struct {
	Status   string // "success"만 결제 완료로 인정
	Amount   int    // 서브유닛 (센트)
	Currency string
}

// Client - Paystack 결제 검증 클라이언트
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient - Paystack 클라이언트 생성
func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Verify - 거래 참조번호로 결제 상태 조회
func (c *Client) Verify(ctx context.Context, reference string) (*Verification, error) {
	verifyURL := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, url.PathEscape(reference))

	log.Printf("💳 Verifying Paystack transaction: %s", reference)

	req, err := http.NewRequestWithContext(ctx, "GET", verifyURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unavailable, "Paystack request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("❌ Paystack verify failed - Status: %d, body: %s", resp.StatusCode, string(body))
		// 조회 실패한 참조번호는 결제 거부로 처리
		return nil, apperr.New(apperr.PermissionDenied,
			fmt.Sprintf("payment verification failed with status %d", resp.StatusCode))
	}

	var envelope struct {
		Status bool `json:"status"`
		Data   struct {
			Status   string `json:"status"`
			Amount   int    `json:"amount"`
			Currency string `json:"currency"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}

	log.Printf("✅ Paystack transaction %s: status=%s amount=%d %s",
		reference, envelope.Data.Status, envelope.Data.Amount, envelope.Data.Currency)

	return &Verification{
		Status:   envelope.Data.Status,
		Amount:   envelope.Data.Amount,
		Currency: envelope.Data.Currency,
	}, nil
}
