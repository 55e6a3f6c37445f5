package glowup

// AnalyzeRequest - 업로드 + 보정 요청
type AnalyzeRequest struct {
	ImageBase64 string `json:"imageBase64"`
	Style       string `json:"style"`
	// 진행률 웹소켓 세션 티켓 (선택)
	Ticket string `json:"ticket,omitempty"`
}

// AnalyzeResponse - 프리뷰 결과 (원본/보정본 경로는 절대 포함하지 않음)
type AnalyzeResponse struct {
	GlowupID           string `json:"glowupId"`
	PreviewURL         string `json:"previewUrl"`
	OriginalPreviewURL string `json:"originalPreviewUrl"`
	Vision             string `json:"vision"`
	PriceCents         int    `json:"priceCents"`
	Currency           string `json:"currency"`
}
