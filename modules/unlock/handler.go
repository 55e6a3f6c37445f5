package unlock

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"glowup-server/modules/auth"
	"glowup-server/modules/common/apperr"
)

// UnlockRequest - 결제 검증 + 언락 요청
type UnlockRequest struct {
	GlowupID  string `json:"glowupId"`
	Reference string `json:"reference"`
}

// UnlockResponse - 시간 제한 다운로드 URL
type UnlockResponse struct {
	GlowupID    string `json:"glowupId"`
	DownloadURL string `json:"downloadUrl"`
	ExpiresIn   int    `json:"expiresIn"`
}

// Handler - Unlock HTTP 핸들러
type Handler struct {
	service *Service
}

// NewHandler - 핸들러 생성
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes - 라우터에 Unlock 엔드포인트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/glowup/unlock", h.Unlock).Methods("POST", "OPTIONS")
	log.Println("✅ Unlock routes registered: /api/glowup/unlock")
}

// Unlock - 결제 검증 후 다운로드 URL 발급
func (h *Handler) Unlock(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// CORS preflight
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request: %v", err)
		apperr.Write(w, apperr.New(apperr.InvalidArgument, "invalid request format"))
		return
	}

	ownerID := auth.UserIDFromContext(r.Context())

	resp, err := h.service.Unlock(r.Context(), ownerID, req)
	if err != nil {
		log.Printf("❌ Unlock failed: %v", err)
		apperr.Write(w, err)
		return
	}

	json.NewEncoder(w).Encode(resp)
}
