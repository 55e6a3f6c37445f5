package glowup

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"glowup-server/modules/auth"
	"glowup-server/modules/common/apperr"
)

// Handler - GlowUp HTTP 핸들러
type Handler struct {
	service *Service
}

// NewHandler - 핸들러 생성
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes - 라우터에 GlowUp 엔드포인트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/glowup/analyze", h.Analyze).Methods("POST", "OPTIONS")
	log.Println("✅ GlowUp routes registered: /api/glowup/analyze")
}

// Analyze - 업로드 이미지를 보정하고 워터마크 프리뷰 반환
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// CORS preflight
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request: %v", err)
		apperr.Write(w, apperr.New(apperr.InvalidArgument, "invalid request format"))
		return
	}

	ownerID := auth.UserIDFromContext(r.Context())

	resp, err := h.service.Analyze(r.Context(), ownerID, req)
	if err != nil {
		log.Printf("❌ GlowUp pipeline failed: %v", err)
		apperr.Write(w, err)
		return
	}

	json.NewEncoder(w).Encode(resp)
}
