package progress

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 프리뷰 URL처럼 공개 엔드포인트라 origin 제한 없음
		return true
	},
}

// Handler - 진행률 웹소켓 핸들러
type Handler struct {
	hub *Hub
}

// NewHandler - 핸들러 생성
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// RegisterRoutes - 라우터에 진행률 엔드포인트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ws/progress", h.Serve)
	log.Println("✅ Progress routes registered: /ws/progress")
}

// Serve - 티켓 구독 웹소켓 연결 처리
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ticket := r.URL.Query().Get("ticket")
	if ticket == "" {
		http.Error(w, "missing ticket parameter", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	sub := h.hub.subscribe(ticket)

	go h.writePump(conn, ticket, sub)
	go h.readPump(conn, ticket, sub)
}

// writePump - 허브에서 온 단계 메시지를 클라이언트로 전달
func (h *Handler) writePump(conn *websocket.Conn, ticket string, sub *subscriber) {
	defer conn.Close()

	for message := range sub.send {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump - 연결 종료 감지용 (클라이언트 메시지는 무시)
func (h *Handler) readPump(conn *websocket.Conn, ticket string, sub *subscriber) {
	defer func() {
		h.hub.unsubscribe(ticket, sub)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}
