package progress

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// StageMessage - 파이프라인 단계 알림
type StageMessage struct {
	Type   string `json:"type"`
	Ticket string `json:"ticket"`
	Stage  string `json:"stage"`
	At     string `json:"at"`
}

type subscriber struct {
	send chan []byte
}

// Hub - 티켓별 진행률 구독 허브
// 티켓 하나에 여러 클라이언트가 붙을 수 있다 (같은 유저의 탭 여러 개)
type Hub struct {
	mutex       sync.RWMutex
	subscribers map[string][]*subscriber
}

// NewHub - 허브 생성
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string][]*subscriber),
	}
}

// Publish - 티켓 구독자 전원에게 단계 알림 (티켓 없으면 no-op)
func (h *Hub) Publish(ticket, stage string) {
	if ticket == "" {
		return
	}

	msg := StageMessage{
		Type:   "progress",
		Ticket: ticket,
		Stage:  stage,
		At:     time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling progress message: %v", err)
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for _, sub := range h.subscribers[ticket] {
		select {
		case sub.send <- data:
		default:
			// 밀린 구독자는 버린다, 진행률은 최신 값만 의미 있음
		}
	}
}

func (h *Hub) subscribe(ticket string) *subscriber {
	sub := &subscriber{send: make(chan []byte, 16)}

	h.mutex.Lock()
	h.subscribers[ticket] = append(h.subscribers[ticket], sub)
	count := len(h.subscribers[ticket])
	h.mutex.Unlock()

	log.Printf("👤 Progress subscriber joined ticket %s (subscribers: %d)", ticket, count)
	return sub
}

func (h *Hub) unsubscribe(ticket string, sub *subscriber) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	subs := h.subscribers[ticket]
	for i, s := range subs {
		if s == sub {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(h.subscribers, ticket)
	} else {
		h.subscribers[ticket] = subs
	}
	close(sub.send)

	log.Printf("👋 Progress subscriber left ticket %s", ticket)
}
