package websocket

import (
	"context"
	"sync"

	"github.com/anjiri1684/referral_rewards/logging"
	"github.com/anjiri1684/referral_rewards/models"
	"go.uber.org/zap"
)

const EventReferralStatusChanged = "referral.status_changed"

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Client struct {
	Email string
	Conn  Conn
}

type ReferralEvent struct {
	Type     string          `json:"type"`
	Referral models.Referral `json:"referral"`
}

// Hub fans referral events out to the connections subscribed to the
// referrer's email.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan ReferralEvent
	done       chan struct{}

	mu      sync.RWMutex
	clients map[string]map[Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan ReferralEvent, 64),
		done:       make(chan struct{}),
		clients:    make(map[string]map[Conn]struct{}),
	}
}

// Register adds the client to the hub. After Run has returned the client's
// connection is closed instead.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Conn.Close()
	}
}

// Unregister is a no-op once Run has returned.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// PublishReferral queues an event for the referral's referrer. Events are
// dropped when the queue is full.
func (h *Hub) PublishReferral(referral models.Referral) {
	event := ReferralEvent{Type: EventReferralStatusChanged, Referral: referral}
	select {
	case h.broadcast <- event:
	default:
		logging.Logger.Warn("Referral event queue full, dropping event", zap.String("referralId", referral.ID.String()))
	}
}

func (h *Hub) ClientCount(email string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[email])
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		case client := <-h.register:
			logging.Logger.Debug("Client registered", zap.String("email", client.Email))
			h.mu.Lock()
			if h.clients[client.Email] == nil {
				h.clients[client.Email] = make(map[Conn]struct{})
			}
			h.clients[client.Email][client.Conn] = struct{}{}
			h.mu.Unlock()
		case client := <-h.unregister:
			logging.Logger.Debug("Client unregistered", zap.String("email", client.Email))
			h.remove(client.Email, client.Conn)
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) deliver(event ReferralEvent) {
	email := event.Referral.Referrer.Email

	h.mu.RLock()
	conns := make([]Conn, 0, len(h.clients[email]))
	for conn := range h.clients[email] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			logging.Logger.Warn("Error sending referral event", zap.String("email", email), zap.Error(err))
			conn.Close()
			h.remove(email, conn)
		}
	}
}

func (h *Hub) remove(email string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[email], conn)
	if len(h.clients[email]) == 0 {
		delete(h.clients, email)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for email, conns := range h.clients {
		for conn := range conns {
			conn.Close()
		}
		delete(h.clients, email)
	}
}
