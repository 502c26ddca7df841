// Package live pushes score updates to WebSocket subscribers. One hub
// serves all matches; subscribers register per match id and receive a
// snapshot after every applied or undone delivery.
package live

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gullyscore/cricket-scoring-service/internal/engine"
	"github.com/gullyscore/cricket-scoring-service/internal/model"
)

// Update is the wire payload pushed to subscribers.
type Update struct {
	Match  model.Match   `json:"match"`
	Events engine.Events `json:"events"`
}

// Hub fans match updates out to connected clients. Broadcasts are
// fire-and-forget: a slow or dead client is dropped, never waited on.
type Hub struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	// subscribers maps match id to the open connections watching it.
	subscribers map[int64]map[*websocket.Conn]struct{}
	log         zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The service carries no session auth; origin checks belong
			// to the deployment's proxy layer.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		subscribers: make(map[int64]map[*websocket.Conn]struct{}),
		log:         logger.With().Str("module", "live").Logger(),
	}
}

// Subscribe upgrades the request and registers the connection for the
// given match. It blocks until the client disconnects.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request, matchID int64) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	h.add(matchID, conn)
	h.log.Debug().Int64("match_id", matchID).Msg("live subscriber connected")

	defer func() {
		h.remove(matchID, conn)
		_ = conn.Close()
		h.log.Debug().Int64("match_id", matchID).Msg("live subscriber disconnected")
	}()

	// Drain control frames; subscribers never send application data.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// BroadcastMatch sends the updated match to every subscriber of its id.
func (h *Hub) BroadcastMatch(m model.Match, ev engine.Events) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.subscribers[m.ID]
	if len(conns) == 0 {
		return
	}
	update := Update{Match: m, Events: ev}
	for conn := range conns {
		if err := conn.WriteJSON(update); err != nil {
			h.log.Warn().Err(err).Int64("match_id", m.ID).Msg("dropping live subscriber")
			delete(conns, conn)
			_ = conn.Close()
		}
	}
}

// Subscribers reports how many connections watch the given match.
func (h *Hub) Subscribers(matchID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[matchID])
}

func (h *Hub) add(matchID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[matchID] == nil {
		h.subscribers[matchID] = make(map[*websocket.Conn]struct{})
	}
	h.subscribers[matchID][conn] = struct{}{}
}

func (h *Hub) remove(matchID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers[matchID], conn)
	if len(h.subscribers[matchID]) == 0 {
		delete(h.subscribers, matchID)
	}
}
