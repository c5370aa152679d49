package realtime

import (
	"context"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Conn is a single connected client session. The websocket transport
// satisfies it; tests use in-memory fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Registry tracks which users are connected. Many sessions may be open for
// one user; every registered session receives emissions for that user.
type Registry interface {
	Register(userID string, conn Conn)
	Unregister(userID string, conn Conn)
	Connections(userID string) []Conn
	OnlineUserIDs() []string
}

// Envelope is the wire frame pushed to clients.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub is an in-memory Registry that also fans events out to sessions.
// Emission is best effort: a failed write only drops that session's frame,
// persisted state remains retrievable by polling.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[Conn]struct{}

	presence *redis.Client
	logger   *zap.Logger
}

// NewHub constructs a hub. presence may be nil; the online-set mirror in
// redis is then skipped.
func NewHub(presence *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{
		clients:  make(map[string]map[Conn]struct{}),
		presence: presence,
		logger:   logger,
	}
}

const presenceSetKey = "presence:online"

// Register adds a session for the user and broadcasts the updated
// online-users snapshot.
func (h *Hub) Register(userID string, conn Conn) {
	h.mu.Lock()
	set, ok := h.clients[userID]
	if !ok {
		set = make(map[Conn]struct{})
		h.clients[userID] = set
	}
	set[conn] = struct{}{}
	h.mu.Unlock()

	h.mirrorPresence(userID, true)
	h.broadcastPresence()
}

// Unregister drops a session. When the user's last session goes away the
// online snapshot is re-broadcast.
func (h *Hub) Unregister(userID string, conn Conn) {
	h.mu.Lock()
	lastSession := false
	if set, ok := h.clients[userID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.clients, userID)
			lastSession = true
		}
	}
	h.mu.Unlock()

	if lastSession {
		h.mirrorPresence(userID, false)
	}
	h.broadcastPresence()
}

// Connections returns the user's live sessions.
func (h *Hub) Connections(userID string) []Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.clients[userID]
	out := make([]Conn, 0, len(set))
	for conn := range set {
		out = append(out, conn)
	}
	return out
}

// OnlineUserIDs returns a sorted snapshot of connected user ids.
func (h *Hub) OnlineUserIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EmitTo pushes an envelope to every session of each listed user.
func (h *Hub) EmitTo(userIDs []string, event string, data interface{}) {
	envelope := Envelope{Event: event, Data: data}
	for _, userID := range userIDs {
		for _, conn := range h.Connections(userID) {
			if err := conn.WriteJSON(envelope); err != nil {
				h.logger.Debug("emit failed", zap.String("user_id", userID), zap.Error(err))
			}
		}
	}
}

// Broadcast pushes an envelope to every connected session.
func (h *Hub) Broadcast(event string, data interface{}) {
	h.EmitTo(h.OnlineUserIDs(), event, data)
}

func (h *Hub) broadcastPresence() {
	h.Broadcast(EventOnlineUsersSnapshot, h.OnlineUserIDs())
}

// mirrorPresence keeps a redis set of online users for other processes to
// read. Advisory only; failures are logged and ignored.
func (h *Hub) mirrorPresence(userID string, online bool) {
	if h.presence == nil {
		return
	}
	ctx := context.Background()
	var err error
	if online {
		err = h.presence.SAdd(ctx, presenceSetKey, userID).Err()
	} else {
		err = h.presence.SRem(ctx, presenceSetKey, userID).Err()
	}
	if err != nil {
		h.logger.Debug("presence mirror failed", zap.Error(err))
	}
}
