// Package hub fans realtime snapshot frames out to the watch connections of
// the space server. Subscriptions are keyed by (space id, collection) or, for
// the per-user spaces list, by user id. The hub carries no data of its own:
// handlers build authoritative frames from the store and push them through.
package hub

import (
	"sync"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/models"
)

// frameBuffer bounds the per-subscriber queue. A watcher that falls this far
// behind loses intermediate frames; every frame is a full snapshot, so the
// next delivered one makes it whole again.
const frameBuffer = 16

type Hub struct {
	logger *logger.Logger

	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan models.SnapshotFrame
}

func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		logger: logger,
		subs:   make(map[string]map[int]chan models.SnapshotFrame),
	}
}

func spaceKey(spaceID, collection string) string {
	return "space/" + spaceID + "/" + collection
}

func userKey(userID string) string {
	return "user/" + userID
}

// Subscribe registers a watcher for one collection of one space. The returned
// channel is closed by the cancel func; cancel is safe to call more than once.
func (h *Hub) Subscribe(spaceID, collection string) (<-chan models.SnapshotFrame, func()) {
	return h.subscribe(spaceKey(spaceID, collection))
}

// SubscribeUserSpaces registers a watcher for the list of spaces visible to
// one user.
func (h *Hub) SubscribeUserSpaces(userID string) (<-chan models.SnapshotFrame, func()) {
	return h.subscribe(userKey(userID))
}

func (h *Hub) subscribe(key string) (<-chan models.SnapshotFrame, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan models.SnapshotFrame, frameBuffer)
	if h.subs[key] == nil {
		h.subs[key] = make(map[int]chan models.SnapshotFrame)
	}
	h.subs[key][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[key][id]; !ok {
				return
			}
			delete(h.subs[key], id)
			if len(h.subs[key]) == 0 {
				delete(h.subs, key)
			}
			close(ch)
		})
	}

	return ch, cancel
}

// Broadcast delivers frame to every watcher of (frame.SpaceID,
// frame.Collection). Delivery never blocks: a watcher with a full queue is
// skipped.
func (h *Hub) Broadcast(frame models.SnapshotFrame) {
	h.publish(spaceKey(frame.SpaceID, frame.Collection), frame)
}

// BroadcastToUser delivers a user-spaces frame to the watchers of userID.
func (h *Hub) BroadcastToUser(userID string, frame models.SnapshotFrame) {
	h.publish(userKey(userID), frame)
}

func (h *Hub) publish(key string, frame models.SnapshotFrame) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs[key] {
		select {
		case ch <- frame:
		default:
			h.logger.Warn().
				Str("key", key).
				Int("subscriber", id).
				Msg("watcher queue full, frame dropped")
		}
	}
}
