package web

import (
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/muhammadolammi/resumeclone/internal/chat"
)

const (
	defaultMaxChats = 1000
	defaultIdleTTL  = 24 * time.Hour
	// maxStoredTurns bounds what a page shows; only the last
	// chat.HistoryWindow turns are ever sent to the provider.
	maxStoredTurns = 5 * chat.HistoryWindow
)

type storedChat struct {
	turns    []chat.Turn
	lastSeen time.Time
}

// historyStore keeps the most recently used browser chats for display. The
// least recently used chat is evicted past maxChats, and a chat idle longer
// than ttl reads as missing.
type historyStore struct {
	mu    sync.Mutex
	chats *lru.Cache[uuid.UUID, *storedChat]
	ttl   time.Duration
	now   func() time.Time
}

func newHistoryStore(maxChats int, ttl time.Duration) *historyStore {
	if maxChats <= 0 {
		maxChats = defaultMaxChats
	}
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}
	chats, err := lru.New[uuid.UUID, *storedChat](maxChats)
	if err != nil {
		panic(err)
	}
	return &historyStore{chats: chats, ttl: ttl, now: time.Now}
}

// Get returns a copy of the chat's history, oldest first, and whether the
// chat is held.
func (h *historyStore) Get(id uuid.UUID) ([]chat.Turn, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.lookup(id)
	if !ok {
		return nil, false
	}
	return append([]chat.Turn(nil), c.turns...), true
}

func (h *historyStore) Append(id uuid.UUID, turns ...chat.Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.lookup(id)
	if !ok {
		c = &storedChat{}
	}
	c.turns = trimTurns(append(c.turns, turns...))
	c.lastSeen = h.now()
	h.chats.Add(id, c)
}

// Replace swaps the chat's history. An empty slice keeps the chat as held
// but empty.
func (h *historyStore) Replace(id uuid.UUID, turns []chat.Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.chats.Add(id, &storedChat{
		turns:    trimTurns(append([]chat.Turn(nil), turns...)),
		lastSeen: h.now(),
	})
}

func (h *historyStore) Forget(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.chats.Remove(id)
}

func (h *historyStore) Len() int {
	return h.chats.Len()
}

// lookup must be called with mu held.
func (h *historyStore) lookup(id uuid.UUID) (*storedChat, bool) {
	c, ok := h.chats.Get(id)
	if !ok {
		return nil, false
	}
	if h.now().Sub(c.lastSeen) > h.ttl {
		h.chats.Remove(id)
		return nil, false
	}
	c.lastSeen = h.now()
	return c, true
}

func trimTurns(turns []chat.Turn) []chat.Turn {
	if len(turns) <= maxStoredTurns {
		return turns
	}
	return append([]chat.Turn(nil), turns[len(turns)-maxStoredTurns:]...)
}
