// Package hub implements live collection subscriptions. Every committed
// mutation to one of the four record collections is published here; the
// hub reloads the full collection snapshot for the owning user, recomputes
// portfolio statistics, and fans the update out to that user's
// subscribers. Snapshots always replace the previous state wholesale,
// never as a diff, and there is no ordering guarantee across different
// collections.
package hub

import (
	"sync"

	"go.uber.org/zap"

	"divitrack/internal/portfolio"
)

// Collection names publishable through the hub.
const (
	CollectionMembers      = "members"
	CollectionSymbols      = "symbols"
	CollectionTransactions = "transactions"
	CollectionDividends    = "dividends"
)

// Collections lists every valid collection name.
var Collections = []string{
	CollectionMembers,
	CollectionSymbols,
	CollectionTransactions,
	CollectionDividends,
}

// subscriberBuffer bounds the per-subscriber update queue. A consumer
// that falls this far behind starts losing intermediate snapshots; the
// next delivered snapshot is still a complete replacement, so nothing is
// permanently missed.
const subscriberBuffer = 16

// Update carries a full collection snapshot plus the portfolio statistics
// recomputed from the post-mutation state.
type Update struct {
	Collection string           `json:"collection"`
	Records    interface{}      `json:"records"`
	Stats      *portfolio.Stats `json:"stats"`
}

// SnapshotSource loads full collection snapshots and derived statistics
// for a user. The stats service implements it.
type SnapshotSource interface {
	CollectionSnapshot(userID, collection string) (interface{}, error)
	GetStats(userID, filterMember string) (*portfolio.Stats, error)
}

type subscriber struct {
	collections map[string]bool
	ch          chan Update
}

// Hub is the per-process subscription registry.
type Hub struct {
	mu          sync.RWMutex
	source      SnapshotSource
	subscribers map[string]map[*subscriber]bool
	log         *zap.SugaredLogger
}

// New creates an empty hub. BindSource must be called before the first
// Publish; until then publishes are dropped.
func New(log *zap.SugaredLogger) *Hub {
	return &Hub{
		subscribers: make(map[string]map[*subscriber]bool),
		log:         log,
	}
}

// BindSource wires the snapshot source. Done after construction because
// the source (the stats service) is built later in the wiring order.
func (h *Hub) BindSource(source SnapshotSource) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.source = source
}

// Subscribe registers for updates to the given collections of one user's
// data. It returns the update channel and a cancel function that
// unregisters and closes the channel. Unknown collection names are
// ignored; an empty list subscribes to all collections.
func (h *Hub) Subscribe(userID string, collections []string) (<-chan Update, func()) {
	valid := make(map[string]bool, len(Collections))
	for _, c := range Collections {
		valid[c] = true
	}

	subscribed := make(map[string]bool)
	for _, c := range collections {
		if valid[c] {
			subscribed[c] = true
		}
	}
	if len(subscribed) == 0 {
		for _, c := range Collections {
			subscribed[c] = true
		}
	}

	sub := &subscriber{
		collections: subscribed,
		ch:          make(chan Update, subscriberBuffer),
	}

	h.mu.Lock()
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[*subscriber]bool)
	}
	h.subscribers[userID][sub] = true
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers[userID], sub)
			if len(h.subscribers[userID]) == 0 {
				delete(h.subscribers, userID)
			}
			h.mu.Unlock()
			close(sub.ch)
		})
	}

	return sub.ch, cancel
}

// Publish delivers a fresh snapshot of one collection, with recomputed
// statistics, to every subscriber of that user's collection. The load and
// the stats recomputation happen synchronously with the mutation that
// triggered the publish; only the fanout is decoupled through the
// subscriber channels.
func (h *Hub) Publish(userID, collection string) {
	h.mu.RLock()
	source := h.source
	anyInterested := false
	for sub := range h.subscribers[userID] {
		if sub.collections[collection] {
			anyInterested = true
			break
		}
	}
	h.mu.RUnlock()

	if source == nil || !anyInterested {
		return
	}

	records, err := source.CollectionSnapshot(userID, collection)
	if err != nil {
		h.log.Errorw("failed to load collection snapshot",
			"user_id", userID, "collection", collection, "error", err)
		return
	}
	stats, err := source.GetStats(userID, portfolio.FilterAll)
	if err != nil {
		h.log.Errorw("failed to recompute stats",
			"user_id", userID, "collection", collection, "error", err)
		return
	}

	update := Update{Collection: collection, Records: records, Stats: stats}

	// Fanout happens under the read lock: cancel needs the write lock to
	// close a subscriber channel, so no send can race a close.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers[userID] {
		if !sub.collections[collection] {
			continue
		}
		select {
		case sub.ch <- update:
		default:
			h.log.Warnw("dropping update for slow subscriber",
				"user_id", userID, "collection", collection)
		}
	}
}
