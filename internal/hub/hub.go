package hub

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"dmrmonitor/internal/providers"
	"dmrmonitor/internal/structures"
)

var (
	ErrSubscriberBacklogged = errors.New("subscriber backlogged")
	ErrSubscriberClosed     = errors.New("subscriber closed")
)

// Subscriber is one connected dashboard viewer.
type Subscriber interface {
	ID() string
	Send(msg []byte) error
	Close() error
}

type HubInterface interface {
	Join(sub Subscriber, initial func() [][]byte) error
	Leave(id string)
	Touch(id string)
	Broadcast(msg []byte)
	BroadcastWith(msg []byte, record func())
	Sweep()
	Len() int
}

// Hub is the registry of live subscribers. Entries carry the client timeout
// as their TTL; only Touch extends it.
type Hub struct {
	clients *ttlcache.Cache[string, Subscriber]
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	timeout time.Duration

	// sendMu keeps a joiner's initial state ordered with broadcasts.
	sendMu sync.Mutex
}

func NewHub(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) *Hub {
	opts := []ttlcache.Option[string, Subscriber]{
		ttlcache.WithDisableTouchOnHit[string, Subscriber](),
	}
	timeout := conf.Website.ClientTimeout
	if timeout > 0 {
		opts = append(opts, ttlcache.WithTTL[string, Subscriber](timeout))
	}

	h := &Hub{
		clients: ttlcache.New[string, Subscriber](opts...),
		logger:  logger,
		metrics: metrics,
		timeout: timeout,
	}
	h.clients.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, Subscriber]) {
		if reason == ttlcache.EvictionReasonExpired {
			h.logger.Infof(providers.TypeHub, "Client %s timed out, disconnecting", item.Key())
		}
		if err := item.Value().Close(); err != nil {
			h.logger.Debugf(providers.TypeHub, "Close of client %s: %s", item.Key(), err)
		}
	})
	return h
}

// Join registers sub and sends it the messages produced by initial, so a new
// viewer starts from the current state.
func (h *Hub) Join(sub Subscriber, initial func() [][]byte) error {
	h.sendMu.Lock()
	defer h.sendMu.Unlock()

	h.clients.Set(sub.ID(), sub, ttlcache.DefaultTTL)
	h.logger.Infof(providers.TypeHub, "Registered client %s", sub.ID())

	for _, msg := range initial() {
		if err := sub.Send(msg); err != nil {
			h.logger.Warnf(providers.TypeHub, "Initial send to client %s failed: %s", sub.ID(), err)
			h.clients.Delete(sub.ID())
			h.metrics.SetSubscribers(h.clients.Len())
			return err
		}
	}
	h.metrics.SetSubscribers(h.clients.Len())
	return nil
}

func (h *Hub) Leave(id string) {
	if h.clients.Has(id) {
		h.clients.Delete(id)
		h.logger.Infof(providers.TypeHub, "Unregistered client %s", id)
	}
	h.metrics.SetSubscribers(h.clients.Len())
}

// Touch records activity from a subscriber and pushes its expiry out.
func (h *Hub) Touch(id string) {
	h.clients.Touch(id)
}

// Broadcast sends msg to every subscriber. A failed send removes only that
// subscriber.
func (h *Hub) Broadcast(msg []byte) {
	h.sendMu.Lock()
	defer h.sendMu.Unlock()
	h.broadcastLocked(msg)
}

// BroadcastWith runs record and sends msg as one step against Join. A viewer
// joining concurrently gets the recorded state or the message, not both.
func (h *Hub) BroadcastWith(msg []byte, record func()) {
	h.sendMu.Lock()
	defer h.sendMu.Unlock()
	record()
	h.broadcastLocked(msg)
}

func (h *Hub) broadcastLocked(msg []byte) {
	var failed []string
	for id, item := range h.clients.Items() {
		if err := item.Value().Send(msg); err != nil {
			h.logger.Warnf(providers.TypeHub, "Send to client %s failed: %s", id, err)
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		h.clients.Delete(id)
		h.metrics.IncDropped("subscriber_send")
	}
	if len(msg) > 0 {
		h.metrics.IncBroadcasts(string(msg[:1]))
	}
	if len(failed) > 0 {
		h.metrics.SetSubscribers(h.clients.Len())
	}
}

// Sweep evicts subscribers idle for longer than the client timeout. It is a
// no-op when no timeout is configured.
func (h *Hub) Sweep() {
	if h.timeout <= 0 {
		return
	}
	h.clients.DeleteExpired()
	h.metrics.SetSubscribers(h.clients.Len())
}

func (h *Hub) Len() int {
	return h.clients.Len()
}

// Close drops every subscriber.
func (h *Hub) Close() {
	h.clients.DeleteAll()
	h.metrics.SetSubscribers(0)
}
