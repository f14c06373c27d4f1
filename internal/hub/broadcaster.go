package hub

import (
	"context"

	"golang.org/x/time/rate"

	"dmrmonitor/internal/lastheard"
	"dmrmonitor/internal/models"
	"dmrmonitor/internal/providers"
	"dmrmonitor/internal/render"
	"dmrmonitor/internal/services"
	"dmrmonitor/internal/structures"
)

type BroadcasterInterface interface {
	Run(ctx context.Context)
	InitialMessages() [][]byte
	PublishLog(line string)
	PublishNotice(text string)
}

// Broadcaster turns state changes into rendered 'd'/'b' pushes. Changes that
// arrive faster than the minimum interval collapse into one render.
type Broadcaster struct {
	store    services.StateStoreInterface
	ledger   lastheard.LedgerInterface
	events   *models.EventLog
	renderer render.RendererInterface
	hub      HubInterface
	notifier *services.ChangeNotifier
	limiter  *rate.Limiter
	logger   providers.Logger
}

func NewBroadcaster(
	conf *structures.Config,
	store services.StateStoreInterface,
	ledger lastheard.LedgerInterface,
	events *models.EventLog,
	renderer render.RendererInterface,
	hub HubInterface,
	notifier *services.ChangeNotifier,
	logger providers.Logger,
) *Broadcaster {
	limit := rate.Inf
	if conf.Broadcast.MinInterval > 0 {
		limit = rate.Every(conf.Broadcast.MinInterval)
	}
	return &Broadcaster{
		store:    store,
		ledger:   ledger,
		events:   events,
		renderer: renderer,
		hub:      hub,
		notifier: notifier,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger,
	}
}

// NewEventLogProvider sizes the bridge-event ring replayed to new viewers.
func NewEventLogProvider(conf *structures.Config) *models.EventLog {
	return models.NewEventLog(conf.EventLog.Size)
}

// Run pushes a fresh render after every change notification until ctx is
// cancelled.
func (b *Broadcaster) Run(ctx context.Context) {
	changes := b.notifier.Subscribe()
	defer b.notifier.Unsubscribe(changes)

	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			if err := b.limiter.Wait(ctx); err != nil {
				return
			}
			b.broadcastState()
		}
	}
}

func (b *Broadcaster) render() ([][]byte, error) {
	view := b.store.Snapshot()
	var lastHeard []models.CallRecord
	if b.ledger.Enabled() {
		lastHeard = b.ledger.View()
	}

	topology, err := b.renderer.Topology(view, lastHeard)
	if err != nil {
		return nil, err
	}
	bridges, err := b.renderer.Bridges(view)
	if err != nil {
		return nil, err
	}
	return [][]byte{
		Message(TagTopology, topology),
		Message(TagBridges, bridges),
	}, nil
}

func (b *Broadcaster) broadcastState() {
	msgs, err := b.render()
	if err != nil {
		b.logger.Errorf(providers.TypeHub, "Render failed: %s", err)
		return
	}
	for _, msg := range msgs {
		b.hub.Broadcast(msg)
	}
}

// InitialMessages is everything a new subscriber needs: both tables and the
// bridge-event log, oldest line first.
func (b *Broadcaster) InitialMessages() [][]byte {
	msgs, err := b.render()
	if err != nil {
		b.logger.Errorf(providers.TypeHub, "Render for new client failed: %s", err)
	}
	for _, line := range b.events.Lines() {
		msgs = append(msgs, Message(TagLog, line))
	}
	return msgs
}

func (b *Broadcaster) PublishLog(line string) {
	b.hub.BroadcastWith(Message(TagLog, line), func() {
		b.events.Append(line)
	})
}

func (b *Broadcaster) PublishNotice(text string) {
	b.hub.Broadcast(Message(TagNotice, text))
}
