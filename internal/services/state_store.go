package services

import (
	"errors"
	"fmt"
	"sync"

	"dmrmonitor/internal/alias"
	"dmrmonitor/internal/models"
	"dmrmonitor/internal/providers"
	"dmrmonitor/internal/rcm"
)

var (
	ErrUnknownSystem = errors.New("unknown system")
	ErrUnknownPeer   = errors.New("unknown peer")
)

type StateStoreInterface interface {
	ApplyDelta(system string, delta *rcm.Delta) error
	Snapshot() *models.StateView
	Version() uint64
}

// StateStore owns the peer/timeslot table and the bridge table. Every
// mutation runs under the write lock and bumps the version; listeners are
// notified after the lock is released.
type StateStore struct {
	systems  map[string]*models.System
	bridges  []models.Bridge
	version  uint64
	aliases  alias.ResolverInterface
	notifier *ChangeNotifier
	clock    providers.Clock
	mu       sync.RWMutex
}

func NewStateStore(aliases alias.ResolverInterface, notifier *ChangeNotifier, clock providers.Clock) *StateStore {
	return &StateStore{
		systems:  make(map[string]*models.System),
		aliases:  aliases,
		notifier: notifier,
		clock:    clock,
	}
}

// mutate runs fn under the write lock. fn reports whether it changed
// anything observable.
func (s *StateStore) mutate(fn func() bool) {
	s.mu.Lock()
	changed := fn()
	if changed {
		s.version++
	}
	s.mu.Unlock()

	if changed {
		s.notifier.Notify()
	}
}

type resolvedUpdate struct {
	rcm.SlotUpdate
	srcSub  string
	srcPeer string
}

func (s *StateStore) ApplyDelta(system string, delta *rcm.Delta) error {
	updates := make([]resolvedUpdate, len(delta.Updates))
	for i, u := range delta.Updates {
		updates[i].SlotUpdate = u
		if u.Kind == rcm.KindCall {
			updates[i].srcSub = s.aliases.SubscriberShort(u.SrcSub)
			updates[i].srcPeer = s.aliases.PeerCall(u.SrcPeer)
		}
	}

	var err error
	s.mutate(func() bool {
		sys, ok := s.systems[system]
		if !ok {
			err = fmt.Errorf("%w: %s", ErrUnknownSystem, system)
			return false
		}
		peer, ok := sys.Peers[delta.PeerID]
		if !ok {
			err = fmt.Errorf("%w: %s/%d", ErrUnknownPeer, system, delta.PeerID)
			return false
		}
		for _, u := range updates {
			slot, ok := peer.Slot(u.Timeslot)
			if !ok {
				continue
			}
			applyUpdate(slot, u, delta)
		}
		return true
	})
	return err
}

func applyUpdate(slot *models.TimeslotState, u resolvedUpdate, delta *rcm.Delta) {
	switch u.Kind {
	case rcm.KindCall:
		slot.SetStatus(u.Status)
		slot.CallType = u.CallType
		slot.SrcSub = u.srcSub
		slot.SrcPeer = u.srcPeer
		slot.Dest = u.Dest
	case rcm.KindIdle:
		slot.Clear(delta.At)
	case rcm.KindStatus:
		if u.Status.IsIdle() {
			slot.Clear(delta.At)
		} else {
			slot.SetStatus(u.Status)
		}
	}
	slot.Last = delta.At
}

func (s *StateStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns a deep copy of both tables. Bridge expiry labels are
// recomputed against the current time.
func (s *StateStore) Snapshot() *models.StateView {
	now := s.clock()

	s.mu.RLock()
	defer s.mu.RUnlock()

	view := &models.StateView{
		Version: s.version,
		Taken:   now,
		Systems: make(map[string]*models.System, len(s.systems)),
		Bridges: make([]models.Bridge, len(s.bridges)),
	}
	for name, sys := range s.systems {
		view.Systems[name] = sys.Clone()
	}
	for i, b := range s.bridges {
		members := make([]models.BridgeMember, len(b.Members))
		for j, m := range b.Members {
			m.Expiry = models.ExpiryLabel(m.Policy, m.Deadline, now)
			m.OnTriggers = append([]string(nil), m.OnTriggers...)
			m.OffTriggers = append([]string(nil), m.OffTriggers...)
			members[j] = m
		}
		view.Bridges[i] = models.Bridge{Name: b.Name, Members: members}
	}
	return view
}

// Touch marks the state as changed without mutating it, so that time-derived
// fields are re-rendered.
func (s *StateStore) Touch() {
	s.mutate(func() bool { return true })
}
