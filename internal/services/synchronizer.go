package services

import (
	"sort"

	"dmrmonitor/internal/alias"
	"dmrmonitor/internal/models"
	"dmrmonitor/internal/providers"
)

type SyncReport struct {
	System  string
	Created bool
	Added   []uint32
	Updated []uint32
	Removed []uint32
}

type SynchronizerInterface interface {
	SyncTopology(snap models.TopologySnapshot) ([]SyncReport, error)
	SyncBridges(snap models.BridgeSnapshot) error
}

// Synchronizer reconciles full snapshots from the link process against the
// state store.
type Synchronizer struct {
	store   *StateStore
	aliases alias.ResolverInterface
	logger  providers.Logger
	clock   providers.Clock
}

func NewSynchronizer(store *StateStore, aliases alias.ResolverInterface, logger providers.Logger, clock providers.Clock) *Synchronizer {
	return &Synchronizer{
		store:   store,
		aliases: aliases,
		logger:  logger,
		clock:   clock,
	}
}

func (s *Synchronizer) newPeer(id uint32, role models.Role, d *models.PeerDescriptor, idle models.TimeslotState) *models.Peer {
	p := &models.Peer{
		ID:    id,
		Role:  role,
		Alias: s.aliases.PeerFull(id),
		IP:    d.IP,
	}
	refreshPeer(p, d)
	for i := range p.Slots {
		p.Slots[i] = idle
	}
	return p
}

func refreshPeer(p *models.Peer, d *models.PeerDescriptor) {
	p.Connected = d.Status.Connected
	p.KeepAlives = models.KeepAlives{
		Sent:     d.Status.KeepAlivesSent,
		Received: d.Status.KeepAlivesReceived,
		Missed:   d.Status.KeepAlivesMissed,
	}
}

type peerEntry struct {
	id   uint32
	role models.Role
	desc *models.PeerDescriptor
}

// wanted lists the peers a snapshot says the system should have: the master
// first, then every peer other than the local radio and the master.
func wanted(snap *models.SystemSnapshot) []peerEntry {
	masterID := snap.MasterID()
	entries := make([]peerEntry, 0, len(snap.Peers)+1)
	if masterID != 0 {
		entries = append(entries, peerEntry{id: masterID, role: models.RoleMaster, desc: snap.Master})
	}
	ids := make([]uint32, 0, len(snap.Peers))
	for id := range snap.Peers {
		if id == snap.Local.RadioID || id == masterID {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		entries = append(entries, peerEntry{id: id, role: models.RolePeer, desc: snap.Peers[id]})
	}
	return entries
}

// SyncTopology applies a topology snapshot. A malformed snapshot is rejected
// as a whole and the previous table is kept.
func (s *Synchronizer) SyncTopology(snap models.TopologySnapshot) ([]SyncReport, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)

	// Aliases are resolved outside the store lock.
	entries := make(map[string][]peerEntry, len(snap))
	peers := make(map[string]map[uint32]*models.Peer, len(snap))
	idle := models.NewIdleSlot(s.clock())
	for _, name := range names {
		entries[name] = wanted(snap[name])
		fresh := make(map[uint32]*models.Peer, len(entries[name]))
		for _, e := range entries[name] {
			fresh[e.id] = s.newPeer(e.id, e.role, e.desc, idle)
		}
		peers[name] = fresh
	}

	reports := make([]SyncReport, 0, len(names))
	s.store.mutate(func() bool {
		for _, name := range names {
			reports = append(reports, s.reconcile(name, snap[name], entries[name], peers[name]))
		}
		return true
	})

	for _, r := range reports {
		if r.Created {
			s.logger.Infof(providers.TypeSync, "System %s built with %d peers", r.System, len(r.Added))
			continue
		}
		if len(r.Added) > 0 || len(r.Removed) > 0 {
			s.logger.Infof(providers.TypeSync, "System %s: added %v, removed %v", r.System, r.Added, r.Removed)
		}
	}
	return reports, nil
}

// reconcile runs under the store lock.
func (s *Synchronizer) reconcile(name string, snap *models.SystemSnapshot, entries []peerEntry, fresh map[uint32]*models.Peer) SyncReport {
	report := SyncReport{System: name}
	masterID := snap.MasterID()

	sys, ok := s.store.systems[name]
	if !ok {
		sys = &models.System{
			Name:  name,
			Peers: make(map[uint32]*models.Peer, len(entries)),
		}
		s.store.systems[name] = sys
		report.Created = true
	}
	sys.IP = snap.Local.IP
	sys.RadioID = snap.Local.RadioID
	sys.IsMaster = snap.Local.MasterPeer
	sys.MasterPeerID = masterID

	keep := make(map[uint32]struct{}, len(entries))
	for _, e := range entries {
		keep[e.id] = struct{}{}
		if p, ok := sys.Peers[e.id]; ok {
			p.Role = e.role
			refreshPeer(p, e.desc)
			report.Updated = append(report.Updated, e.id)
			continue
		}
		sys.Peers[e.id] = fresh[e.id]
		report.Added = append(report.Added, e.id)
	}

	for id := range sys.Peers {
		if _, ok := keep[id]; ok || (masterID != 0 && id == masterID) {
			continue
		}
		delete(sys.Peers, id)
		report.Removed = append(report.Removed, id)
	}
	sort.Slice(report.Removed, func(i, j int) bool { return report.Removed[i] < report.Removed[j] })
	return report
}

// SyncBridges replaces the bridge table with the one described by snap.
func (s *Synchronizer) SyncBridges(snap models.BridgeSnapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)

	now := s.clock()
	bridges := make([]models.Bridge, 0, len(names))
	for _, name := range names {
		b := models.Bridge{Name: name}
		for _, d := range snap[name] {
			policy := d.Policy()
			deadline := d.Deadline()
			b.Put(models.BridgeMember{
				System:      d.System,
				Timeslot:    d.TS,
				TGID:        d.TGID,
				Active:      d.Active,
				Policy:      policy,
				Deadline:    deadline,
				Expiry:      models.ExpiryLabel(policy, deadline, now),
				OnTriggers:  s.triggers(d.On),
				OffTriggers: s.triggers(d.Off),
			})
		}
		bridges = append(bridges, b)
	}

	s.store.mutate(func() bool {
		s.store.bridges = bridges
		return true
	})
	s.logger.Debugf(providers.TypeSync, "Bridge table replaced: %d bridges", len(bridges))
	return nil
}

func (s *Synchronizer) triggers(ids []uint32) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = s.aliases.Talkgroup(id)
	}
	return out
}
