package models

import (
	"sort"
	"time"
)

// StateView is an immutable copy of the state table handed to renderers and
// API handlers. Nothing in it is shared with the live store.
type StateView struct {
	Version uint64             `json:"version"`
	Taken   time.Time          `json:"taken"`
	Systems map[string]*System `json:"systems"`
	Bridges []Bridge           `json:"bridges"`
}

func (v *StateView) SystemNames() []string {
	names := make([]string, 0, len(v.Systems))
	for name := range v.Systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SortedPeers lists a system's peers master first, then by ID.
func (s *System) SortedPeers() []*Peer {
	peers := make([]*Peer, 0, len(s.Peers))
	for _, p := range s.Peers {
		peers = append(peers, p)
	}
	sort.Slice(peers, func(i, j int) bool {
		if peers[i].Role != peers[j].Role {
			return peers[i].Role == RoleMaster
		}
		return peers[i].ID < peers[j].ID
	})
	return peers
}
