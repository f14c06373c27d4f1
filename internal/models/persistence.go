package models

import "time"

// PersistedStateVersion is bumped whenever MonitorState changes shape.
const PersistedStateVersion = 1

// MonitorState is what survives a restart: the bridge-event ring and the
// ledger's in-memory records. Topology and bridges are not persisted, the
// link resends them on connect.
type MonitorState struct {
	Version   int          `json:"version"`
	SavedAt   time.Time    `json:"saved_at"`
	Events    []string     `json:"events"`
	LastHeard []CallRecord `json:"last_heard"`
}
