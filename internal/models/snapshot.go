package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Topology and bridge snapshots are the typed boundary for payloads sent by
// the link process. Field names follow the link's own keys; a snapshot is
// validated as a whole before any of it touches the state table.

type PeerStatus struct {
	Connected          bool `json:"CONNECTED"`
	KeepAlivesSent     int  `json:"KEEP_ALIVES_SENT"`
	KeepAlivesReceived int  `json:"KEEP_ALIVES_RECEIVED"`
	KeepAlivesMissed   int  `json:"KEEP_ALIVES_MISSED"`
}

type PeerDescriptor struct {
	RadioID uint32      `json:"RADIO_ID"`
	IP      string      `json:"IP"`
	Status  *PeerStatus `json:"STATUS"`
}

type LocalDescriptor struct {
	MasterPeer bool   `json:"MASTER_PEER"`
	RadioID    uint32 `json:"RADIO_ID"`
	IP         string `json:"IP"`
}

type SystemSnapshot struct {
	Local  *LocalDescriptor           `json:"LOCAL"`
	Master *PeerDescriptor            `json:"MASTER"`
	Peers  map[uint32]*PeerDescriptor `json:"PEERS"`
}

// MasterID is the system's master peer, or zero when this instance is itself
// the network master.
func (s *SystemSnapshot) MasterID() uint32 {
	if s.Local.MasterPeer || s.Master == nil {
		return 0
	}
	return s.Master.RadioID
}

type TopologySnapshot map[string]*SystemSnapshot

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedSnapshot, fmt.Sprintf(format, args...))
}

func (t TopologySnapshot) Validate() error {
	if len(t) == 0 {
		return malformed("no systems")
	}
	for name, sys := range t {
		if name == "" {
			return malformed("empty system name")
		}
		if sys == nil || sys.Local == nil {
			return malformed("system %s: missing LOCAL", name)
		}
		if sys.Local.RadioID == 0 {
			return malformed("system %s: missing LOCAL.RADIO_ID", name)
		}
		if !sys.Local.MasterPeer {
			if sys.Master == nil || sys.Master.RadioID == 0 {
				return malformed("system %s: missing MASTER", name)
			}
			if sys.Master.Status == nil {
				return malformed("system %s: master %d missing STATUS", name, sys.Master.RadioID)
			}
		}
		for id, peer := range sys.Peers {
			if id == 0 {
				return malformed("system %s: peer with zero id", name)
			}
			if peer == nil || peer.Status == nil {
				return malformed("system %s: peer %d missing STATUS", name, id)
			}
		}
	}
	return nil
}

type BridgeMemberDescriptor struct {
	System      string   `json:"SYSTEM"`
	TS          int      `json:"TS"`
	TGID        uint32   `json:"TGID"`
	Active      bool     `json:"ACTIVE"`
	TimeoutType string   `json:"TO_TYPE"`
	Timer       float64  `json:"TIMER"`
	On          []uint32 `json:"ON"`
	Off         []uint32 `json:"OFF"`
}

func (d BridgeMemberDescriptor) Policy() TimeoutPolicy {
	switch d.TimeoutType {
	case "ON":
		return TimeoutDisconnectOnTimer
	case "OFF":
		return TimeoutConnectOnTimer
	default:
		return TimeoutNone
	}
}

// Deadline converts the link's unix-seconds timer into an instant.
func (d BridgeMemberDescriptor) Deadline() time.Time {
	if d.Timer <= 0 {
		return time.Time{}
	}
	sec, frac := math.Modf(d.Timer)
	return time.Unix(int64(sec), int64(frac*1e9))
}

type BridgeSnapshot map[string][]BridgeMemberDescriptor

func (b BridgeSnapshot) Validate() error {
	for name, members := range b {
		if name == "" {
			return malformed("empty bridge name")
		}
		for i, m := range members {
			if m.System == "" {
				return malformed("bridge %s: member %d missing SYSTEM", name, i)
			}
			if m.TS < 1 || m.TS > SlotCount {
				return malformed("bridge %s: member %s has timeslot %d", name, m.System, m.TS)
			}
		}
	}
	return nil
}
