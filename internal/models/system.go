package models

import "time"

type Role string

const (
	RoleMaster Role = "Master"
	RolePeer   Role = "Peer"
)

// SlotCount is fixed: every repeater in the network carries two TDMA slots.
const SlotCount = 2

type TimeslotState struct {
	Status   Status    `json:"status"`
	Color    Color     `json:"color"`
	CallType string    `json:"type"`
	SrcSub   string    `json:"src_sub"`
	SrcPeer  string    `json:"src_peer"`
	Dest     uint32    `json:"dest"`
	Last     time.Time `json:"last"`
}

// SetStatus changes the status and its derived color together.
func (ts *TimeslotState) SetStatus(s Status) {
	ts.Status = s
	ts.Color = s.Color()
}

// Clear returns the slot to idle and drops every call detail.
func (ts *TimeslotState) Clear(at time.Time) {
	ts.SetStatus(StatusIdle)
	ts.CallType = ""
	ts.SrcSub = ""
	ts.SrcPeer = ""
	ts.Dest = 0
	ts.Last = at
}

func NewIdleSlot(at time.Time) TimeslotState {
	var ts TimeslotState
	ts.Clear(at)
	return ts
}

type KeepAlives struct {
	Sent     int `json:"sent"`
	Received int `json:"received"`
	Missed   int `json:"missed"`
}

type Peer struct {
	ID         uint32                   `json:"id"`
	Role       Role                     `json:"role"`
	Alias      string                   `json:"alias"`
	IP         string                   `json:"ip"`
	Connected  bool                     `json:"connected"`
	KeepAlives KeepAlives               `json:"keep_alives"`
	Slots      [SlotCount]TimeslotState `json:"slots"`
}

// Slot addresses a timeslot by its 1-based number.
func (p *Peer) Slot(ts int) (*TimeslotState, bool) {
	if ts < 1 || ts > SlotCount {
		return nil, false
	}
	return &p.Slots[ts-1], true
}

type System struct {
	Name         string           `json:"name"`
	IP           string           `json:"ip"`
	RadioID      uint32           `json:"radio_id"`
	IsMaster     bool             `json:"is_master"`
	MasterPeerID uint32           `json:"master_peer_id"`
	Peers        map[uint32]*Peer `json:"peers"`
}

func (s *System) Clone() *System {
	out := *s
	out.Peers = make(map[uint32]*Peer, len(s.Peers))
	for id, p := range s.Peers {
		cp := *p
		out.Peers[id] = &cp
	}
	return &out
}
