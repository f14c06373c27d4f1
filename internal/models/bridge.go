package models

import (
	"strconv"
	"time"
)

type TimeoutPolicy uint8

const (
	TimeoutNone TimeoutPolicy = iota
	TimeoutDisconnectOnTimer
	TimeoutConnectOnTimer
)

func (p TimeoutPolicy) Action() string {
	switch p {
	case TimeoutDisconnectOnTimer:
		return "Disconnect"
	case TimeoutConnectOnTimer:
		return "Connect"
	default:
		return "None"
	}
}

func (p TimeoutPolicy) MarshalText() ([]byte, error) {
	return []byte(p.Action()), nil
}

const (
	ExpiryExpired       = "Expired"
	ExpiryNotApplicable = "N/A"
)

type BridgeMember struct {
	System      string        `json:"system"`
	Timeslot    int           `json:"ts"`
	TGID        uint32        `json:"tgid"`
	Active      bool          `json:"active"`
	Policy      TimeoutPolicy `json:"timeout_action"`
	Deadline    time.Time     `json:"deadline"`
	Expiry      string        `json:"expiry"`
	OnTriggers  []string      `json:"on_triggers"`
	OffTriggers []string      `json:"off_triggers"`
}

func (m BridgeMember) ActiveLabel() string {
	if m.Active {
		return "Connected"
	}
	return "Disconnected"
}

func (m BridgeMember) Color() Color {
	if m.Active {
		return ColorActive
	}
	return ColorAlert
}

// Bridge keeps its members in the order the snapshot listed them.
type Bridge struct {
	Name    string         `json:"name"`
	Members []BridgeMember `json:"members"`
}

// Put inserts a member or replaces the one with the same system name in place.
func (b *Bridge) Put(m BridgeMember) {
	for i := range b.Members {
		if b.Members[i].System == m.System {
			b.Members[i] = m
			return
		}
	}
	b.Members = append(b.Members, m)
}

func (b *Bridge) Member(system string) (BridgeMember, bool) {
	for _, m := range b.Members {
		if m.System == system {
			return m, true
		}
	}
	return BridgeMember{}, false
}

// ExpiryLabel renders the time left until a timed bridge member flips state.
func ExpiryLabel(p TimeoutPolicy, deadline, now time.Time) string {
	if p == TimeoutNone {
		return ExpiryNotApplicable
	}
	left := deadline.Sub(now)
	if left <= 0 {
		return ExpiryExpired
	}
	return strconv.Itoa(int(left.Seconds()))
}
