package rcm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"dmrmonitor/internal/models"
	"dmrmonitor/internal/structures"
)

var (
	ErrTruncatedPacket   = errors.New("truncated call-monitor packet")
	ErrUnknownPacketType = errors.New("unknown call-monitor packet type")
	ErrUnknownStatus     = errors.New("unknown call status")
	ErrInvalidTimeslot   = errors.New("invalid timeslot")
	ErrMissingSystem     = errors.New("call-monitor frame without system name")
)

type PacketType uint8

const (
	PacketStatus PacketType = iota + 1
	PacketRepeat
	PacketNack
)

func (p PacketType) String() string {
	switch p {
	case PacketStatus:
		return "status"
	case PacketRepeat:
		return "repeat"
	case PacketNack:
		return "nack"
	default:
		return "unknown"
	}
}

const (
	statusMinLen = 23
	repeatMinLen = 7
	nackMinLen   = 6
)

// Kind says which TimeslotState fields an update may touch.
type Kind uint8

const (
	// KindCall sets status, call type, source and destination.
	KindCall Kind = iota + 1
	// KindIdle clears the slot back to idle.
	KindIdle
	// KindStatus changes status and color only.
	KindStatus
	// KindTouch only refreshes the timestamp.
	KindTouch
)

type SlotUpdate struct {
	Timeslot int
	Kind     Kind
	Status   models.Status
	CallType string
	SrcSub   uint32
	SrcPeer  uint32
	Dest     uint32
}

// Completed describes a call that reached its terminal status.
type Completed struct {
	CallType   string
	Status     string
	RepeaterID uint32
	SrcPeer    uint32
	SrcSub     uint32
	Dest       uint32
	Timeslot   int
}

// Delta is the decoded effect of one packet on a single peer.
type Delta struct {
	Type      PacketType
	PeerID    uint32
	At        time.Time
	Updates   []SlotUpdate
	Completed *Completed
}

type Decoder struct {
	types structures.RcmConfig
}

func NewDecoder(conf *structures.Config) *Decoder {
	return &Decoder{types: conf.Link.Rcm}
}

// SplitFrame separates the "<system>,<packet>" RCM_SND payload.
func SplitFrame(payload []byte) (string, []byte, error) {
	i := bytes.IndexByte(payload, ',')
	if i <= 0 {
		return "", nil, ErrMissingSystem
	}
	return string(payload[:i]), payload[i+1:], nil
}

// Decode turns a raw call-monitor packet into a delta. It never indexes past
// the end of the packet.
func (d *Decoder) Decode(packet []byte, at time.Time) (*Delta, error) {
	if len(packet) == 0 {
		return nil, fmt.Errorf("%w: empty packet", ErrTruncatedPacket)
	}
	switch packet[0] {
	case d.types.StatusType:
		return decodeStatus(packet, at)
	case d.types.RepeatType:
		return decodeRepeat(packet, at)
	case d.types.NackType:
		return decodeNack(packet, at)
	default:
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownPacketType, packet[0])
	}
}

func checkLen(packet []byte, min int, t PacketType) error {
	if len(packet) < min {
		return fmt.Errorf("%w: %s packet has %d bytes, need %d", ErrTruncatedPacket, t, len(packet), min)
	}
	return nil
}

func uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func decodeStatus(packet []byte, at time.Time) (*Delta, error) {
	if err := checkLen(packet, statusMinLen, PacketStatus); err != nil {
		return nil, err
	}
	peer := binary.BigEndian.Uint32(packet[1:5])
	srcPeer := binary.BigEndian.Uint32(packet[5:9])

	ts := int(packet[13]) + 1
	if ts < 1 || ts > models.SlotCount {
		return nil, fmt.Errorf("%w: wire value %d", ErrInvalidTimeslot, packet[13])
	}
	srcSub := uint24(packet[16:19])
	dest := uint24(packet[19:22])
	callType := CallType(packet[22])

	delta := &Delta{Type: PacketStatus, PeerID: peer, At: at}

	switch code := packet[15]; code {
	case wireEnd, wireBsidOn:
		delta.Updates = []SlotUpdate{{Timeslot: ts, Kind: KindIdle}}
		if code == wireEnd {
			delta.Completed = &Completed{
				CallType:   callType,
				Status:     "End",
				RepeaterID: peer,
				SrcPeer:    srcPeer,
				SrcSub:     srcSub,
				Dest:       dest,
				Timeslot:   ts,
			}
		}
	default:
		status, ok := statusCodes[code]
		if !ok {
			return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownStatus, code)
		}
		delta.Updates = []SlotUpdate{{
			Timeslot: ts,
			Kind:     KindCall,
			Status:   status,
			CallType: callType,
			SrcSub:   srcSub,
			SrcPeer:  srcPeer,
			Dest:     dest,
		}}
	}
	return delta, nil
}

func decodeRepeat(packet []byte, at time.Time) (*Delta, error) {
	if err := checkLen(packet, repeatMinLen, PacketRepeat); err != nil {
		return nil, err
	}
	delta := &Delta{
		Type:   PacketRepeat,
		PeerID: binary.BigEndian.Uint32(packet[1:5]),
		At:     at,
	}
	for ts := 1; ts <= models.SlotCount; ts++ {
		delta.Updates = append(delta.Updates, SlotUpdate{
			Timeslot: ts,
			Kind:     KindStatus,
			Status:   repeatStatus(packet[4+ts]),
		})
	}
	return delta, nil
}

func decodeNack(packet []byte, at time.Time) (*Delta, error) {
	if err := checkLen(packet, nackMinLen, PacketNack); err != nil {
		return nil, err
	}
	delta := &Delta{
		Type:   PacketNack,
		PeerID: binary.BigEndian.Uint32(packet[1:5]),
		At:     at,
	}
	for ts := 1; ts <= models.SlotCount; ts++ {
		u := SlotUpdate{Timeslot: ts, Kind: KindTouch}
		switch packet[5] {
		case NackBsidOn:
			u.Kind = KindStatus
			u.Status = models.StatusBsidOn
		case NackClear:
			u.Kind = KindIdle
		}
		delta.Updates = append(delta.Updates, u)
	}
	return delta, nil
}
