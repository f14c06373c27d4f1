package link

import (
	"errors"
	"time"

	"dmrmonitor/internal/alias"
	"dmrmonitor/internal/lastheard"
	"dmrmonitor/internal/models"
	"dmrmonitor/internal/providers"
	"dmrmonitor/internal/rcm"
	"dmrmonitor/internal/services"
)

type Opcode byte

const (
	OpConfigReq Opcode = 0x00
	OpConfigSnd Opcode = 0x01
	OpBridgeReq Opcode = 0x02
	OpBridgeSnd Opcode = 0x03
	OpConfigUpd Opcode = 0x04
	OpBridgeUpd Opcode = 0x05
	OpLinkEvent Opcode = 0x06
	OpBrdgEvent Opcode = 0x07
	OpRcmSnd    Opcode = 0x08
)

var opcodeNames = map[Opcode]string{
	OpConfigReq: "CONFIG_REQ",
	OpConfigSnd: "CONFIG_SND",
	OpBridgeReq: "BRIDGE_REQ",
	OpBridgeSnd: "BRIDGE_SND",
	OpConfigUpd: "CONFIG_UPD",
	OpBridgeUpd: "BRIDGE_UPD",
	OpLinkEvent: "LINK_EVENT",
	OpBrdgEvent: "BRDG_EVENT",
	OpRcmSnd:    "RCM_SND",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return "UNKNOWN"
}

// Publisher pushes log lines and connection notices to viewers.
type Publisher interface {
	PublishLog(line string)
	PublishNotice(text string)
}

type DispatcherInterface interface {
	Dispatch(frame []byte)
}

// Dispatcher routes each frame by its opcode. Nothing it drops is fatal; a
// bad frame is logged with its opcode and length and counted.
type Dispatcher struct {
	decoder   *rcm.Decoder
	codec     PayloadCodec
	store     services.StateStoreInterface
	syncer    services.SynchronizerInterface
	ledger    lastheard.LedgerInterface
	publisher Publisher
	aliases   alias.ResolverInterface
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	clock     providers.Clock
}

func NewDispatcher(
	decoder *rcm.Decoder,
	codec PayloadCodec,
	store services.StateStoreInterface,
	syncer services.SynchronizerInterface,
	ledger lastheard.LedgerInterface,
	publisher Publisher,
	aliases alias.ResolverInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	clock providers.Clock,
) *Dispatcher {
	return &Dispatcher{
		decoder:   decoder,
		codec:     codec,
		store:     store,
		syncer:    syncer,
		ledger:    ledger,
		publisher: publisher,
		aliases:   aliases,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
	}
}

func (d *Dispatcher) Dispatch(frame []byte) {
	if len(frame) == 0 {
		d.drop("empty_frame", "Empty frame received")
		return
	}
	op := Opcode(frame[0])
	body := frame[1:]
	d.metrics.IncFramesTotal(op.String())

	switch op {
	case OpConfigSnd:
		d.handleTopology(body)
	case OpBridgeSnd:
		d.handleBridges(body)
	case OpLinkEvent:
		d.logger.Infof(providers.TypeLink, "LINK_EVENT: %q", body)
	case OpRcmSnd:
		d.handleRcm(body)
	case OpBrdgEvent:
		d.logger.Infof(providers.TypeLink, "BRIDGE EVENT: %q", body)
		d.publisher.PublishLog(FormatBridgeEvent(d.clock(), string(body), d.aliases))
	default:
		d.drop("unknown_opcode", "Unknown opcode 0x%02X, %d bytes", byte(op), len(body))
	}
}

func (d *Dispatcher) drop(reason, format string, args ...interface{}) {
	d.metrics.IncDropped(reason)
	d.logger.Warnf(providers.TypeLink, format, args...)
}

func (d *Dispatcher) handleTopology(body []byte) {
	var snap models.TopologySnapshot
	if err := d.codec.Unmarshal(body, &snap); err != nil {
		d.drop("malformed_snapshot", "CONFIG_SND: cannot decode %d bytes: %s", len(body), err)
		return
	}
	reports, err := d.syncer.SyncTopology(snap)
	if err != nil {
		d.drop("malformed_snapshot", "CONFIG_SND: %s", err)
		return
	}
	d.logger.Debugf(providers.TypeSync, "CONFIG_SND applied to %d systems", len(reports))
}

func (d *Dispatcher) handleBridges(body []byte) {
	var snap models.BridgeSnapshot
	if err := d.codec.Unmarshal(body, &snap); err != nil {
		d.drop("malformed_snapshot", "BRIDGE_SND: cannot decode %d bytes: %s", len(body), err)
		return
	}
	if err := d.syncer.SyncBridges(snap); err != nil {
		d.drop("malformed_snapshot", "BRIDGE_SND: %s", err)
	}
}

func (d *Dispatcher) handleRcm(body []byte) {
	system, packet, err := rcm.SplitFrame(body)
	if err != nil {
		d.drop("rcm_frame", "RCM_SND: %s, %d bytes", err, len(body))
		return
	}

	now := d.clock()
	delta, err := d.decoder.Decode(packet, now)
	if err != nil {
		reason := "rcm_decode"
		switch {
		case errors.Is(err, rcm.ErrTruncatedPacket):
			reason = "truncated_packet"
		case errors.Is(err, rcm.ErrUnknownPacketType):
			reason = "unknown_packet_type"
		}
		d.metrics.IncDropped(reason)
		d.logger.Warnf(providers.TypeRcm, "RCM %s: %s, %d bytes", system, err, len(packet))
		return
	}
	d.logger.Debugf(providers.TypeRcm, "RCM %s: %s packet for peer %d", system, delta.Type, delta.PeerID)

	if err := d.store.ApplyDelta(system, delta); err != nil {
		reason := "unknown_peer"
		if errors.Is(err, services.ErrUnknownSystem) {
			reason = "unknown_system"
		}
		d.metrics.IncDropped(reason)
		d.logger.Warnf(providers.TypeRcm, "RCM %s: %s", system, err)
	}

	if delta.Completed != nil && d.ledger.Enabled() {
		d.record(system, now, delta.Completed)
	}
}

func (d *Dispatcher) record(system string, at time.Time, c *rcm.Completed) {
	rec := models.CallRecord{
		Time:         at,
		CallType:     c.CallType,
		Status:       c.Status,
		RepeaterID:   c.RepeaterID,
		SrcPeer:      c.SrcPeer,
		SrcPeerAlias: d.aliases.PeerCall(c.SrcPeer),
		Timeslot:     c.Timeslot,
		Dest:         c.Dest,
		DestAlias:    d.aliases.Talkgroup(c.Dest),
		SrcSub:       c.SrcSub,
		SrcSubAlias:  d.aliases.SubscriberShort(c.SrcSub),
		System:       system,
	}
	d.logger.Infof(providers.TypeLastHeard, "LASTHEARD TS:%d TG:%5d %s ID:%d %s RPT:%d %s X:%d",
		rec.Timeslot, rec.Dest, rec.DestAlias, rec.SrcSub, rec.SrcSubAlias, rec.SrcPeer, rec.SrcPeerAlias, rec.RepeaterID)
	// Append failures are already logged by the ledger.
	_ = d.ledger.Record(rec)
}
