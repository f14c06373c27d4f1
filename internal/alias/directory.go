package alias

import (
	"path/filepath"
	"strconv"
	"strings"

	"dmrmonitor/internal/providers"
	"dmrmonitor/internal/structures"
)

type Field uint8

const (
	FieldCallsign Field = iota
	FieldName
	FieldCity
	FieldState
)

func (e Entry) field(f Field) string {
	switch f {
	case FieldCallsign:
		return e.Callsign
	case FieldName:
		return e.DisplayName()
	case FieldCity:
		return e.City
	case FieldState:
		return e.State
	default:
		return ""
	}
}

// Resolve returns the non-empty requested fields of id, or nil when the ID
// is not in the dictionary.
func Resolve(id uint32, dict Dictionary, fields ...Field) []string {
	e, ok := dict[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if v := e.field(f); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func join(id uint32, dict Dictionary, fields ...Field) string {
	parts := Resolve(id, dict, fields...)
	if len(parts) == 0 {
		return strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}

type ResolverInterface interface {
	PeerFull(id uint32) string
	PeerCall(id uint32) string
	SubscriberShort(id uint32) string
	Talkgroup(id uint32) string
}

// Directory bundles the peer, subscriber and talkgroup dictionaries. It is
// read-only after construction.
type Directory struct {
	peers       Dictionary
	subscribers Dictionary
	talkgroups  Dictionary
}

func NewDirectory(peers, subscribers, talkgroups Dictionary) *Directory {
	if peers == nil {
		peers = Dictionary{}
	}
	if subscribers == nil {
		subscribers = Dictionary{}
	}
	if talkgroups == nil {
		talkgroups = Dictionary{}
	}
	return &Directory{peers: peers, subscribers: subscribers, talkgroups: talkgroups}
}

func aliasPath(dir, file string) string {
	if file == "" {
		return ""
	}
	if filepath.IsAbs(file) || dir == "" {
		return file
	}
	return filepath.Join(dir, file)
}

// NewDirectoryProvider loads every configured dictionary; local files are
// overlaid on the downloaded ones.
func NewDirectoryProvider(conf *structures.Config, logger providers.Logger) (ResolverInterface, error) {
	a := conf.Aliases
	load := func(name, file string) (Dictionary, error) {
		dict, err := LoadDictionary(aliasPath(a.Path, file))
		if err != nil {
			return nil, err
		}
		if len(dict) > 0 {
			logger.Infof(providers.TypeApp, "Alias dictionary %s loaded: %d ids", name, len(dict))
		}
		return dict, nil
	}

	peers, err := load("peers", a.PeerFile)
	if err != nil {
		return nil, err
	}
	subscribers, err := load("subscribers", a.SubscriberFile)
	if err != nil {
		return nil, err
	}
	talkgroups, err := load("talkgroups", a.TgidFile)
	if err != nil {
		return nil, err
	}
	localPeers, err := load("local peers", a.LocalPeerFile)
	if err != nil {
		return nil, err
	}
	localSubscribers, err := load("local subscribers", a.LocalSubscriberFile)
	if err != nil {
		return nil, err
	}
	peers.Merge(localPeers)
	subscribers.Merge(localSubscribers)

	return NewDirectory(peers, subscribers, talkgroups), nil
}

func (d *Directory) PeerFull(id uint32) string {
	return join(id, d.peers, FieldCallsign, FieldCity, FieldState)
}

func (d *Directory) PeerCall(id uint32) string {
	return join(id, d.peers, FieldCallsign)
}

func (d *Directory) SubscriberShort(id uint32) string {
	return join(id, d.subscribers, FieldCallsign, FieldName)
}

func (d *Directory) Talkgroup(id uint32) string {
	return join(id, d.talkgroups, FieldName)
}
