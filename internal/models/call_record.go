package models

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"
)

const RecordTimeLayout = "2006-01-02 15:04:05"

// CallRecord is one completed call as kept by the last-heard ledger.
// Records are immutable once appended.
type CallRecord struct {
	Time         time.Time `json:"time"`
	CallType     string    `json:"type"`
	Status       string    `json:"status"`
	RepeaterID   uint32    `json:"repeater_id"`
	SrcPeer      uint32    `json:"src_peer"`
	SrcPeerAlias string    `json:"src_peer_alias"`
	Timeslot     int       `json:"ts"`
	Dest         uint32    `json:"dest"`
	DestAlias    string    `json:"dest_alias"`
	SrcSub       uint32    `json:"src_sub"`
	SrcSubAlias  string    `json:"src_sub_alias"`
	System       string    `json:"system"`
}

func (r CallRecord) fields() []string {
	return []string{
		r.Time.Format(RecordTimeLayout),
		r.CallType,
		r.Status,
		strconv.FormatUint(uint64(r.RepeaterID), 10),
		strconv.FormatUint(uint64(r.SrcPeer), 10),
		r.SrcPeerAlias,
		"TS" + strconv.Itoa(r.Timeslot),
		"TG" + strconv.FormatUint(uint64(r.Dest), 10),
		r.DestAlias,
		strconv.FormatUint(uint64(r.SrcSub), 10),
		r.SrcSubAlias,
		r.System,
	}
}

// Line renders the record as one CSV line without the trailing newline.
// Aliases may contain commas and are quoted.
func (r CallRecord) Line() string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write(r.fields())
	w.Flush()
	return strings.TrimRight(sb.String(), "\n")
}
