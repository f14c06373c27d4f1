package link

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"dmrmonitor/internal/alias"
)

const eventTimeLayout = "2006-01-02 15:04:05 MST"

// fixed pads or truncates s to exactly width characters, left aligned.
func fixed(s string, width int) string {
	if utf8.RuneCountInString(s) > width {
		r := []rune(s)
		s = string(r[:width])
	}
	return fmt.Sprintf("%-*s", width, s)
}

func parseID(s string) (uint32, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	return uint32(v), err == nil
}

// FormatBridgeEvent renders a BRDG_EVENT payload as a fixed-width log line.
// Fields are: kind, action, system, stream, peer, subscriber, timeslot,
// talkgroup and, for END, the duration in seconds.
func FormatBridgeEvent(now time.Time, payload string, aliases alias.ResolverInterface) string {
	stamp := now.Format(eventTimeLayout)
	p := strings.Split(payload, ",")
	if p[0] != "GROUP VOICE" {
		return stamp + ": UNKNOWN LOG MESSAGE"
	}
	unknown := stamp + ": UNKNOWN GROUP VOICE LOG MESSAGE"
	if len(p) < 8 {
		return unknown
	}

	peer, ok1 := parseID(p[4])
	sub, ok2 := parseID(p[5])
	tgid, ok3 := parseID(p[7])
	if !ok1 || !ok2 || !ok3 {
		return unknown
	}

	var sep string
	switch p[1] {
	case "START", "END WITHOUT MATCHING START":
		sep = " "
	case "END":
		if len(p) < 9 {
			return unknown
		}
		sep = "   "
	default:
		return unknown
	}

	line := fmt.Sprintf("%s: %s %s:%sIPSC: %s PEER: %s %s SUB: %s %s TS: %s TGID: %5s %s",
		stamp, p[0], p[1], sep,
		fixed(p[2], 15),
		fixed(p[4], 8), fixed(aliases.PeerCall(peer), 20),
		fixed(p[5], 8), fixed(aliases.SubscriberShort(sub), 25),
		p[6],
		p[7], fixed(aliases.Talkgroup(tgid), 12),
	)
	if p[1] == "END" {
		line += fmt.Sprintf(" DURATION: %ss", p[8])
	}
	return line
}
