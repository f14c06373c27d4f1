package rcm

import (
	"fmt"

	"dmrmonitor/internal/models"
)

// Wire status codes carried in byte 15 of a status packet.
const (
	wireActive         = 0x01
	wireEnd            = 0x02
	wireTsInUse        = 0x05
	wireRptDisabled    = 0x08
	wireRfInterference = 0x09
	wireBsidOn         = 0x0A
	wireTimeout        = 0x0B
	wireTxInterrupt    = 0x0C
)

var statusCodes = map[byte]models.Status{
	wireActive:         models.StatusActive,
	wireTsInUse:        models.StatusTsInUse,
	wireRptDisabled:    models.StatusRptDisabled,
	wireRfInterference: models.StatusRfInterference,
	wireTimeout:        models.StatusTimeout,
	wireTxInterrupt:    models.StatusTxInterrupt,
}

var callTypes = map[byte]string{
	0x30: "Private Data Set-Up",
	0x31: "Group Data Set-Up",
	0x32: "Private CSBK Set-Up",
	0x45: "Call Alert",
	0x47: "Radio Check Request",
	0x48: "Radio Check Success",
	0x49: "Radio Disable Request",
	0x4A: "Radio Disable Received",
	0x4B: "Radio Enable Request",
	0x4C: "Radio Enable Received",
	0x4D: "Remote Monitor Request",
	0x4E: "Remote Monitor Request Received",
	0x4F: "Group Voice",
	0x50: "Private Voice",
	0x51: "Group Data",
	0x52: "Private Data",
	0x53: "All Call",
	0x54: "Message ACK",
	0x84: "ARS/GPS?",
	0x87: "Emergency Alarm Decode",
}

// CallType names a call-type byte. Unknown codes keep their raw value so
// protocol drift stays visible on the dashboard.
func CallType(code byte) string {
	if name, ok := callTypes[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (0x%02X)", code)
}

// Repeat-state codes, one per timeslot.
const (
	repeatRepeating = 0x01
	repeatDisabled  = 0x03
	repeatEnabled   = 0x04
)

func repeatStatus(code byte) models.Status {
	switch code {
	case repeatRepeating:
		return models.StatusRepeating
	case repeatDisabled:
		return models.StatusDisabled
	case repeatEnabled:
		return models.StatusEnabled
	default:
		return models.StatusIdle
	}
}

// NACK reason codes.
const (
	NackBsidOn = 0x05
	NackClear  = 0x06
)
