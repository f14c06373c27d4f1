package models

// Status is the closed set of timeslot states shown on the dashboard.
type Status uint8

const (
	StatusIdle Status = iota
	StatusActive
	StatusTsInUse
	StatusRptDisabled
	StatusRfInterference
	StatusTimeout
	StatusTxInterrupt
	StatusRepeating
	StatusDisabled
	StatusEnabled
	StatusBsidOn
)

type Color string

const (
	ColorIdle    Color = "#ffffff"
	ColorActive  Color = "#00ff00"
	ColorAlert   Color = "#ff0000"
	ColorWarning Color = "#ff8000"
)

type statusInfo struct {
	label string
	color Color
}

var statusTable = [...]statusInfo{
	StatusIdle:           {"", ColorIdle},
	StatusActive:         {"Active", ColorActive},
	StatusTsInUse:        {"TS In Use", ColorActive},
	StatusRptDisabled:    {"RPT Disabled", ColorActive},
	StatusRfInterference: {"RF Interference", ColorActive},
	StatusTimeout:        {"Timeout", ColorActive},
	StatusTxInterrupt:    {"TX Interrupt", ColorActive},
	StatusRepeating:      {"Repeating", ColorActive},
	StatusDisabled:       {"Disabled", ColorAlert},
	StatusEnabled:        {"Enabled", ColorActive},
	StatusBsidOn:         {"BSID ON", ColorWarning},
}

func (s Status) String() string {
	if int(s) < len(statusTable) {
		return statusTable[s].label
	}
	return ""
}

// Color is derived from the status alone; a slot never carries a color that
// disagrees with its status.
func (s Status) Color() Color {
	if int(s) < len(statusTable) {
		return statusTable[s].color
	}
	return ColorIdle
}

func (s Status) IsIdle() bool {
	return s == StatusIdle
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
