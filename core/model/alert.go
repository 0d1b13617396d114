package model

// Alert classifies the power reading of one tick. Alerts are mutually
// exclusive and informational; they never mark a tick as abnormal.
type Alert int

const (
	AlertNone Alert = iota
	AlertZeroPower
	AlertSuddenIncrease
	AlertLowPower
)

// String returns the identifier used in logs, metrics labels and payloads.
func (a Alert) String() string {
	switch a {
	case AlertNone:
		return "none"
	case AlertZeroPower:
		return "zero_power"
	case AlertSuddenIncrease:
		return "sudden_increase"
	case AlertLowPower:
		return "low_power"
	default:
		return "unknown"
	}
}

// Alerts lists every classification in priority order, AlertNone last.
var Alerts = []Alert{AlertZeroPower, AlertSuddenIncrease, AlertLowPower, AlertNone}
