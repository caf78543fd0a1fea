package aforo

import "gym-aforo-backend/internal/model"

// Occupancy percentage thresholds. No hysteresis: a room oscillating around
// the warning threshold flips levels on every recomputation; debouncing, if
// wanted, belongs to the presentation layer.
const (
	WarningThreshold  = 80
	CriticalThreshold = 100
)

// Classify maps an occupancy percentage to an alert level.
func Classify(percentage int) model.AlertLevel {
	switch {
	case percentage >= CriticalThreshold:
		return model.AlertCritical
	case percentage >= WarningThreshold:
		return model.AlertWarning
	default:
		return model.AlertSafe
	}
}

// levelRank orders alert levels by severity for transition detection.
func levelRank(l model.AlertLevel) int {
	switch l {
	case model.AlertCritical:
		return 2
	case model.AlertWarning:
		return 1
	default:
		return 0
	}
}
