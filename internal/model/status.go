package model

// AlertLevel classifies a room's occupancy ratio against fixed thresholds.
type AlertLevel string

const (
	AlertSafe     AlertLevel = "safe"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// OccupancyStatus is the derived per-room view combining the ledger-derived
// occupancy with the registry's capacity. It is recomputed on every read and
// never persisted.
//
// Available is MaxCapacity minus CurrentOccupancy and can be negative when an
// administrator lowers a room's capacity below its live occupancy; callers
// must not assume it is non-negative. The critical alert level already flags
// the over-capacity condition, so no clamping is applied.
type OccupancyStatus struct {
	CurrentOccupancy int        `json:"current_occupancy"`
	MaxCapacity      int        `json:"max_capacity"`
	Percentage       int        `json:"percentage"`
	AlertLevel       AlertLevel `json:"alert_level"`
	Available        int        `json:"available"`
}

// GlobalSummary aggregates OccupancyStatus across every registered room.
type GlobalSummary struct {
	TotalCurrent     int `json:"total_current"`
	TotalCapacity    int `json:"total_capacity"`
	GlobalPercentage int `json:"global_percentage"`
	SafeRooms        int `json:"safe_rooms"`
	WarningRooms     int `json:"warning_rooms"`
	CriticalRooms    int `json:"critical_rooms"`
}
