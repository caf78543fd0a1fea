package aforo

import "gym-aforo-backend/internal/model"

// Summarize rolls per-room status into a gym-wide summary. Pure function,
// no I/O.
func Summarize(statuses map[string]model.OccupancyStatus) model.GlobalSummary {
	var sum model.GlobalSummary
	for _, st := range statuses {
		sum.TotalCurrent += st.CurrentOccupancy
		sum.TotalCapacity += st.MaxCapacity

		switch st.AlertLevel {
		case model.AlertCritical:
			sum.CriticalRooms++
		case model.AlertWarning:
			sum.WarningRooms++
		default:
			sum.SafeRooms++
		}
	}
	sum.GlobalPercentage = percentage(sum.TotalCurrent, sum.TotalCapacity)
	return sum
}

// percentage computes round(100 * current / capacity), returning 0 for a
// zero capacity to avoid division by zero.
func percentage(current, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	return int(float64(current)/float64(capacity)*100 + 0.5)
}
