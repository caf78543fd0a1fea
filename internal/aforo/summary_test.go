package aforo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gym-aforo-backend/internal/model"
)

func TestSummarize(t *testing.T) {
	statuses := map[string]model.OccupancyStatus{
		"Spinning": {CurrentOccupancy: 20, MaxCapacity: 20, Percentage: 100, AlertLevel: model.AlertCritical},
		"Cardio":   {CurrentOccupancy: 25, MaxCapacity: 30, Percentage: 83, AlertLevel: model.AlertWarning},
		"Pesas":    {CurrentOccupancy: 5, MaxCapacity: 25, Percentage: 20, AlertLevel: model.AlertSafe},
		"Yoga":     {CurrentOccupancy: 0, MaxCapacity: 15, Percentage: 0, AlertLevel: model.AlertSafe},
	}

	sum := Summarize(statuses)

	assert.Equal(t, 50, sum.TotalCurrent)
	assert.Equal(t, 90, sum.TotalCapacity)
	assert.Equal(t, 56, sum.GlobalPercentage)
	assert.Equal(t, 2, sum.SafeRooms)
	assert.Equal(t, 1, sum.WarningRooms)
	assert.Equal(t, 1, sum.CriticalRooms)
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)

	assert.Equal(t, 0, sum.TotalCurrent)
	assert.Equal(t, 0, sum.TotalCapacity)
	assert.Equal(t, 0, sum.GlobalPercentage, "empty gym must not divide by zero")
}
