package aforo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gym-aforo-backend/internal/model"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		percentage int
		expected   model.AlertLevel
	}{
		{0, model.AlertSafe},
		{50, model.AlertSafe},
		{79, model.AlertSafe},
		{80, model.AlertWarning},
		{99, model.AlertWarning},
		{100, model.AlertCritical},
		{150, model.AlertCritical},
	}

	for _, tc := range testCases {
		assert.Equalf(t, tc.expected, Classify(tc.percentage), "Classify(%d)", tc.percentage)
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, percentage(5, 0), "zero capacity must not divide")
	assert.Equal(t, 50, percentage(1, 2))
	assert.Equal(t, 33, percentage(1, 3))
	assert.Equal(t, 67, percentage(2, 3))
	assert.Equal(t, 100, percentage(3, 3))
	assert.Equal(t, 150, percentage(3, 2))
}
