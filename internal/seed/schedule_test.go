package seed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule(t *testing.T) {
	start := time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC)

	flights := Schedule(start, 2)
	require.Len(t, flights, 2*len(pattern))

	seen := make(map[string]bool)
	for _, f := range flights {
		assert.False(t, seen[f.FlightID], "duplicate id %s", f.FlightID)
		seen[f.FlightID] = true
		assert.False(t, strings.Contains(f.FlightID, "-"))
		assert.True(t, f.Arrival.After(f.Departure))
		assert.Len(t, f.Origin, 3)
		assert.Len(t, f.Destination, 3)
	}

	assert.Equal(t, time.Date(2026, 10, 16, 4, 30, 0, 0, time.UTC), flights[0].Departure)
	assert.Equal(t, time.Date(2026, 10, 17, 4, 30, 0, 0, time.UTC), flights[len(pattern)].Departure)
}

func TestSchedule_Deterministic(t *testing.T) {
	start := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, Schedule(start, 1), Schedule(start, 1))
}
