package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_WeekStart(t *testing.T) {
	// Wednesday.
	wed := time.Date(2024, 5, 15, 17, 30, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), WeekStart(wed))

	// Monday maps to itself.
	mon := time.Date(2024, 5, 13, 0, 0, 1, 0, time.UTC)
	require.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), WeekStart(mon))

	// Sunday maps to the previous Monday, not the next one.
	sun := time.Date(2024, 5, 19, 9, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), WeekStart(sun))
}

func Test_DiffDays(t *testing.T) {
	a := time.Date(2024, 5, 13, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, 5, 14, 0, 1, 0, 0, time.UTC)
	require.Equal(t, 1, DiffDays(a, b))
	require.Equal(t, -1, DiffDays(b, a))
	require.Equal(t, 0, DiffDays(a, a))
	require.True(t, IsSameDay(b, b.Add(12*time.Hour)))
}
