package timeslot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iv(t *testing.T, start, end string) Interval {
	t.Helper()
	i, err := ParseInterval(start, end)
	require.NoError(t, err)
	return i
}

func TestNewIntervalRequiresStartBeforeEnd(t *testing.T) {
	_, err := ParseInterval("10:00", "10:00")
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = ParseInterval("10:30", "10:00")
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = ParseInterval("10:00", "25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	i := iv(t, "9:00 AM", "9:45 AM")
	assert.Equal(t, 45, i.Duration())
	assert.Equal(t, "9:00 AM - 9:45 AM", i.Display())
	assert.Equal(t, "09:00-09:45", i.String())
}

func TestConflictBoundaries(t *testing.T) {
	cases := []struct {
		name      string
		existing  Interval
		candidate Interval
		want      bool
	}{
		{"touching after", iv(t, "09:00", "09:30"), iv(t, "09:30", "10:00"), false},
		{"touching before", iv(t, "09:30", "10:00"), iv(t, "09:00", "09:30"), false},
		{"identical", iv(t, "10:00", "10:30"), iv(t, "10:00", "10:30"), true},
		{"nested", iv(t, "09:00", "11:00"), iv(t, "09:30", "10:00"), true},
		{"containing", iv(t, "09:30", "10:00"), iv(t, "09:00", "11:00"), true},
		{"starts inside", iv(t, "09:00", "10:00"), iv(t, "09:30", "10:30"), true},
		{"ends inside", iv(t, "09:30", "10:30"), iv(t, "09:00", "10:00"), true},
		{"disjoint", iv(t, "09:00", "09:30"), iv(t, "11:00", "11:30"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Conflicts(tc.existing, tc.candidate))
			assert.Equal(t, tc.want, tc.existing.Overlaps(tc.candidate))
		})
	}
}

func TestConflictsMatchesGeneralOverlapAndIsSymmetric(t *testing.T) {
	// every interval on a 15 minute lattice between 08:00 and 11:00
	var all []Interval
	for s := 8 * 60; s < 11*60; s += 15 {
		for e := s + 15; e <= 11*60; e += 15 {
			all = append(all, Interval{Start: TimeOfDay(s), End: TimeOfDay(e)})
		}
	}

	for _, a := range all {
		for _, b := range all {
			require.Equal(t, a.Overlaps(b), Conflicts(a, b), "%s vs %s", a, b)
			require.Equal(t, a.Overlaps(b), b.Overlaps(a), "%s vs %s", a, b)
			require.Equal(t, Conflicts(a, b), Conflicts(b, a), "%s vs %s", a, b)
		}
	}
}

func TestConflictsAny(t *testing.T) {
	busy := []Interval{iv(t, "09:00", "09:30"), iv(t, "11:00", "12:00")}
	assert.False(t, ConflictsAny(iv(t, "09:30", "11:00"), busy))
	assert.True(t, ConflictsAny(iv(t, "11:30", "12:30"), busy))
	assert.False(t, ConflictsAny(iv(t, "11:30", "12:30"), nil))
}
