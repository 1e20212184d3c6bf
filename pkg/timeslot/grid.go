package timeslot

import (
	"errors"
	"fmt"
)

var ErrInvalidGrid = errors.New("invalid slot grid")

// Grid is the fixed set of bookable cells for one working day.
type Grid struct {
	DayStart TimeOfDay
	DayEnd   TimeOfDay
	Step     int // minutes
}

// DefaultGrid is 09:00-18:00 in 30 minute steps.
func DefaultGrid() Grid {
	return Grid{DayStart: 9 * 60, DayEnd: 18 * 60, Step: 30}
}

func (g Grid) Validate() error {
	if g.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %d", ErrInvalidGrid, g.Step)
	}
	if !g.DayStart.Valid() || g.DayEnd > MinutesPerDay || g.DayEnd <= g.DayStart {
		return fmt.Errorf("%w: day %s - %s", ErrInvalidGrid, g.DayStart, g.DayEnd)
	}
	return nil
}

// Slots returns every Step-sized cell from DayStart; a cell ending after DayEnd is not generated.
func (g Grid) Slots() []Interval {
	return g.Candidates(g.Step)
}

// Candidates returns intervals of the given duration starting at every grid point
// that still end no later than DayEnd.
func (g Grid) Candidates(duration int) []Interval {
	if duration <= 0 || g.Step <= 0 {
		return nil
	}

	var out []Interval
	for t := g.DayStart; t.Add(duration) <= g.DayEnd; t = t.Add(g.Step) {
		out = append(out, Interval{Start: t, End: t.Add(duration)})
	}
	return out
}
