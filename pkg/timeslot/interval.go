package timeslot

import "fmt"

// Interval is a half-open span [Start, End) within a single day.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// NewInterval enforces Start < End.
func NewInterval(start, end TimeOfDay) (Interval, error) {
	if end <= start {
		return Interval{}, fmt.Errorf("%w: %s - %s", ErrInvalidInterval, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// ParseInterval parses both bounds with Parse and validates the ordering.
func ParseInterval(start, end string) (Interval, error) {
	s, err := Parse(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := Parse(end)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(s, e)
}

// Duration returns the interval length in minutes.
func (i Interval) Duration() int {
	return int(i.End - i.Start)
}

// Overlaps is the general half-open overlap test. Touching intervals do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Conflicts reports whether candidate collides with an existing booking.
// The three cases together are equivalent to Overlaps.
func Conflicts(existing, candidate Interval) bool {
	startsInside := existing.Start <= candidate.Start && candidate.Start < existing.End
	endsInside := existing.Start < candidate.End && candidate.End <= existing.End
	covers := candidate.Start <= existing.Start && existing.End <= candidate.End
	return startsInside || endsInside || covers
}

// ConflictsAny reports whether candidate conflicts with any of the busy intervals.
func ConflictsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if Conflicts(b, candidate) {
			return true
		}
	}
	return false
}

// String returns "HH:MM-HH:MM".
func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// Display returns the 12-hour range, e.g. "9:00 AM - 9:30 AM".
func (i Interval) Display() string {
	return i.Start.Display12h() + " - " + i.End.Display12h()
}
