package timeslot

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrInvalidTimeFormat = errors.New("invalid time format, use HH:MM or h:mm AM/PM")
	ErrInvalidInterval   = errors.New("end time must be after start time")
)

const MinutesPerDay = 24 * 60

var (
	pattern24h = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)
	pattern12h = regexp.MustCompile(`^(0?[1-9]|1[0-2]):([0-5][0-9]) ?([AaPp][Mm])$`)
)

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
// It is stored and serialized as a 24-hour "HH:MM" string.
type TimeOfDay int

// New builds a TimeOfDay from an hour (0-23) and minute (0-59).
func New(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d", ErrInvalidTimeFormat, hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// Parse accepts a strict 24-hour "HH:MM" value or a 12-hour "h:mm AM/PM" value
// (case-insensitive, optional space before the meridiem).
func Parse(input string) (TimeOfDay, error) {
	if m := pattern24h.FindStringSubmatch(input); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return TimeOfDay(hour*60 + minute), nil
	}

	if m := pattern12h.FindStringSubmatch(input); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		pm := strings.EqualFold(m[3], "pm")

		switch {
		case hour == 12 && !pm:
			hour = 0
		case pm && hour != 12:
			hour += 12
		}
		return TimeOfDay(hour*60 + minute), nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, input)
}

// MustParse is Parse for trusted constants; it panics on invalid input.
func MustParse(input string) TimeOfDay {
	t, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int { return int(t) }

// Add shifts the time by the given number of minutes. The result may fall outside
// a single day; callers check it against their own bounds.
func (t TimeOfDay) Add(minutes int) TimeOfDay { return t + TimeOfDay(minutes) }

// Valid reports whether t lies within 00:00-23:59.
func (t TimeOfDay) Valid() bool { return t >= 0 && t < MinutesPerDay }

// String returns the 24-hour storage form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Display12h returns the 12-hour display form, e.g. "9:05 AM" or "12:30 PM".
func (t TimeOfDay) Display12h() string {
	hour := t.Hour()
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	switch {
	case hour == 0:
		hour = 12
	case hour > 12:
		hour -= 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute(), meridiem)
}

// Compare returns -1, 0 or 1 ordering a and b by minutes since midnight.
func Compare(a, b TimeOfDay) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ToDisplay12h converts any accepted time string to its 12-hour display form.
func ToDisplay12h(input string) (string, error) {
	t, err := Parse(input)
	if err != nil {
		return "", err
	}
	return t.Display12h(), nil
}

// ToStorage24h converts any accepted time string to its 24-hour storage form.
func ToStorage24h(input string) (string, error) {
	t, err := Parse(input)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// Value implements driver.Valuer so gorm stores the "HH:MM" form.
func (t TimeOfDay) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidTimeFormat, int(t))
	}
	return t.String(), nil
}

// Scan implements sql.Scanner.
func (t *TimeOfDay) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", value)
	}

	// time columns come back as HH:MM:SS
	if len(raw) == len("15:04:05") && strings.HasSuffix(raw, ":00") {
		raw = raw[:5]
	}

	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
