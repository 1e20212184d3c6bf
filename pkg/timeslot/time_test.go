package timeslot

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccepts24HourAsIs(t *testing.T) {
	got, err := ToStorage24h("09:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", got)

	got, err = ToStorage24h("23:59")
	require.NoError(t, err)
	assert.Equal(t, "23:59", got)
}

func TestParseConverts12Hour(t *testing.T) {
	cases := map[string]string{
		"12:00 AM": "00:00",
		"12:00 PM": "12:00",
		"1:30 PM":  "13:30",
		"1:30PM":   "13:30",
		"9:15 am":  "09:15",
		"09:15 am": "09:15",
		"11:59 pm": "23:59",
		"12:45 am": "00:45",
	}

	for input, want := range cases {
		t.Run(input, func(t *testing.T) {
			got, err := ToStorage24h(input)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseRejectsInvalidInput(t *testing.T) {
	for _, input := range []string{"", "9:00", "24:00", "12:60", "13:00 PM", "0:30 AM", "09:00  AM", "9.00", "09:00:00", " 09:00"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.ErrorIs(t, err, ErrInvalidTimeFormat)
			assert.Contains(t, err.Error(), fmt.Sprintf("%q", input))
		})
	}
}

func TestDisplayRoundTripsForEveryMinute(t *testing.T) {
	for m := 0; m < MinutesPerDay; m++ {
		storage := TimeOfDay(m).String()

		display, err := ToDisplay12h(storage)
		require.NoError(t, err)

		back, err := ToStorage24h(display)
		require.NoError(t, err)
		require.Equal(t, storage, back, "display form %q", display)
	}
}

func TestDisplay12h(t *testing.T) {
	assert.Equal(t, "12:00 AM", MustParse("00:00").Display12h())
	assert.Equal(t, "9:05 AM", MustParse("09:05").Display12h())
	assert.Equal(t, "12:30 PM", MustParse("12:30").Display12h())
	assert.Equal(t, "6:00 PM", MustParse("18:00").Display12h())
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Compare(MustParse("09:00"), MustParse("09:01")))
	assert.Equal(t, 0, Compare(MustParse("1:30 PM"), MustParse("13:30")))
	assert.Equal(t, 1, Compare(MustParse("10:00"), MustParse("9:59 AM")))
}

func TestScan(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, tod.Scan("14:30"))
	assert.Equal(t, "14:30", tod.String())

	require.NoError(t, tod.Scan([]byte("08:00:00")))
	assert.Equal(t, "08:00", tod.String())

	assert.Error(t, tod.Scan(42))

	v, err := MustParse("07:45").Value()
	require.NoError(t, err)
	assert.Equal(t, "07:45", v)
}
