package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString(t *testing.T) {
	ts, err := NewTimeStringFromString("14:00:00")
	require.NoError(t, err)
	assert.Equal(t, TimeString("14:00"), ts)
	assert.Equal(t, 14*60, ts.Minutes())

	end, err := NewTimeStringFromString("24:00")
	require.NoError(t, err)
	assert.Equal(t, 24*60, end.Minutes())
	assert.True(t, ts.IsBefore(end))

	next, err := ts.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("15:30"), next)

	_, err = end.AddMinutes(1)
	assert.ErrorIs(t, err, ErrTimeOverflow)

	_, err = NewTimeStringFromString("25:61")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
	assert.Equal(t, -1, TimeString("bad").Minutes())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan([]byte("08:30:00")))
	assert.Equal(t, TimeString("08:30"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())
}

func TestDate_ParseIsTimezoneIndependent(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 10, d.Day())
	assert.Equal(t, time.Monday, d.Weekday())

	loc, err := time.LoadLocation("America/St_Johns")
	require.NoError(t, err)
	instant := d.At(TimeString("14:00"), loc)
	assert.Equal(t, "2025-03-10T14:00:00-02:30", instant.Format(time.RFC3339))
}

func TestDate_ScanKeepsCalendarDay(t *testing.T) {
	var d Date
	// lib/pq отдает DATE как полночь UTC
	require.NoError(t, d.Scan(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-03-10", d.String())
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Date Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2025-12-31"}`), &payload))
	assert.Equal(t, NewDate(2026, time.January, 0), payload.Date)
	assert.Equal(t, "2026-01-01", payload.Date.AddDays(1).String())

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-12-31"}`, string(raw))

	assert.Error(t, json.Unmarshal([]byte(`{"date":"12/31/2025"}`), &payload))
}

func TestTimeString_ScanEndOfDayFromDriver(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan(time.Date(0, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("24:00"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 9, 30, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("09:30"), ts)
}
