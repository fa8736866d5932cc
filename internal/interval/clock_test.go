package interval

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, NewClock(9, 30), c)
	assert.Equal(t, 9, c.Hour())
	assert.Equal(t, 30, c.Minute())

	for _, bad := range []string{"25:00", "12:60", "-1:00", "noon"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestClockString(t *testing.T) {
	assert.Equal(t, "00:00", NewClock(0, 0).String())
	assert.Equal(t, "09:05", NewClock(9, 5).String())
	assert.Equal(t, "23:59", NewClock(23, 59).String())
}

func TestClockOnDate(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	date := time.Date(2026, time.July, 4, 23, 55, 12, 0, loc)
	anchored := NewClock(9, 30).OnDate(date)

	assert.Equal(t, time.Date(2026, time.July, 4, 9, 30, 0, 0, loc), anchored)
	assert.Equal(t, loc, anchored.Location())
}

func TestClockJSON(t *testing.T) {
	data, err := json.Marshal(NewClock(14, 45))
	require.NoError(t, err)
	assert.Equal(t, `"14:45"`, string(data))

	var c Clock
	require.NoError(t, json.Unmarshal([]byte(`"08:15"`), &c))
	assert.Equal(t, NewClock(8, 15), c)

	assert.Error(t, json.Unmarshal([]byte(`"24:00"`), &c))
}
