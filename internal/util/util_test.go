package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	slugs := []string{"new-truck-2023", "year-end-holidays", "driver-recruit", "office-move"}

	got := Suggest("truck", slugs, 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "new-truck-2023", got[0])

	assert.Nil(t, Suggest("", slugs, 3))
	assert.Nil(t, Suggest("truck", nil, 3))
	assert.LessOrEqual(t, len(Suggest("e", slugs, 2)), 2)
}

func TestParseTimeRange(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	r, err := ParseTimeRange("3d", "", now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -3), r.Since)
	assert.True(t, r.Until.IsZero())

	r, err = ParseTimeRange("2024-06-10", "1mo", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC), r.Since, "reversed bounds are swapped")
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), r.Until)

	r, err = ParseTimeRange("90m", "", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-90*time.Minute), r.Since)

	_, err = ParseTimeRange("yesterday", "", now)
	assert.ErrorContains(t, err, "invalid --since")
	_, err = ParseTimeRange("", "xd", now)
	assert.ErrorContains(t, err, "invalid --until")
}

func TestTimeRangeContains(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	r := TimeRange{Since: day(5), Until: day(10)}
	assert.True(t, r.Contains(day(5)))
	assert.True(t, r.Contains(day(7)))
	assert.False(t, r.Contains(day(4)))
	assert.False(t, r.Contains(day(11)))
	assert.True(t, TimeRange{}.Contains(day(1)))
}
