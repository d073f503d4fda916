package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestCurrentStreakTodayPendingDoesNotBreak(t *testing.T) {
	kept := []time.Time{
		day(2024, time.January, 1),
		day(2024, time.January, 2),
		day(2024, time.January, 3),
	}
	// No kept entry on the 4th yet; the run up to the 3rd still counts.
	asOf := day(2024, time.January, 4)
	assert.Equal(t, 3, Current(kept, asOf, time.UTC))
}

func TestCurrentStreakGapBreaks(t *testing.T) {
	kept := []time.Time{
		day(2024, time.January, 1),
		day(2024, time.January, 3),
	}
	asOf := day(2024, time.January, 3)
	assert.Equal(t, 1, Current(kept, asOf, time.UTC))
}

func TestCurrentStreakIncludesToday(t *testing.T) {
	kept := []time.Time{
		day(2024, time.January, 2),
		day(2024, time.January, 3),
		day(2024, time.January, 4),
	}
	asOf := day(2024, time.January, 4)
	assert.Equal(t, 3, Current(kept, asOf, time.UTC))
}

func TestCurrentStreakEmpty(t *testing.T) {
	assert.Equal(t, 0, Current(nil, day(2024, time.January, 4), time.UTC))
}

func TestCurrentStreakStaleHistory(t *testing.T) {
	kept := []time.Time{day(2023, time.June, 1), day(2023, time.June, 2)}
	assert.Equal(t, 0, Current(kept, day(2024, time.January, 4), time.UTC))
}

func TestCurrentStreakDuplicateEntriesPerDay(t *testing.T) {
	kept := []time.Time{
		time.Date(2024, time.January, 2, 8, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 2, 20, 0, 0, 0, time.UTC),
		day(2024, time.January, 3),
	}
	assert.Equal(t, 2, Current(kept, day(2024, time.January, 3), time.UTC))
}

func TestCurrentStreakCapped(t *testing.T) {
	var kept []time.Time
	start := day(2022, time.January, 1)
	for i := 0; i < 500; i++ {
		kept = append(kept, start.AddDate(0, 0, i))
	}
	asOf := kept[len(kept)-1]
	got := Current(kept, asOf, time.UTC)
	assert.Equal(t, maxWalkDays+1, got, "walk is capped at %d days back", maxWalkDays)
}

func TestCurrentStreakTimezoneBuckets(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:30 UTC on Jan 3 is still Jan 2 in New York.
	kept := []time.Time{
		time.Date(2024, time.January, 2, 2, 30, 0, 0, time.UTC),
		time.Date(2024, time.January, 3, 2, 30, 0, 0, time.UTC),
	}
	asOf := time.Date(2024, time.January, 2, 23, 0, 0, 0, loc)
	assert.Equal(t, 2, Current(kept, asOf, loc))
}

func TestBestStreakSlidingMax(t *testing.T) {
	var kept []time.Time
	// Jan 1..5, then Jan 10..12: best run is 5 even though the current one
	// (as of Jan 12) is 3.
	for d := 1; d <= 5; d++ {
		kept = append(kept, day(2024, time.January, d))
	}
	for d := 10; d <= 12; d++ {
		kept = append(kept, day(2024, time.January, d))
	}

	assert.Equal(t, 5, Best(kept, time.UTC))
	assert.Equal(t, 3, Current(kept, day(2024, time.January, 12), time.UTC))
}

func TestBestStreakSingleDays(t *testing.T) {
	kept := []time.Time{
		day(2024, time.January, 1),
		day(2024, time.January, 5),
		day(2024, time.January, 9),
	}
	assert.Equal(t, 1, Best(kept, time.UTC))
}

func TestBestStreakEmpty(t *testing.T) {
	assert.Equal(t, 0, Best(nil, time.UTC))
}

func TestBestStreakCrossesMonthBoundary(t *testing.T) {
	kept := []time.Time{
		day(2024, time.January, 30),
		day(2024, time.January, 31),
		day(2024, time.February, 1),
	}
	assert.Equal(t, 3, Best(kept, time.UTC))
}

func TestKeptRate(t *testing.T) {
	tests := []struct {
		kept, broke, want int
	}{
		{0, 0, 0},
		{1, 0, 100},
		{0, 1, 0},
		{3, 1, 75},
		{1, 2, 33},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeptRate(tt.kept, tt.broke))
	}
}
