package trigger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealbound/pactkeeper/internal/models"
)

func TestTimeOfDayMatchesExactMinuteOnly(t *testing.T) {
	spec := TimeOfDay{Hour: 7, Minute: 30}

	matched := 0
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for m := 0; m < 24*60; m++ {
		now := day.Add(time.Duration(m) * time.Minute)
		if spec.Matches(now) {
			matched++
			assert.Equal(t, 7, now.Hour())
			assert.Equal(t, 30, now.Minute())
		}
	}
	assert.Equal(t, 1, matched, "a time condition matches exactly one minute per day")
}

func TestTimeOfDayIgnoresSeconds(t *testing.T) {
	spec := TimeOfDay{Hour: 7, Minute: 30}
	assert.True(t, spec.Matches(time.Date(2024, 1, 15, 7, 30, 59, 0, time.UTC)))
}

func TestDayOfWeekMembership(t *testing.T) {
	tests := []struct {
		name  string
		value string
		at    time.Time
		want  bool
	}{
		// 2024-01-15 is a Monday.
		{"single day match", "Monday", time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), true},
		{"single day miss", "Tuesday", time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), false},
		{"set match", "Monday,Wednesday,Friday", time.Date(2024, 1, 17, 23, 59, 0, 0, time.UTC), true},
		{"set miss", "Monday,Wednesday,Friday", time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), false},
		{"case and spacing", " monday , SATURDAY ", time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(&models.Condition{Type: models.ConditionDay, Value: tt.value})
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec.Matches(tt.at))
		})
	}
}

func TestTagConditionsNeverMatchClock(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	for _, cond := range []*models.Condition{
		{Type: models.ConditionLocation, Value: "gym"},
		{Type: models.ConditionSituation, Value: "feeling tired"},
	} {
		spec, err := Parse(cond)
		require.NoError(t, err)
		assert.False(t, spec.Matches(now))
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"07:30", true},
		{"00:00", true},
		{"23:59", true},
		{"24:00", false},
		{"12:60", false},
		{"-1:30", false},
		{"0730", false},
		{"seven thirty", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			_, err := Parse(&models.Condition{Type: models.ConditionTime, Value: tt.value})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	_, err := Parse(&models.Condition{Type: models.ConditionDay, Value: "Funday"})
	assert.Error(t, err)

	_, err = Parse(&models.Condition{Type: models.ConditionDay, Value: " , "})
	assert.Error(t, err)

	_, err = Parse(&models.Condition{Type: models.ConditionLocation, Value: "  "})
	assert.Error(t, err)

	_, err = Parse(&models.Condition{Type: "weather", Value: "rain"})
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	spec, err := Parse(&models.Condition{Type: models.ConditionTime, Value: "07:05"})
	require.NoError(t, err)
	assert.Equal(t, "at 07:05", spec.Describe())

	spec, err = Parse(&models.Condition{Type: models.ConditionDay, Value: "Friday,Monday"})
	require.NoError(t, err)
	assert.Equal(t, "on Friday, Monday", spec.Describe())
}
