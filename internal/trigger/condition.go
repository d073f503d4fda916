package trigger

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sealbound/pactkeeper/internal/models"
)

// Spec is a parsed condition. The stored (type, value) pair is decoded into
// one of TimeOfDay, DayOfWeek, LocationTag or SituationTag; Matches evaluates
// the rule against a wall-clock instant in the owner's timezone.
type Spec interface {
	// Matches reports whether the condition is satisfied at nowLocal. The
	// scan cadence must be at most one minute, or exact-minute time
	// conditions are missed.
	Matches(nowLocal time.Time) bool
	Describe() string
}

// TimeOfDay matches exactly one minute of every day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) Matches(nowLocal time.Time) bool {
	return nowLocal.Hour() == t.Hour && nowLocal.Minute() == t.Minute
}

func (t TimeOfDay) Describe() string {
	return fmt.Sprintf("at %02d:%02d", t.Hour, t.Minute)
}

// DayOfWeek matches every minute of the listed weekdays.
type DayOfWeek struct {
	Days map[time.Weekday]bool
}

func (d DayOfWeek) Matches(nowLocal time.Time) bool {
	return d.Days[nowLocal.Weekday()]
}

func (d DayOfWeek) Describe() string {
	names := make([]string, 0, len(d.Days))
	for day := range d.Days {
		names = append(names, day.String())
	}
	sort.Strings(names)
	return "on " + strings.Join(names, ", ")
}

// LocationTag is a free-text label with no automatic sensing. It never
// matches during a clock scan; it fires only through an explicit user
// check-in.
type LocationTag struct {
	Tag string
}

func (l LocationTag) Matches(time.Time) bool { return false }

func (l LocationTag) Describe() string { return "when at " + l.Tag }

// SituationTag is the situational counterpart of LocationTag, with the same
// manual-only semantics.
type SituationTag struct {
	Tag string
}

func (s SituationTag) Matches(time.Time) bool { return false }

func (s SituationTag) Describe() string { return "when " + s.Tag }

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Parse decodes a stored condition row into its Spec.
func Parse(cond *models.Condition) (Spec, error) {
	switch cond.Type {
	case models.ConditionTime:
		return parseTimeOfDay(cond.Value)
	case models.ConditionDay:
		return parseDayOfWeek(cond.Value)
	case models.ConditionLocation:
		if strings.TrimSpace(cond.Value) == "" {
			return nil, fmt.Errorf("empty location tag")
		}
		return LocationTag{Tag: cond.Value}, nil
	case models.ConditionSituation:
		if strings.TrimSpace(cond.Value) == "" {
			return nil, fmt.Errorf("empty situation tag")
		}
		return SituationTag{Tag: cond.Value}, nil
	default:
		return nil, fmt.Errorf("unknown condition type %q", cond.Type)
	}
}

func parseTimeOfDay(value string) (Spec, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("time condition %q is not HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("time condition %q: bad hour: %w", value, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("time condition %q: bad minute: %w", value, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("time condition %q out of range", value)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func parseDayOfWeek(value string) (Spec, error) {
	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(value, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		day, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("day condition: unknown weekday %q", part)
		}
		days[day] = true
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("day condition %q has no weekdays", value)
	}
	return DayOfWeek{Days: days}, nil
}
