// Package rrule converts trigger conditions to RFC 5545 recurrence rules so
// listings can show when a contract will next fire.
package rrule

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/sealbound/pactkeeper/internal/models"
	"github.com/sealbound/pactkeeper/internal/trigger"
)

var weekdayMap = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// FromSpec builds the recurrence rule equivalent to a clock condition.
// Tag conditions have no recurrence and return nil.
func FromSpec(spec trigger.Spec, dtstart time.Time) (*rrule.RRule, error) {
	switch s := spec.(type) {
	case trigger.TimeOfDay:
		return rrule.NewRRule(rrule.ROption{
			Freq:     rrule.DAILY,
			Byhour:   []int{s.Hour},
			Byminute: []int{s.Minute},
			Dtstart:  dtstart,
		})
	case trigger.DayOfWeek:
		var days []rrule.Weekday
		for day := range s.Days {
			days = append(days, weekdayMap[day])
		}
		return rrule.NewRRule(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: days,
			Dtstart:   dtstart,
		})
	default:
		return nil, nil
	}
}

// NextTrigger returns the next instant after now at which the condition will
// match, in the given location. Returns nil for tag conditions (manual) and
// for exhausted one-shots.
func NextTrigger(cond *models.Condition, now time.Time, loc *time.Location) (*time.Time, error) {
	if !cond.Active {
		return nil, nil
	}
	spec, err := trigger.Parse(cond)
	if err != nil {
		return nil, fmt.Errorf("cannot preview condition %d: %w", cond.ConditionID, err)
	}

	localNow := now.In(loc)
	rule, err := FromSpec(spec, localNow.Truncate(time.Minute))
	if err != nil || rule == nil {
		return nil, err
	}

	next := rule.After(localNow, false)
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}

// NextTriggerAcross returns the earliest next trigger over a condition set,
// the value shown beside a contract in listings.
func NextTriggerAcross(conds []*models.Condition, now time.Time, loc *time.Location) *time.Time {
	var earliest *time.Time
	for _, cond := range conds {
		next, err := NextTrigger(cond, now, loc)
		if err != nil || next == nil {
			continue
		}
		if earliest == nil || next.Before(*earliest) {
			earliest = next
		}
	}
	return earliest
}
