// Package streak reconstructs consecutive-day kept-promise streaks from the
// reminder ledger.
package streak

import "time"

// maxWalkDays bounds the backward walk so a long ledger stays cheap.
const maxWalkDays = 365

type date struct {
	year  int
	month time.Month
	day   int
}

func toDate(t time.Time, loc *time.Location) date {
	local := t.In(loc)
	y, m, d := local.Date()
	return date{year: y, month: m, day: d}
}

func (d date) prev() date {
	t := time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	y, m, dd := t.Date()
	return date{year: y, month: m, day: dd}
}

func (d date) next() date {
	t := time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	y, m, dd := t.Date()
	return date{year: y, month: m, day: dd}
}

func keptDateSet(keptTimes []time.Time, loc *time.Location) map[date]bool {
	set := make(map[date]bool, len(keptTimes))
	for _, t := range keptTimes {
		set[toDate(t, loc)] = true
	}
	return set
}

// Current returns the length of the consecutive-day run of kept promises
// ending at asOf. The asOf day itself may be empty without breaking the run,
// since its window may not have elapsed yet; the walk starts breaking from
// the previous day.
func Current(keptTimes []time.Time, asOf time.Time, loc *time.Location) int {
	kept := keptDateSet(keptTimes, loc)
	if len(kept) == 0 {
		return 0
	}

	day := toDate(asOf, loc)
	count := 0
	if kept[day] {
		count++
	}
	day = day.prev()

	for i := 0; i < maxWalkDays; i++ {
		if !kept[day] {
			break
		}
		count++
		day = day.prev()
	}
	return count
}

// Best returns the longest consecutive-day run over the entire kept history,
// independent of the current streak.
func Best(keptTimes []time.Time, loc *time.Location) int {
	kept := keptDateSet(keptTimes, loc)
	best := 0
	for day := range kept {
		// Only start counting at the beginning of a run.
		if kept[day.prev()] {
			continue
		}
		run := 1
		for next := day.next(); kept[next]; next = next.next() {
			run++
		}
		if run > best {
			best = run
		}
	}
	return best
}

// KeptRate returns the share of responded reminders that were kept, in
// percent. Skipped and pending reminders are excluded from the denominator.
func KeptRate(keptCount, brokeCount int) int {
	total := keptCount + brokeCount
	if total == 0 {
		return 0
	}
	return keptCount * 100 / total
}
