package calendar

import (
	"sort"
	"time"

	"github.com/readyday/readyday/internal/core"
)

// Working day bounds for gap scanning, in local hours.
const (
	workingDayStartHour = 8
	workingDayEndHour   = 22
)

// DayGaps returns the free intervals of at least minDuration within the
// working day (08:00-22:00 local) of the given date. All-day events do not
// block time. The scan keeps a forward-only busy-until watermark, so
// overlapping events merge naturally.
func DayGaps(date time.Time, events []core.CalendarEvent, minDuration time.Duration) []core.TimeWindow {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayStart := midnight.Add(workingDayStartHour * time.Hour)
	dayEnd := midnight.Add(workingDayEndHour * time.Hour)

	timed := make([]core.CalendarEvent, 0, len(events))
	for _, e := range events {
		if e.AllDay {
			continue
		}
		timed = append(timed, e)
	}
	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].Start.Before(timed[j].Start)
	})

	gaps := make([]core.TimeWindow, 0)
	busyUntil := dayStart

	for _, e := range timed {
		if e.Start.After(busyUntil) {
			gapEnd := e.Start
			if gapEnd.After(dayEnd) {
				gapEnd = dayEnd
			}
			if gapEnd.Sub(busyUntil) >= minDuration {
				gaps = append(gaps, core.TimeWindow{Start: busyUntil, End: gapEnd})
			}
		}
		if e.End.After(busyUntil) {
			busyUntil = e.End
		}
		if !busyUntil.Before(dayEnd) {
			return gaps
		}
	}

	if dayEnd.Sub(busyUntil) >= minDuration {
		gaps = append(gaps, core.TimeWindow{Start: busyUntil, End: dayEnd})
	}

	return gaps
}
