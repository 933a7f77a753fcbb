package briefing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/readyday/readyday/internal/core"
	"github.com/readyday/readyday/internal/logging"
)

// WhoopSource serves the latest physiological data. Satisfied by
// whoop.Repository.
type WhoopSource interface {
	LatestRecovery(ctx context.Context, userID uuid.UUID) (core.RecoveryData, error)
	LatestSleep(ctx context.Context, userID uuid.UUID) (core.SleepData, error)
}

// EventSource serves one day's calendar events. Satisfied by
// calendar.Source.
type EventSource interface {
	Events(ctx context.Context, date time.Time) ([]core.CalendarEvent, error)
}

// Generator synthesizes daily briefings
type Generator struct {
	whoop   WhoopSource
	events  EventSource
	windows *WindowFinder
	logger  *logging.Logger
}

// NewGenerator creates a briefing generator
func NewGenerator(whoop WhoopSource, events EventSource, windows *WindowFinder) *Generator {
	return &Generator{
		whoop:   whoop,
		events:  events,
		windows: windows,
		logger:  logging.WithField("component", "briefing"),
	}
}

// Generate builds the full briefing for one day. Recovery and sleep are
// required; a calendar failure degrades to an empty event list rather than
// failing the whole briefing.
func (g *Generator) Generate(ctx context.Context, date time.Time, userID uuid.UUID) (*core.DayBriefing, error) {
	var (
		wg          sync.WaitGroup
		recovery    core.RecoveryData
		sleep       core.SleepData
		rawEvents   []core.CalendarEvent
		recoveryErr error
		sleepErr    error
		eventsErr   error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		recovery, recoveryErr = g.whoop.LatestRecovery(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		sleep, sleepErr = g.whoop.LatestSleep(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		rawEvents, eventsErr = g.events.Events(ctx, date)
	}()
	wg.Wait()

	if recoveryErr != nil {
		return nil, recoveryErr
	}
	if sleepErr != nil {
		return nil, sleepErr
	}
	if eventsErr != nil {
		g.logger.WithField("error", eventsErr.Error()).Warn("Calendar fetch failed, continuing without events")
		rawEvents = nil
	}

	classified := ClassifyAll(rawEvents)

	windows, err := g.windows.FindWindows(ctx, date, recovery.Zone())
	if err != nil {
		g.logger.WithField("error", err.Error()).Warn("Window search failed, continuing without windows")
		windows = nil
	}

	load := CalculateLoad(classified)
	recommendations := buildRecommendations(recovery, sleep, classified, load, windows)

	score := 0
	if recovery.RecoveryScore != nil {
		score = *recovery.RecoveryScore
	}

	return &core.DayBriefing{
		Date:              date,
		RecoveryZone:      recovery.Zone(),
		RecoveryScore:     score,
		SleepSummary:      core.NewSleepSummary(sleep),
		Events:            classified,
		Recommendations:   recommendations,
		CalendarLoadScore: load,
		WorkoutWindows:    windows,
		GeneratedAt:       time.Now(),
	}, nil
}

// buildRecommendations runs the rule engine: recovery rules first, then
// sleep, then calendar, then a stable sort by descending priority so ties
// keep rule order.
func buildRecommendations(
	recovery core.RecoveryData,
	sleep core.SleepData,
	events []core.ClassifiedEvent,
	calendarLoad float64,
	windows []core.TimeWindow,
) []core.Recommendation {
	var recs []core.Recommendation

	switch recovery.Zone() {
	case core.ZoneGreen:
		recs = append(recs, core.NewRecommendation(
			core.RecPositive,
			"Recovery is strong",
			"Your body is well recovered. Great day for a challenging workout or demanding tasks.",
			core.PriorityMedium,
		))
		if len(windows) > 0 {
			w := windows[0]
			recs = append(recs, core.NewRecommendation(
				core.RecWorkout,
				"Workout window available",
				fmt.Sprintf("Best slot: %s – %s (%d min).",
					w.Start.Format("3:04 PM"), w.End.Format("3:04 PM"), w.DurationMinutes()),
				core.PriorityMedium,
			))
		}
	case core.ZoneYellow:
		recs = append(recs, core.NewRecommendation(
			core.RecInfo,
			"Moderate recovery",
			"Consider a lighter workout today. Focus on technique over intensity.",
			core.PriorityMedium,
		))
	case core.ZoneRed:
		recs = append(recs, core.NewRecommendation(
			core.RecWarning,
			"Low recovery — prioritize rest",
			"Your body needs recovery. Stick to light movement like walking or stretching.",
			core.PriorityHigh,
		))
		if names := highDemandTitles(events, 2); len(names) > 0 {
			recs = append(recs, core.NewRecommendation(
				core.RecWarning,
				"High-demand events today",
				fmt.Sprintf("You have demanding events (%s) on a low recovery day. Pace yourself and take breaks.",
					strings.Join(names, ", ")),
				core.PriorityHigh,
			))
		}
	default:
		recs = append(recs, core.NewRecommendation(
			core.RecInfo,
			"Recovery data pending",
			"Whoop hasn't scored your recovery yet. Check back soon.",
			core.PriorityLow,
		))
	}

	sleepHours := sleep.TotalHours()
	if sleepHours < 6 {
		recs = append(recs, core.NewRecommendation(
			core.RecSleep,
			"Sleep deficit detected",
			fmt.Sprintf("You got %.1fh of sleep. Consider an earlier bedtime tonight.", sleepHours),
			core.PriorityHigh,
		))
	} else if sleepHours >= 7.5 {
		recs = append(recs, core.NewRecommendation(
			core.RecPositive,
			"Great sleep",
			fmt.Sprintf("You logged %.1fh of quality sleep. Well done!", sleepHours),
			core.PriorityLow,
		))
	}

	if calendarLoad >= 70 {
		recs = append(recs, core.NewRecommendation(
			core.RecCalendar,
			"Heavy calendar day",
			"Your schedule is packed. Block time for short breaks between meetings.",
			core.PriorityMedium,
		))
	} else if calendarLoad <= 20 {
		recs = append(recs, core.NewRecommendation(
			core.RecCalendar,
			"Light schedule",
			"You have open time today — great opportunity for deep work or a longer workout.",
			core.PriorityLow,
		))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})

	return recs
}

func highDemandTitles(events []core.ClassifiedEvent, limit int) []string {
	var names []string
	for _, e := range events {
		if e.Demand != core.DemandHigh {
			continue
		}
		names = append(names, e.Event.Title)
		if len(names) == limit {
			break
		}
	}
	return names
}
