// Package briefing is the ReadyDay engine: it classifies calendar events,
// scores calendar load, finds workout windows, and synthesizes the daily
// briefing.
package briefing

import (
	"strings"

	"github.com/readyday/readyday/internal/core"
)

// Keyword lists for the title factor. High-demand keywords win over
// low-demand ones when both match.
var (
	highDemandKeywords = []string{
		"strategy", "review", "presentation", "interview",
		"planning", "brainstorm", "board", "all-hands",
		"pitch", "demo", "retrospective", "quarterly",
	}
	lowDemandKeywords = []string{
		"lunch", "break", "coffee", "social", "happy hour",
		"walk", "1:1", "check-in", "standup", "daily",
	}
)

// Classify scores one event's energy demand from four additive factors:
// duration, attendee count, post-lunch start, and title keywords.
func Classify(event core.CalendarEvent) core.EnergyDemand {
	score := 0.0

	// Factor 1: duration (0-3 points)
	hours := event.DurationHours()
	switch {
	case hours >= 2.0:
		score += 3
	case hours >= 1.0:
		score += 2
	default:
		score += 1
	}

	// Factor 2: attendees (0-3 points)
	switch {
	case event.AttendeeCount >= 8:
		score += 3
	case event.AttendeeCount >= 4:
		score += 2
	case event.AttendeeCount >= 1:
		score += 1
	}

	// Factor 3: post-lunch dip (0-1 points)
	hour := event.Start.Hour()
	if hour >= 13 && hour <= 15 {
		score += 1
	}

	// Factor 4: title keywords (-1 to +2 points)
	title := strings.ToLower(event.Title)
	if containsAny(title, highDemandKeywords) {
		score += 2
	} else if containsAny(title, lowDemandKeywords) {
		score -= 1
	}

	switch {
	case score >= 6:
		return core.DemandHigh
	case score >= 3:
		return core.DemandMedium
	default:
		return core.DemandLow
	}
}

// ClassifyAll classifies a batch of events, preserving order.
func ClassifyAll(events []core.CalendarEvent) []core.ClassifiedEvent {
	classified := make([]core.ClassifiedEvent, 0, len(events))
	for _, event := range events {
		classified = append(classified, core.ClassifiedEvent{
			Event:  event,
			Demand: Classify(event),
		})
	}
	return classified
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
