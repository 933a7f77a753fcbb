package briefing

import (
	"fmt"
	"strings"
	"time"

	"github.com/readyday/readyday/internal/core"
)

// RenderText renders a briefing for the terminal.
func RenderText(b *core.DayBriefing) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ReadyDay Briefing - %s\n", b.Date.Format("Monday, January 2, 2006")))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	sb.WriteString(fmt.Sprintf("Recovery: %s (%d%%)\n", b.RecoveryZone.Label(), b.RecoveryScore))
	sb.WriteString(fmt.Sprintf("Sleep: %s\n", b.SleepSummary.FormattedDuration))
	sb.WriteString(fmt.Sprintf("Calendar load: %.0f/100\n\n", b.CalendarLoadScore))

	if len(b.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		for _, rec := range b.Recommendations {
			marker := " "
			if rec.Priority == core.PriorityHigh {
				marker = "!"
			}
			sb.WriteString(fmt.Sprintf("%s %s\n  %s\n\n", marker, rec.Title, rec.Body))
		}
	}

	if len(b.Events) > 0 {
		sb.WriteString(fmt.Sprintf("SCHEDULE (%d events)\n", len(b.Events)))
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		for _, e := range b.Events {
			when := "all day"
			if !e.Event.AllDay {
				when = fmt.Sprintf("%s - %s", e.Event.Start.Format("15:04"), e.Event.End.Format("15:04"))
			}
			sb.WriteString(fmt.Sprintf("  %s  %s [%s]\n", when, e.Event.Title, e.Demand))
		}
		sb.WriteString("\n")
	}

	if len(b.WorkoutWindows) > 0 {
		sb.WriteString("WORKOUT WINDOWS\n")
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		for _, w := range b.WorkoutWindows {
			sb.WriteString(fmt.Sprintf("  %s - %s (%d min)\n",
				w.Start.Format("15:04"), w.End.Format("15:04"), w.DurationMinutes()))
		}
	}

	return sb.String()
}

// RenderMarkdown renders a briefing as markdown.
func RenderMarkdown(b *core.DayBriefing) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# ReadyDay Briefing - %s\n\n", b.Date.Format("Monday, January 2, 2006")))

	sb.WriteString(fmt.Sprintf("> **%s** recovery (%d%%) | %s sleep | calendar load %.0f/100\n\n",
		b.RecoveryZone.Label(), b.RecoveryScore, b.SleepSummary.FormattedDuration, b.CalendarLoadScore))

	if len(b.Recommendations) > 0 {
		sb.WriteString("## Recommendations\n\n")
		for _, rec := range b.Recommendations {
			sb.WriteString(fmt.Sprintf("- **%s** (%s)\n  - %s\n", rec.Title, rec.Priority, rec.Body))
		}
		sb.WriteString("\n")
	}

	if len(b.Events) > 0 {
		sb.WriteString(fmt.Sprintf("## Schedule (%d)\n\n", len(b.Events)))
		for _, e := range b.Events {
			when := "all day"
			if !e.Event.AllDay {
				when = fmt.Sprintf("%s-%s", e.Event.Start.Format("15:04"), e.Event.End.Format("15:04"))
			}
			sb.WriteString(fmt.Sprintf("- `%s` %s *(%s demand)*\n", when, e.Event.Title, e.Demand))
		}
		sb.WriteString("\n")
	}

	if len(b.WorkoutWindows) > 0 {
		sb.WriteString("## Workout Windows\n\n")
		for _, w := range b.WorkoutWindows {
			sb.WriteString(fmt.Sprintf("- %s - %s (%d min)\n",
				w.Start.Format("15:04"), w.End.Format("15:04"), w.DurationMinutes()))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("---\n*Generated at %s*\n", b.GeneratedAt.Format(time.RFC3339)))

	return sb.String()
}
