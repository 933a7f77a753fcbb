package briefing

import (
	"context"
	"time"

	"github.com/readyday/readyday/internal/core"
)

// GapFinder locates free calendar intervals. Satisfied by calendar.Source.
type GapFinder interface {
	FindGaps(ctx context.Context, date time.Time, minDuration time.Duration) ([]core.TimeWindow, error)
}

// WindowFinder suggests workout windows sized by recovery zone.
type WindowFinder struct {
	gaps GapFinder
}

// NewWindowFinder creates a window finder
func NewWindowFinder(gaps GapFinder) *WindowFinder {
	return &WindowFinder{gaps: gaps}
}

// FindWindows returns up to maxWindows free intervals long enough for a
// workout. A strong recovery earns longer, more numerous suggestions; a
// poor one gets a single short slot.
func (f *WindowFinder) FindWindows(ctx context.Context, date time.Time, zone core.RecoveryZone) ([]core.TimeWindow, error) {
	minDuration, maxWindows := windowParams(zone)

	gaps, err := f.gaps.FindGaps(ctx, date, minDuration)
	if err != nil {
		return nil, err
	}

	if len(gaps) > maxWindows {
		gaps = gaps[:maxWindows]
	}
	return gaps, nil
}

func windowParams(zone core.RecoveryZone) (time.Duration, int) {
	switch zone {
	case core.ZoneGreen:
		return 45 * time.Minute, 3
	case core.ZoneRed:
		return 20 * time.Minute, 1
	default: // yellow and unknown share parameters
		return 30 * time.Minute, 2
	}
}
