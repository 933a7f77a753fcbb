package briefing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/readyday/readyday/internal/core"
)

type fakeGapFinder struct {
	gaps        []core.TimeWindow
	err         error
	minDuration time.Duration
}

func (f *fakeGapFinder) FindGaps(ctx context.Context, date time.Time, minDuration time.Duration) ([]core.TimeWindow, error) {
	f.minDuration = minDuration
	if f.err != nil {
		return nil, f.err
	}
	var out []core.TimeWindow
	for _, g := range f.gaps {
		if g.Duration() >= minDuration {
			out = append(out, g)
		}
	}
	return out, nil
}

func window(startHour, minutes int) core.TimeWindow {
	start := time.Date(2026, 3, 10, startHour, 0, 0, 0, time.UTC)
	return core.TimeWindow{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
}

func TestFindWindowsZoneParameters(t *testing.T) {
	gaps := []core.TimeWindow{
		window(8, 60),
		window(11, 40),
		window(15, 25),
		window(18, 90),
	}

	tests := []struct {
		zone        core.RecoveryZone
		wantMin     time.Duration
		wantWindows int
	}{
		{core.ZoneGreen, 45 * time.Minute, 2},  // 60m and 90m qualify, cap 3
		{core.ZoneYellow, 30 * time.Minute, 2}, // 60m, 40m, 90m qualify, cap 2
		{core.ZoneUnknown, 30 * time.Minute, 2},
		{core.ZoneRed, 20 * time.Minute, 1}, // everything qualifies, cap 1
	}

	for _, tt := range tests {
		t.Run(string(tt.zone), func(t *testing.T) {
			finder := &fakeGapFinder{gaps: gaps}
			windows, err := NewWindowFinder(finder).FindWindows(context.Background(), time.Now(), tt.zone)
			if err != nil {
				t.Fatalf("FindWindows failed: %v", err)
			}
			if finder.minDuration != tt.wantMin {
				t.Errorf("minDuration = %v, want %v", finder.minDuration, tt.wantMin)
			}
			if len(windows) != tt.wantWindows {
				t.Errorf("got %d windows, want %d", len(windows), tt.wantWindows)
			}
		})
	}
}

func TestFindWindowsRedZoneKeepsEarliest(t *testing.T) {
	finder := &fakeGapFinder{gaps: []core.TimeWindow{window(8, 30), window(12, 30)}}
	windows, err := NewWindowFinder(finder).FindWindows(context.Background(), time.Now(), core.ZoneRed)
	if err != nil {
		t.Fatalf("FindWindows failed: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("red zone should cap at 1 window, got %d", len(windows))
	}
	if windows[0].Start.Hour() != 8 {
		t.Errorf("truncation should keep the earliest slot, got start %v", windows[0].Start)
	}
}

func TestFindWindowsPropagatesError(t *testing.T) {
	wantErr := errors.New("calendar down")
	finder := &fakeGapFinder{err: wantErr}

	_, err := NewWindowFinder(finder).FindWindows(context.Background(), time.Now(), core.ZoneGreen)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected gap finder error, got %v", err)
	}
}
