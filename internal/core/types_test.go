package core

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestZoneFromScore_Boundaries(t *testing.T) {
	tests := []struct {
		name  string
		score *int
		want  RecoveryZone
	}{
		{"nil score", nil, ZoneUnknown},
		{"bottom of red", intPtr(0), ZoneRed},
		{"top of red", intPtr(33), ZoneRed},
		{"bottom of yellow", intPtr(34), ZoneYellow},
		{"top of yellow", intPtr(66), ZoneYellow},
		{"bottom of green", intPtr(67), ZoneGreen},
		{"top of green", intPtr(100), ZoneGreen},
		{"above range", intPtr(101), ZoneUnknown},
		{"below range", intPtr(-1), ZoneUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ZoneFromScore(tt.score); got != tt.want {
				t.Errorf("ZoneFromScore(%v) = %v, want %v", tt.score, got, tt.want)
			}
		})
	}
}

func TestRecoveryData_Zone(t *testing.T) {
	rec := RecoveryData{RecoveryScore: intPtr(80)}
	if rec.Zone() != ZoneGreen {
		t.Errorf("expected green zone, got %v", rec.Zone())
	}

	pending := RecoveryData{ScoreState: ScoreStatePending}
	if pending.Zone() != ZoneUnknown {
		t.Errorf("expected unknown zone for unscored recovery, got %v", pending.Zone())
	}
}

func TestSleepData_FormattedDuration(t *testing.T) {
	start := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		end  time.Time
		want string
	}{
		{start.Add(7*time.Hour + 42*time.Minute), "7h 42m"},
		{start.Add(8 * time.Hour), "8h 0m"},
		{start.Add(45 * time.Minute), "0h 45m"},
	}

	for _, tt := range tests {
		s := SleepData{Start: start, End: tt.end}
		if got := s.FormattedDuration(); got != tt.want {
			t.Errorf("FormattedDuration() = %q, want %q", got, tt.want)
		}
	}
}

func TestEnergyDemand_Weight(t *testing.T) {
	if DemandHigh.Weight() != 3 || DemandMedium.Weight() != 2 || DemandLow.Weight() != 1 {
		t.Errorf("unexpected demand weights: high=%v medium=%v low=%v",
			DemandHigh.Weight(), DemandMedium.Weight(), DemandLow.Weight())
	}
}

func TestTimeWindow_DurationMinutes(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	w := TimeWindow{Start: start, End: start.Add(45 * time.Minute)}
	if w.DurationMinutes() != 45 {
		t.Errorf("DurationMinutes() = %d, want 45", w.DurationMinutes())
	}
}

func TestRecommendationPriority_Ordering(t *testing.T) {
	if !(PriorityLow < PriorityMedium && PriorityMedium < PriorityHigh) {
		t.Error("priorities must order low < medium < high")
	}
	if PriorityHigh.String() != "high" || PriorityLow.String() != "low" {
		t.Errorf("unexpected priority labels: %q %q", PriorityHigh, PriorityLow)
	}
}
