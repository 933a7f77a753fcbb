package briefing

import (
	"math"
	"testing"

	"github.com/readyday/readyday/internal/core"
)

func classifiedWith(demands ...core.EnergyDemand) []core.ClassifiedEvent {
	events := make([]core.ClassifiedEvent, 0, len(demands))
	for _, d := range demands {
		events = append(events, core.ClassifiedEvent{Demand: d})
	}
	return events
}

func TestCalculateLoad(t *testing.T) {
	tests := []struct {
		name    string
		demands []core.EnergyDemand
		want    float64
	}{
		{"empty calendar", nil, 0},
		{
			// count 1*8=8, weight 1/30*40=1.333...
			"single low event",
			[]core.EnergyDemand{core.DemandLow},
			8 + 4.0/3,
		},
		{
			// count 3*8=24, weight 6/30*40=8
			"three medium events",
			[]core.EnergyDemand{core.DemandMedium, core.DemandMedium, core.DemandMedium},
			32,
		},
		{
			// count 10*8=80 capped at 60; weight 30/30*40=40
			"ten high events hits the cap",
			classifiedDemands(core.DemandHigh, 10),
			100,
		},
		{
			// count 8*8=64 capped at 60; weight 8/30*40=10.666...
			"many low events cap count only",
			classifiedDemands(core.DemandLow, 8),
			60 + 32.0/3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateLoad(classifiedWith(tt.demands...))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CalculateLoad() = %v, want %v", got, tt.want)
			}
		})
	}
}

func classifiedDemands(d core.EnergyDemand, n int) []core.EnergyDemand {
	out := make([]core.EnergyDemand, n)
	for i := range out {
		out[i] = d
	}
	return out
}

func TestCalculateLoadBounded(t *testing.T) {
	// Any input stays within [0, 100]
	for n := 0; n <= 40; n++ {
		load := CalculateLoad(classifiedWith(classifiedDemands(core.DemandHigh, n)...))
		if load < 0 || load > 100 {
			t.Fatalf("load out of range for %d events: %v", n, load)
		}
	}
}
