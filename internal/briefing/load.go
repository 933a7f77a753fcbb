package briefing

import "github.com/readyday/readyday/internal/core"

// CalculateLoad scores how packed the day's calendar is, 0-100. The count
// component saturates at 60 (7.5 events), the demand-weighted component at
// 40 (weight 30).
func CalculateLoad(events []core.ClassifiedEvent) float64 {
	countComponent := float64(len(events)) * 8
	if countComponent > 60 {
		countComponent = 60
	}

	weighted := 0.0
	for _, e := range events {
		weighted += e.Demand.Weight()
	}
	demandComponent := weighted / 30 * 40
	if demandComponent > 40 {
		demandComponent = 40
	}

	load := countComponent + demandComponent
	if load > 100 {
		load = 100
	}
	return load
}
