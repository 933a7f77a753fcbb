package briefing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/readyday/readyday/internal/core"
)

type fakeWhoop struct {
	recovery    core.RecoveryData
	sleep       core.SleepData
	recoveryErr error
	sleepErr    error
}

func (f *fakeWhoop) LatestRecovery(ctx context.Context, userID uuid.UUID) (core.RecoveryData, error) {
	return f.recovery, f.recoveryErr
}

func (f *fakeWhoop) LatestSleep(ctx context.Context, userID uuid.UUID) (core.SleepData, error) {
	return f.sleep, f.sleepErr
}

type fakeEvents struct {
	events []core.CalendarEvent
	err    error
}

func (f *fakeEvents) Events(ctx context.Context, date time.Time) ([]core.CalendarEvent, error) {
	return f.events, f.err
}

func recoveryWithScore(score int) core.RecoveryData {
	return core.RecoveryData{
		CycleID:       1,
		ScoreState:    core.ScoreStateScored,
		RecoveryScore: &score,
		RecordedAt:    time.Now(),
	}
}

func sleepOf(hours float64) core.SleepData {
	end := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	return core.SleepData{
		SleepID:    uuid.New(),
		Start:      end.Add(-time.Duration(hours * float64(time.Hour))),
		End:        end,
		ScoreState: core.ScoreStateScored,
	}
}

func testGenerator(whoop *fakeWhoop, events *fakeEvents, gaps []core.TimeWindow) *Generator {
	return NewGenerator(whoop, events, NewWindowFinder(&fakeGapFinder{gaps: gaps}))
}

func findRec(recs []core.Recommendation, title string) *core.Recommendation {
	for i := range recs {
		if recs[i].Title == title {
			return &recs[i]
		}
	}
	return nil
}

func TestGenerateGreenDay(t *testing.T) {
	whoop := &fakeWhoop{recovery: recoveryWithScore(85), sleep: sleepOf(8)}
	events := &fakeEvents{events: []core.CalendarEvent{
		makeEvent("Coffee with Sam", 10, 30*time.Minute, 1),
	}}
	gen := testGenerator(whoop, events, []core.TimeWindow{window(8, 60), window(17, 50)})

	b, err := gen.Generate(context.Background(), time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if b.RecoveryZone != core.ZoneGreen {
		t.Errorf("zone = %v, want green", b.RecoveryZone)
	}
	if b.RecoveryScore != 85 {
		t.Errorf("score = %d, want 85", b.RecoveryScore)
	}
	if len(b.Events) != 1 {
		t.Errorf("expected 1 classified event, got %d", len(b.Events))
	}
	if len(b.WorkoutWindows) != 2 {
		t.Errorf("expected 2 workout windows for green zone, got %d", len(b.WorkoutWindows))
	}

	if findRec(b.Recommendations, "Recovery is strong") == nil {
		t.Error("missing green recovery recommendation")
	}
	workout := findRec(b.Recommendations, "Workout window available")
	if workout == nil {
		t.Fatal("missing workout window recommendation")
	} else if !strings.Contains(workout.Body, "60 min") {
		t.Errorf("workout rec should name the first window: %s", workout.Body)
	}
	if findRec(b.Recommendations, "Great sleep") == nil {
		t.Error("missing great sleep recommendation")
	}
	if findRec(b.Recommendations, "Light schedule") == nil {
		t.Error("missing light schedule recommendation")
	}
}

func TestGenerateRedDayHeavyCalendar(t *testing.T) {
	whoop := &fakeWhoop{recovery: recoveryWithScore(15), sleep: sleepOf(5.5)}
	var busy []core.CalendarEvent
	busy = append(busy,
		makeEvent("Board strategy review", 9, 2*time.Hour, 10),
		makeEvent("Quarterly planning", 13, 2*time.Hour, 8),
		makeEvent("Investor pitch", 16, 2*time.Hour, 9),
	)
	for i := 0; i < 6; i++ {
		busy = append(busy, makeEvent("Sync", 10, time.Hour, 3))
	}
	events := &fakeEvents{events: busy}
	gen := testGenerator(whoop, events, []core.TimeWindow{window(7, 25)})

	b, err := gen.Generate(context.Background(), time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if b.RecoveryZone != core.ZoneRed {
		t.Errorf("zone = %v, want red", b.RecoveryZone)
	}
	if len(b.WorkoutWindows) != 1 {
		t.Errorf("red zone allows at most 1 window, got %d", len(b.WorkoutWindows))
	}

	rest := findRec(b.Recommendations, "Low recovery — prioritize rest")
	if rest == nil {
		t.Fatal("missing rest recommendation")
	}
	if rest.Priority != core.PriorityHigh {
		t.Errorf("rest recommendation priority = %v, want high", rest.Priority)
	}

	demanding := findRec(b.Recommendations, "High-demand events today")
	if demanding == nil {
		t.Fatal("missing high-demand events recommendation")
	}
	if !strings.Contains(demanding.Body, "Board strategy review") ||
		!strings.Contains(demanding.Body, "Quarterly planning") {
		t.Errorf("high-demand rec should name the first two events: %s", demanding.Body)
	}
	if strings.Contains(demanding.Body, "Investor pitch") {
		t.Errorf("high-demand rec should name at most two events: %s", demanding.Body)
	}

	deficit := findRec(b.Recommendations, "Sleep deficit detected")
	if deficit == nil {
		t.Fatal("missing sleep deficit recommendation")
	}
	if !strings.Contains(deficit.Body, "5.5h") {
		t.Errorf("deficit body should include hours: %s", deficit.Body)
	}

	if findRec(b.Recommendations, "Heavy calendar day") == nil {
		t.Error("missing heavy calendar recommendation")
	}
}

func TestGenerateUnknownZone(t *testing.T) {
	whoop := &fakeWhoop{
		recovery: core.RecoveryData{CycleID: 1, ScoreState: core.ScoreStatePending},
		sleep:    sleepOf(7),
	}
	gen := testGenerator(whoop, &fakeEvents{}, nil)

	b, err := gen.Generate(context.Background(), time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if b.RecoveryZone != core.ZoneUnknown {
		t.Errorf("zone = %v, want unknown", b.RecoveryZone)
	}
	if b.RecoveryScore != 0 {
		t.Errorf("unscored recovery should report 0, got %d", b.RecoveryScore)
	}
	if findRec(b.Recommendations, "Recovery data pending") == nil {
		t.Error("missing pending recommendation")
	}
	// 7h sleep sits in the dead zone: no sleep recommendation either way
	if findRec(b.Recommendations, "Sleep deficit detected") != nil ||
		findRec(b.Recommendations, "Great sleep") != nil {
		t.Error("7h sleep should produce no sleep recommendation")
	}
}

func TestGenerateCalendarFailureIsSoft(t *testing.T) {
	whoop := &fakeWhoop{recovery: recoveryWithScore(50), sleep: sleepOf(8)}
	events := &fakeEvents{err: core.ErrCalendarAccessDenied}
	gen := testGenerator(whoop, events, []core.TimeWindow{window(8, 60)})

	b, err := gen.Generate(context.Background(), time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("calendar failure should not fail the briefing: %v", err)
	}
	if len(b.Events) != 0 {
		t.Errorf("expected empty events, got %d", len(b.Events))
	}
	if b.CalendarLoadScore != 0 {
		t.Errorf("empty calendar should score 0, got %v", b.CalendarLoadScore)
	}
}

func TestGenerateRecoveryFailureIsHard(t *testing.T) {
	whoop := &fakeWhoop{recoveryErr: core.ErrNoRecoveryData, sleep: sleepOf(8)}
	gen := testGenerator(whoop, &fakeEvents{}, nil)

	_, err := gen.Generate(context.Background(), time.Now(), uuid.New())
	if !errors.Is(err, core.ErrNoRecoveryData) {
		t.Errorf("expected ErrNoRecoveryData, got %v", err)
	}
}

func TestGenerateSleepFailureIsHard(t *testing.T) {
	whoop := &fakeWhoop{recovery: recoveryWithScore(80), sleepErr: core.ErrNoSleepData}
	gen := testGenerator(whoop, &fakeEvents{}, nil)

	_, err := gen.Generate(context.Background(), time.Now(), uuid.New())
	if !errors.Is(err, core.ErrNoSleepData) {
		t.Errorf("expected ErrNoSleepData, got %v", err)
	}
}

func TestRecommendationsSortedByPriority(t *testing.T) {
	whoop := &fakeWhoop{recovery: recoveryWithScore(15), sleep: sleepOf(5)}
	events := &fakeEvents{events: []core.CalendarEvent{
		makeEvent("Board strategy review", 9, 2*time.Hour, 10),
	}}
	gen := testGenerator(whoop, events, nil)

	b, err := gen.Generate(context.Background(), time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for i := 1; i < len(b.Recommendations); i++ {
		if b.Recommendations[i].Priority > b.Recommendations[i-1].Priority {
			t.Fatalf("recommendations not sorted: %v before %v",
				b.Recommendations[i-1].Priority, b.Recommendations[i].Priority)
		}
	}

	// Ties keep rule order: rest warning precedes the high-demand warning
	restIdx, demandIdx := -1, -1
	for i, rec := range b.Recommendations {
		switch rec.Title {
		case "Low recovery — prioritize rest":
			restIdx = i
		case "High-demand events today":
			demandIdx = i
		}
	}
	if restIdx == -1 || demandIdx == -1 {
		t.Fatal("expected both red zone warnings")
	}
	if restIdx > demandIdx {
		t.Error("stable sort should keep rest warning before high-demand warning")
	}
}
