package whoop

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/readyday/readyday/internal/core"
)

func TestGetRecoveriesPagination(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/recovery" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		calls++
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("nextToken") == "" {
			fmt.Fprint(w, `{"records":[{"cycle_id":1,"sleep_id":"e3f6cfd2-5640-4a4d-a351-0b0b7e44b9a8","score_state":"SCORED","score":{"recovery_score":82,"resting_heart_rate":52,"hrv_rmssd_milli":95.5}}],"next_token":"page2"}`)
			return
		}
		fmt.Fprint(w, `{"records":[{"cycle_id":2,"score_state":"PENDING_SCORE"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.Client()).WithBaseURL(server.URL)
	recs, err := client.GetRecoveries(context.Background(), time.Now().Add(-24*time.Hour), time.Now())
	if err != nil {
		t.Fatalf("GetRecoveries failed: %v", err)
	}

	if calls != 2 {
		t.Errorf("expected 2 API calls, got %d", calls)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].CycleID != 1 || recs[1].CycleID != 2 {
		t.Errorf("records out of order: %+v", recs)
	}

	first := recs[0].ToDomain()
	if first.RecoveryScore == nil || *first.RecoveryScore != 82 {
		t.Errorf("expected score 82, got %v", first.RecoveryScore)
	}
	if first.SleepID == nil {
		t.Error("expected sleep ID to parse")
	}
	if first.Zone() != core.ZoneGreen {
		t.Errorf("expected green zone, got %s", first.Zone())
	}

	second := recs[1].ToDomain()
	if second.RecoveryScore != nil {
		t.Error("unscored recovery should have nil score")
	}
	if second.Zone() != core.ZoneUnknown {
		t.Errorf("expected unknown zone, got %s", second.Zone())
	}
}

func TestClientErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, core.ErrTokenExpired},
		{http.StatusTooManyRequests, core.ErrRateLimited},
		{http.StatusInternalServerError, core.ErrServerError},
		{http.StatusBadGateway, core.ErrServerError},
		{http.StatusNotFound, core.ErrWhoopUnavailable},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(server.Client()).WithBaseURL(server.URL)
			_, err := client.GetSleeps(context.Background(), time.Now().Add(-time.Hour), time.Now())
			if !errors.Is(err, tt.want) {
				t.Errorf("status %d: expected %v, got %v", tt.status, tt.want, err)
			}
		})
	}
}

func TestSleepToDomain(t *testing.T) {
	start := time.Date(2026, 3, 10, 22, 30, 0, 0, time.UTC)
	end := start.Add(7*time.Hour + 42*time.Minute)

	dto := SleepDTO{
		ID:         "3a2f1b44-9c1d-4e8a-b6d7-1f2e3d4c5b6a",
		Start:      start,
		End:        end,
		ScoreState: "SCORED",
		Score: &SleepScoreDTO{
			StageSummary: &StageSummaryDTO{
				TotalLightSleepMilli:    4 * 3_600_000,
				TotalSlowWaveSleepMilli: 2 * 3_600_000,
				TotalRemSleepMilli:      3_600_000,
				TotalAwakeTimeMilli:     42 * 60_000,
			},
		},
	}

	sleep := dto.ToDomain()
	if sleep.FormattedDuration() != "7h 42m" {
		t.Errorf("expected 7h 42m, got %s", sleep.FormattedDuration())
	}
	if sleep.Stages == nil {
		t.Fatal("expected stage summary")
	}
	if sleep.Stages.DeepHours() != 2 {
		t.Errorf("expected 2h deep sleep, got %f", sleep.Stages.DeepHours())
	}
}

func TestWorkoutToDomain(t *testing.T) {
	dto := WorkoutDTO{
		ID:         "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		SportName:  "running",
		Start:      time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC),
		End:        time.Date(2026, 3, 10, 7, 45, 0, 0, time.UTC),
		ScoreState: "SCORED",
		Score: &WorkoutScoreDTO{
			Strain:           12.4,
			AverageHeartRate: 148,
			MaxHeartRate:     176,
			Kilojoule:        1850,
		},
	}

	w := dto.ToDomain()
	if w.SportName != "running" {
		t.Errorf("expected running, got %s", w.SportName)
	}
	if w.DurationMinutes() != 45 {
		t.Errorf("expected 45 minutes, got %f", w.DurationMinutes())
	}
	if w.Strain == nil || *w.Strain != 12.4 {
		t.Errorf("expected strain 12.4, got %v", w.Strain)
	}
}

func TestGetCycles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/cycle" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"records":[{"id":42,"user_id":7,"start":"2026-03-10T04:00:00Z","score_state":"SCORED","score":{"strain":14.2,"kilojoule":8500,"average_heart_rate":72,"max_heart_rate":165}}]}`)
	}))
	defer server.Close()

	client := NewClient(server.Client()).WithBaseURL(server.URL)
	cycles, err := client.GetCycles(context.Background(), time.Now().Add(-24*time.Hour), time.Now())
	if err != nil {
		t.Fatalf("GetCycles failed: %v", err)
	}

	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d", len(cycles))
	}
	if cycles[0].ID != 42 {
		t.Errorf("cycle ID = %d, want 42", cycles[0].ID)
	}
	if cycles[0].Score == nil || cycles[0].Score.Strain != 14.2 {
		t.Errorf("unexpected score: %+v", cycles[0].Score)
	}
	if cycles[0].End != nil {
		t.Error("open cycle should have nil end")
	}
}

func TestGetProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/user/profile/basic" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"user_id":7,"email":"athlete@example.com","first_name":"Alex","last_name":"Rivera"}`)
	}))
	defer server.Close()

	client := NewClient(server.Client()).WithBaseURL(server.URL)
	profile, err := client.GetProfile(context.Background())
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}

	if profile.UserID != 7 || profile.FirstName != "Alex" {
		t.Errorf("unexpected profile: %+v", profile)
	}
}

func TestUnknownScoreState(t *testing.T) {
	if got := scoreState("SOMETHING_NEW"); got != core.ScoreStateUnscorable {
		t.Errorf("unknown states should map to unscorable, got %s", got)
	}
	if got := scoreState("SCORED"); got != core.ScoreStateScored {
		t.Errorf("expected SCORED to survive, got %s", got)
	}
}
