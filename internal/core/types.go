// Package core defines the fundamental types for ReadyDay.
// Everything the briefing engine consumes or produces lives here.
package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// USER - The single local account
// -----------------------------------------------------------------------------

// User is the local ReadyDay account. There is exactly one per database.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// -----------------------------------------------------------------------------
// CALENDAR - Events, classified events, and free windows
// -----------------------------------------------------------------------------

// CalendarEvent is one calendar entry for a given day. It is an immutable
// snapshot produced by the calendar connector per query.
type CalendarEvent struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Location      string    `json:"location,omitempty"`
	AttendeeCount int       `json:"attendee_count"`
	CalendarName  string    `json:"calendar_name,omitempty"`
	AllDay        bool      `json:"all_day"`
}

// Duration returns the event length.
func (e CalendarEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// DurationHours returns the event length in fractional hours.
func (e CalendarEvent) DurationHours() float64 {
	return e.Duration().Hours()
}

// EnergyDemand classifies how much cognitive/physical energy an event takes.
type EnergyDemand string

const (
	DemandLow    EnergyDemand = "low"
	DemandMedium EnergyDemand = "medium"
	DemandHigh   EnergyDemand = "high"
)

// Weight returns the demand weight used by the calendar load score.
func (d EnergyDemand) Weight() float64 {
	switch d {
	case DemandHigh:
		return 3
	case DemandMedium:
		return 2
	default:
		return 1
	}
}

// ClassifiedEvent pairs a calendar event with its derived energy demand.
// Only the classifier creates these; the demand is never set directly.
type ClassifiedEvent struct {
	Event  CalendarEvent `json:"event"`
	Demand EnergyDemand  `json:"demand"`
}

// TimeWindow is a contiguous free interval. Invariant: End > Start.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the window length.
func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// DurationMinutes returns the window length in whole minutes.
func (w TimeWindow) DurationMinutes() int {
	return int(w.Duration().Minutes())
}

// -----------------------------------------------------------------------------
// WHOOP - Recovery, sleep, and workout records
// -----------------------------------------------------------------------------

// ScoreState reports whether Whoop has scored a record yet.
type ScoreState string

const (
	ScoreStateScored     ScoreState = "SCORED"
	ScoreStatePending    ScoreState = "PENDING_SCORE"
	ScoreStateUnscorable ScoreState = "UNSCORABLE"
)

// RecoveryZone is the discretized recovery score band. It drives
// recommendation tone and workout window sizing.
type RecoveryZone string

const (
	ZoneGreen   RecoveryZone = "green"
	ZoneYellow  RecoveryZone = "yellow"
	ZoneRed     RecoveryZone = "red"
	ZoneUnknown RecoveryZone = "unknown"
)

// ZoneFromScore maps a recovery score to its zone. A nil score means the
// recovery has not been scored yet.
func ZoneFromScore(score *int) RecoveryZone {
	if score == nil {
		return ZoneUnknown
	}
	switch {
	case *score >= 67 && *score <= 100:
		return ZoneGreen
	case *score >= 34 && *score <= 66:
		return ZoneYellow
	case *score >= 0 && *score <= 33:
		return ZoneRed
	default:
		return ZoneUnknown
	}
}

// Label returns a short human-readable name for the zone.
func (z RecoveryZone) Label() string {
	switch z {
	case ZoneGreen:
		return "Ready"
	case ZoneYellow:
		return "Moderate"
	case ZoneRed:
		return "Low"
	default:
		return "Unknown"
	}
}

// RecoveryData is one scored physiological recovery cycle from Whoop.
// The engine only reads it.
type RecoveryData struct {
	CycleID          int64      `json:"cycle_id"`
	SleepID          *uuid.UUID `json:"sleep_id,omitempty"`
	ScoreState       ScoreState `json:"score_state"`
	RecoveryScore    *int       `json:"recovery_score,omitempty"`
	RestingHeartRate *float64   `json:"resting_heart_rate,omitempty"`
	HRVRmssdMilli    *float64   `json:"hrv_rmssd_milli,omitempty"`
	SpO2Percentage   *float64   `json:"spo2_percentage,omitempty"`
	SkinTempCelsius  *float64   `json:"skin_temp_celsius,omitempty"`
	Calibrating      bool       `json:"calibrating"`
	RecordedAt       time.Time  `json:"recorded_at"`
}

// Zone derives the recovery zone from the score.
func (r RecoveryData) Zone() RecoveryZone {
	return ZoneFromScore(r.RecoveryScore)
}

// StageSummary breaks a sleep session down by stage.
type StageSummary struct {
	LightMillis int64 `json:"light_millis"`
	DeepMillis  int64 `json:"deep_millis"`
	REMMillis   int64 `json:"rem_millis"`
	WakeMillis  int64 `json:"wake_millis"`
}

// LightHours returns light sleep in fractional hours.
func (s StageSummary) LightHours() float64 { return float64(s.LightMillis) / 3_600_000 }

// DeepHours returns slow-wave sleep in fractional hours.
func (s StageSummary) DeepHours() float64 { return float64(s.DeepMillis) / 3_600_000 }

// REMHours returns REM sleep in fractional hours.
func (s StageSummary) REMHours() float64 { return float64(s.REMMillis) / 3_600_000 }

// WakeHours returns awake time in fractional hours.
func (s StageSummary) WakeHours() float64 { return float64(s.WakeMillis) / 3_600_000 }

// SleepData is one Whoop sleep session.
type SleepData struct {
	SleepID          uuid.UUID     `json:"sleep_id"`
	Start            time.Time     `json:"start"`
	End              time.Time     `json:"end"`
	Nap              bool          `json:"nap"`
	ScoreState       ScoreState    `json:"score_state"`
	Stages           *StageSummary `json:"stages,omitempty"`
	SleepNeededMilli *int64        `json:"sleep_needed_milli,omitempty"`
	SleepDebtMilli   *int64        `json:"sleep_debt_milli,omitempty"`
	Efficiency       *float64      `json:"efficiency,omitempty"`
	Consistency      *float64      `json:"consistency,omitempty"`
	RespiratoryRate  *float64      `json:"respiratory_rate,omitempty"`
	RecordedAt       time.Time     `json:"recorded_at"`
}

// TotalDuration returns the session length.
func (s SleepData) TotalDuration() time.Duration {
	return s.End.Sub(s.Start)
}

// TotalHours returns the session length in fractional hours.
func (s SleepData) TotalHours() float64 {
	return s.TotalDuration().Hours()
}

// FormattedDuration renders the session length as "7h 42m".
func (s SleepData) FormattedDuration() string {
	total := s.TotalDuration()
	hours := int(total.Hours())
	minutes := int(total.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// ZoneDurations holds time spent in each heart rate zone during a workout.
type ZoneDurations struct {
	Zone0Millis int64 `json:"zone0_millis"`
	Zone1Millis int64 `json:"zone1_millis"`
	Zone2Millis int64 `json:"zone2_millis"`
	Zone3Millis int64 `json:"zone3_millis"`
	Zone4Millis int64 `json:"zone4_millis"`
	Zone5Millis int64 `json:"zone5_millis"`
}

// WorkoutData is one Whoop workout activity.
type WorkoutData struct {
	WorkoutID        uuid.UUID      `json:"workout_id"`
	SportName        string         `json:"sport_name,omitempty"`
	Start            time.Time      `json:"start"`
	End              time.Time      `json:"end"`
	ScoreState       ScoreState     `json:"score_state"`
	Strain           *float64       `json:"strain,omitempty"`
	AverageHeartRate *int           `json:"average_heart_rate,omitempty"`
	MaxHeartRate     *int           `json:"max_heart_rate,omitempty"`
	Kilojoule        *float64       `json:"kilojoule,omitempty"`
	DistanceMeter    *float64       `json:"distance_meter,omitempty"`
	Zones            *ZoneDurations `json:"zones,omitempty"`
	RecordedAt       time.Time      `json:"recorded_at"`
}

// DurationMinutes returns the workout length in fractional minutes.
func (w WorkoutData) DurationMinutes() float64 {
	return w.End.Sub(w.Start).Minutes()
}

// -----------------------------------------------------------------------------
// BRIEFING - Recommendations and the synthesized daily output
// -----------------------------------------------------------------------------

// RecommendationType categorizes recommendations.
type RecommendationType string

const (
	RecWarning  RecommendationType = "warning"
	RecCalendar RecommendationType = "calendar"
	RecWorkout  RecommendationType = "workout"
	RecSleep    RecommendationType = "sleep"
	RecPositive RecommendationType = "positive"
	RecInfo     RecommendationType = "info"
)

// RecommendationPriority orders recommendations (high > medium > low).
type RecommendationPriority int

const (
	PriorityLow RecommendationPriority = iota
	PriorityMedium
	PriorityHigh
)

func (p RecommendationPriority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// Recommendation is one actionable suggestion in a briefing. Only the
// synthesizer's rule engine creates these.
type Recommendation struct {
	ID       uuid.UUID              `json:"id"`
	Type     RecommendationType     `json:"type"`
	Title    string                 `json:"title"`
	Body     string                 `json:"body"`
	Priority RecommendationPriority `json:"priority"`
}

// NewRecommendation creates a recommendation with a fresh ID.
func NewRecommendation(t RecommendationType, title, body string, priority RecommendationPriority) Recommendation {
	return Recommendation{
		ID:       uuid.New(),
		Type:     t,
		Title:    title,
		Body:     body,
		Priority: priority,
	}
}

// SleepSummary condenses a sleep session for display in a briefing.
type SleepSummary struct {
	TotalHours        float64       `json:"total_hours"`
	Efficiency        *float64      `json:"efficiency,omitempty"`
	Stages            *StageSummary `json:"stages,omitempty"`
	FormattedDuration string        `json:"formatted_duration"`
}

// NewSleepSummary builds a summary from a sleep session.
func NewSleepSummary(sleep SleepData) SleepSummary {
	return SleepSummary{
		TotalHours:        sleep.TotalHours(),
		Efficiency:        sleep.Efficiency,
		Stages:            sleep.Stages,
		FormattedDuration: sleep.FormattedDuration(),
	}
}

// DayBriefing is the engine's sole output: one synthesized view of the day.
// It is constructed once per generation and never mutated.
type DayBriefing struct {
	Date              time.Time         `json:"date"`
	RecoveryZone      RecoveryZone      `json:"recovery_zone"`
	RecoveryScore     int               `json:"recovery_score"`
	SleepSummary      SleepSummary      `json:"sleep_summary"`
	Events            []ClassifiedEvent `json:"events"`
	Recommendations   []Recommendation  `json:"recommendations"`
	CalendarLoadScore float64           `json:"calendar_load_score"`
	WorkoutWindows    []TimeWindow      `json:"workout_windows"`
	GeneratedAt       time.Time         `json:"generated_at"`
}
