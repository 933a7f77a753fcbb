// Package whoop implements the Whoop API connector.
package whoop

import (
	"time"

	"github.com/google/uuid"

	"github.com/readyday/readyday/internal/core"
)

// PaginatedResponse wraps Whoop collection endpoints
type PaginatedResponse[T any] struct {
	Records   []T    `json:"records"`
	NextToken string `json:"next_token,omitempty"`
}

// RecoveryDTO is the Whoop v1 recovery record
type RecoveryDTO struct {
	CycleID    int64             `json:"cycle_id"`
	SleepID    string            `json:"sleep_id"`
	UserID     int64             `json:"user_id"`
	ScoreState string            `json:"score_state"`
	Score      *RecoveryScoreDTO `json:"score,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// RecoveryScoreDTO holds recovery scoring data
type RecoveryScoreDTO struct {
	UserCalibrating  bool     `json:"user_calibrating"`
	RecoveryScore    float64  `json:"recovery_score"`
	RestingHeartRate float64  `json:"resting_heart_rate"`
	HRVRmssdMilli    float64  `json:"hrv_rmssd_milli"`
	SpO2Percentage   *float64 `json:"spo2_percentage,omitempty"`
	SkinTempCelsius  *float64 `json:"skin_temp_celsius,omitempty"`
}

// ToDomain converts a recovery DTO to the domain model
func (d RecoveryDTO) ToDomain() core.RecoveryData {
	rec := core.RecoveryData{
		CycleID:    d.CycleID,
		ScoreState: scoreState(d.ScoreState),
		RecordedAt: d.CreatedAt,
	}

	if id, err := uuid.Parse(d.SleepID); err == nil {
		rec.SleepID = &id
	}

	if d.Score != nil {
		score := int(d.Score.RecoveryScore)
		rhr := d.Score.RestingHeartRate
		hrv := d.Score.HRVRmssdMilli
		rec.RecoveryScore = &score
		rec.RestingHeartRate = &rhr
		rec.HRVRmssdMilli = &hrv
		rec.SpO2Percentage = d.Score.SpO2Percentage
		rec.SkinTempCelsius = d.Score.SkinTempCelsius
		rec.Calibrating = d.Score.UserCalibrating
	}

	return rec
}

// SleepDTO is the Whoop v1 sleep activity record
type SleepDTO struct {
	ID         string         `json:"id"`
	UserID     int64          `json:"user_id"`
	Start      time.Time      `json:"start"`
	End        time.Time      `json:"end"`
	Nap        bool           `json:"nap"`
	ScoreState string         `json:"score_state"`
	Score      *SleepScoreDTO `json:"score,omitempty"`
}

// SleepScoreDTO holds sleep scoring data
type SleepScoreDTO struct {
	StageSummary     *StageSummaryDTO `json:"stage_summary,omitempty"`
	SleepNeeded      *SleepNeededDTO  `json:"sleep_needed,omitempty"`
	SleepEfficiency  *float64         `json:"sleep_efficiency_percentage,omitempty"`
	SleepConsistency *float64         `json:"sleep_consistency_percentage,omitempty"`
	RespiratoryRate  *float64         `json:"respiratory_rate,omitempty"`
}

// StageSummaryDTO breaks sleep down by stage
type StageSummaryDTO struct {
	TotalInBedTimeMilli     int64 `json:"total_in_bed_time_milli"`
	TotalAwakeTimeMilli     int64 `json:"total_awake_time_milli"`
	TotalLightSleepMilli    int64 `json:"total_light_sleep_time_milli"`
	TotalSlowWaveSleepMilli int64 `json:"total_slow_wave_sleep_time_milli"`
	TotalRemSleepMilli      int64 `json:"total_rem_sleep_time_milli"`
	SleepCycleCount         int   `json:"sleep_cycle_count"`
	DisturbanceCount        int   `json:"disturbance_count"`
}

// SleepNeededDTO is Whoop's sleep need breakdown
type SleepNeededDTO struct {
	BaselineMilli             int64 `json:"baseline_milli"`
	NeedFromSleepDebtMilli    int64 `json:"need_from_sleep_debt_milli"`
	NeedFromRecentStrainMilli int64 `json:"need_from_recent_strain_milli"`
	NeedFromRecentNapMilli    int64 `json:"need_from_recent_nap_milli"`
}

// ToDomain converts a sleep DTO to the domain model
func (d SleepDTO) ToDomain() core.SleepData {
	sleep := core.SleepData{
		Start:      d.Start,
		End:        d.End,
		Nap:        d.Nap,
		ScoreState: scoreState(d.ScoreState),
		RecordedAt: d.Start,
	}

	if id, err := uuid.Parse(d.ID); err == nil {
		sleep.SleepID = id
	} else {
		sleep.SleepID = uuid.New()
	}

	if d.Score != nil {
		if s := d.Score.StageSummary; s != nil {
			sleep.Stages = &core.StageSummary{
				LightMillis: s.TotalLightSleepMilli,
				DeepMillis:  s.TotalSlowWaveSleepMilli,
				REMMillis:   s.TotalRemSleepMilli,
				WakeMillis:  s.TotalAwakeTimeMilli,
			}
		}
		if n := d.Score.SleepNeeded; n != nil {
			needed := n.BaselineMilli + n.NeedFromSleepDebtMilli +
				n.NeedFromRecentStrainMilli + n.NeedFromRecentNapMilli
			debt := n.NeedFromSleepDebtMilli
			sleep.SleepNeededMilli = &needed
			sleep.SleepDebtMilli = &debt
		}
		sleep.Efficiency = d.Score.SleepEfficiency
		sleep.Consistency = d.Score.SleepConsistency
		sleep.RespiratoryRate = d.Score.RespiratoryRate
	}

	return sleep
}

// WorkoutDTO is the Whoop v1 workout activity record
type WorkoutDTO struct {
	ID         string           `json:"id"`
	UserID     int64            `json:"user_id"`
	SportName  string           `json:"sport_name"`
	Start      time.Time        `json:"start"`
	End        time.Time        `json:"end"`
	ScoreState string           `json:"score_state"`
	Score      *WorkoutScoreDTO `json:"score,omitempty"`
}

// WorkoutScoreDTO holds workout scoring data
type WorkoutScoreDTO struct {
	Strain           float64          `json:"strain"`
	AverageHeartRate int              `json:"average_heart_rate"`
	MaxHeartRate     int              `json:"max_heart_rate"`
	Kilojoule        float64          `json:"kilojoule"`
	DistanceMeter    *float64         `json:"distance_meter,omitempty"`
	ZoneDuration     *ZoneDurationDTO `json:"zone_duration,omitempty"`
}

// ZoneDurationDTO is time spent per heart rate zone
type ZoneDurationDTO struct {
	ZoneZeroMilli  int64 `json:"zone_zero_milli"`
	ZoneOneMilli   int64 `json:"zone_one_milli"`
	ZoneTwoMilli   int64 `json:"zone_two_milli"`
	ZoneThreeMilli int64 `json:"zone_three_milli"`
	ZoneFourMilli  int64 `json:"zone_four_milli"`
	ZoneFiveMilli  int64 `json:"zone_five_milli"`
}

// ToDomain converts a workout DTO to the domain model
func (d WorkoutDTO) ToDomain() core.WorkoutData {
	w := core.WorkoutData{
		SportName:  d.SportName,
		Start:      d.Start,
		End:        d.End,
		ScoreState: scoreState(d.ScoreState),
		RecordedAt: d.Start,
	}

	if id, err := uuid.Parse(d.ID); err == nil {
		w.WorkoutID = id
	} else {
		w.WorkoutID = uuid.New()
	}

	if d.Score != nil {
		strain := d.Score.Strain
		avg := d.Score.AverageHeartRate
		max := d.Score.MaxHeartRate
		kj := d.Score.Kilojoule
		w.Strain = &strain
		w.AverageHeartRate = &avg
		w.MaxHeartRate = &max
		w.Kilojoule = &kj
		w.DistanceMeter = d.Score.DistanceMeter
		if z := d.Score.ZoneDuration; z != nil {
			w.Zones = &core.ZoneDurations{
				Zone0Millis: z.ZoneZeroMilli,
				Zone1Millis: z.ZoneOneMilli,
				Zone2Millis: z.ZoneTwoMilli,
				Zone3Millis: z.ZoneThreeMilli,
				Zone4Millis: z.ZoneFourMilli,
				Zone5Millis: z.ZoneFiveMilli,
			}
		}
	}

	return w
}

// CycleDTO is one Whoop physiological cycle (roughly one day)
type CycleDTO struct {
	ID         int64          `json:"id"`
	UserID     int64          `json:"user_id"`
	Start      time.Time      `json:"start"`
	End        *time.Time     `json:"end,omitempty"`
	ScoreState string         `json:"score_state"`
	Score      *CycleScoreDTO `json:"score,omitempty"`
}

// CycleScoreDTO holds day-strain scoring data
type CycleScoreDTO struct {
	Strain           float64 `json:"strain"`
	Kilojoule        float64 `json:"kilojoule"`
	AverageHeartRate int     `json:"average_heart_rate"`
	MaxHeartRate     int     `json:"max_heart_rate"`
}

// ProfileDTO is the basic Whoop user profile
type ProfileDTO struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func scoreState(s string) core.ScoreState {
	switch core.ScoreState(s) {
	case core.ScoreStateScored, core.ScoreStatePending, core.ScoreStateUnscorable:
		return core.ScoreState(s)
	default:
		return core.ScoreStateUnscorable
	}
}
