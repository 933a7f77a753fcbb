package whoop

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/readyday/readyday/internal/core"
	"github.com/readyday/readyday/internal/logging"
	"github.com/readyday/readyday/internal/storage"
)

// syncLookback is how far back a sync reaches. Whoop backfills scored
// records for a day or two, so a short window is enough.
const syncLookback = 7 * 24 * time.Hour

// Repository serves Whoop data to the briefing engine. Reads always come
// from local storage; Sync pulls fresh records from the API first.
type Repository struct {
	oauth       *OAuthClient
	credentials *storage.CredentialStore
	recoveries  *storage.RecoveryStore
	sleeps      *storage.SleepStore
	workouts    *storage.WorkoutStore
	logger      *logging.Logger
}

// NewRepository creates a Whoop repository
func NewRepository(oauth *OAuthClient, creds *storage.CredentialStore, db *storage.DB) *Repository {
	return &Repository{
		oauth:       oauth,
		credentials: creds,
		recoveries:  storage.NewRecoveryStore(db),
		sleeps:      storage.NewSleepStore(db),
		workouts:    storage.NewWorkoutStore(db),
		logger:      logging.WithField("component", "whoop"),
	}
}

// Connected reports whether Whoop credentials are stored.
func (r *Repository) Connected() bool {
	return r.credentials.Has(storage.ProviderWhoop)
}

// Connect runs the OAuth flow, verifies the token with a profile fetch,
// and stores the token.
func (r *Repository) Connect(ctx context.Context) error {
	token, err := r.oauth.StartOAuthFlow(ctx)
	if err != nil {
		return err
	}

	client := NewClient(r.oauth.GetClient(ctx, token))
	profile, err := client.GetProfile(ctx)
	if err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}
	r.logger.WithField("whoop_user", profile.FirstName).Info("Whoop account linked")

	return r.SaveToken(token)
}

// Disconnect removes stored Whoop credentials.
func (r *Repository) Disconnect() error {
	return r.credentials.Delete(storage.ProviderWhoop)
}

// LatestRecovery returns the most recent stored recovery cycle.
func (r *Repository) LatestRecovery(ctx context.Context, userID uuid.UUID) (core.RecoveryData, error) {
	return r.recoveries.Latest(userID)
}

// LatestSleep returns the most recent stored sleep session.
func (r *Repository) LatestSleep(ctx context.Context, userID uuid.UUID) (core.SleepData, error) {
	return r.sleeps.Latest(userID)
}

// RecentWorkouts returns stored workouts from the last N days.
func (r *Repository) RecentWorkouts(ctx context.Context, userID uuid.UUID, days int) ([]core.WorkoutData, error) {
	return r.workouts.Recent(userID, days)
}

// RecoveryTrend returns stored recovery cycles from the last N days.
func (r *Repository) RecoveryTrend(userID uuid.UUID, days int) ([]core.RecoveryData, error) {
	return r.recoveries.Trend(userID, days)
}

// SleepTrend returns stored sleep sessions from the last N days.
func (r *Repository) SleepTrend(userID uuid.UUID, days int) ([]core.SleepData, error) {
	return r.sleeps.Trend(userID, days)
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Recoveries int `json:"recoveries"`
	Sleeps     int `json:"sleeps"`
	Workouts   int `json:"workouts"`
}

// Sync pulls recent records from the Whoop API into local storage.
// Refreshed tokens are persisted so the next sync starts warm.
func (r *Repository) Sync(ctx context.Context, userID uuid.UUID) (SyncResult, error) {
	var result SyncResult

	client, err := r.apiClient(ctx)
	if err != nil {
		return result, err
	}

	end := time.Now().UTC()
	start := end.Add(-syncLookback)

	recoveries, err := client.GetRecoveries(ctx, start, end)
	if err != nil {
		return result, fmt.Errorf("recovery sync: %w", err)
	}
	for _, dto := range recoveries {
		if err := r.recoveries.Upsert(userID, dto.ToDomain()); err != nil {
			return result, err
		}
		result.Recoveries++
	}

	sleeps, err := client.GetSleeps(ctx, start, end)
	if err != nil {
		return result, fmt.Errorf("sleep sync: %w", err)
	}
	for _, dto := range sleeps {
		if dto.Nap {
			continue
		}
		if err := r.sleeps.Upsert(userID, dto.ToDomain()); err != nil {
			return result, err
		}
		result.Sleeps++
	}

	workouts, err := client.GetWorkouts(ctx, start, end)
	if err != nil {
		return result, fmt.Errorf("workout sync: %w", err)
	}
	for _, dto := range workouts {
		if err := r.workouts.Upsert(userID, dto.ToDomain()); err != nil {
			return result, err
		}
		result.Workouts++
	}

	r.logger.WithFields(map[string]interface{}{
		"recoveries": result.Recoveries,
		"sleeps":     result.Sleeps,
		"workouts":   result.Workouts,
	}).Info("Whoop sync complete")

	return result, nil
}

// apiClient builds an authenticated API client from stored credentials,
// refreshing the token when it has expired.
func (r *Repository) apiClient(ctx context.Context) (*Client, error) {
	var token oauth2.Token
	if err := r.credentials.Load(storage.ProviderWhoop, &token); err != nil {
		return nil, err
	}

	if !token.Valid() {
		refreshed, err := r.oauth.RefreshToken(ctx, &token)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrTokenRefreshFailed, err)
		}
		token = *refreshed
		if err := r.SaveToken(refreshed); err != nil {
			r.logger.WithField("error", err.Error()).Warn("Failed to persist refreshed token")
		}
	}

	return NewClient(r.oauth.GetClient(ctx, &token)), nil
}

// SaveToken persists a Whoop token in the credential store.
func (r *Repository) SaveToken(token *oauth2.Token) error {
	var expires *time.Time
	if !token.Expiry.IsZero() {
		t := token.Expiry
		expires = &t
	}
	return r.credentials.Store(storage.ProviderWhoop, token, token.TokenType, expires)
}
