package briefing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/readyday/readyday/internal/core"
	"github.com/readyday/readyday/internal/logging"
	"github.com/readyday/readyday/internal/storage"
)

// Syncer pulls fresh Whoop data into local storage. Satisfied by
// whoop.Repository.
type Syncer interface {
	Sync(ctx context.Context, userID uuid.UUID) error
}

// Service wraps the generator with the retry-once policy: when the local
// cache has no recovery or sleep data, it syncs from the Whoop API and
// retries a single time.
type Service struct {
	generator *Generator
	syncer    Syncer
	users     *storage.UserStore
	briefings *storage.BriefingStore
	logger    *logging.Logger
}

// NewService creates a briefing service
func NewService(generator *Generator, syncer Syncer, users *storage.UserStore, briefings *storage.BriefingStore) *Service {
	return &Service{
		generator: generator,
		syncer:    syncer,
		users:     users,
		briefings: briefings,
		logger:    logging.WithField("component", "briefing"),
	}
}

// Load generates the briefing for a date and persists it. Cache misses
// trigger one sync-and-retry before the error propagates.
func (s *Service) Load(ctx context.Context, date time.Time) (*core.DayBriefing, error) {
	userID, ok := s.users.CurrentUserID()
	if !ok {
		return nil, core.ErrUserNotFound
	}

	briefing, err := s.generator.Generate(ctx, date, userID)
	if errors.Is(err, core.ErrNoRecoveryData) || errors.Is(err, core.ErrNoSleepData) {
		s.logger.Info("No cached Whoop data, syncing and retrying")
		if syncErr := s.syncer.Sync(ctx, userID); syncErr != nil {
			return nil, syncErr
		}
		briefing, err = s.generator.Generate(ctx, date, userID)
	}
	if err != nil {
		return nil, err
	}

	if saveErr := s.briefings.Save(userID, briefing); saveErr != nil {
		s.logger.WithField("error", saveErr.Error()).Warn("Failed to persist briefing")
	}

	return briefing, nil
}

// Today generates the briefing for the current day.
func (s *Service) Today(ctx context.Context) (*core.DayBriefing, error) {
	return s.Load(ctx, time.Now())
}

// Cached returns a previously generated briefing for the date, if any.
func (s *Service) Cached(date time.Time) (*core.DayBriefing, error) {
	userID, ok := s.users.CurrentUserID()
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return s.briefings.GetByDate(userID, date)
}
