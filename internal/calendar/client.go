package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/readyday/readyday/internal/core"
	"github.com/readyday/readyday/internal/logging"
	"github.com/readyday/readyday/internal/storage"
)

// Source serves calendar events to the briefing engine. Tokens come from
// the encrypted credential store; a fresh API service is built per call so
// refreshed tokens are always picked up.
type Source struct {
	oauth       *OAuthClient
	credentials *storage.CredentialStore
	logger      *logging.Logger
}

// NewSource creates a calendar source
func NewSource(oauth *OAuthClient, creds *storage.CredentialStore) *Source {
	return &Source{
		oauth:       oauth,
		credentials: creds,
		logger:      logging.WithField("component", "calendar"),
	}
}

// Connected reports whether Google credentials are stored.
func (s *Source) Connected() bool {
	return s.credentials.Has(storage.ProviderGoogle)
}

// Connect runs the OAuth flow and stores the resulting token.
func (s *Source) Connect(ctx context.Context) error {
	token, err := s.oauth.StartOAuthFlow(ctx)
	if err != nil {
		return err
	}
	return s.SaveToken(token)
}

// SaveToken persists a Google token in the credential store.
func (s *Source) SaveToken(token *oauth2.Token) error {
	var expires *time.Time
	if !token.Expiry.IsZero() {
		t := token.Expiry
		expires = &t
	}
	return s.credentials.Store(storage.ProviderGoogle, token, token.TokenType, expires)
}

// Disconnect removes stored Google credentials.
func (s *Source) Disconnect() error {
	return s.credentials.Delete(storage.ProviderGoogle)
}

// Events returns the primary calendar's events for one day, ordered by
// start time. Recurring events are expanded.
func (s *Source) Events(ctx context.Context, date time.Time) ([]core.CalendarEvent, error) {
	service, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := midnight.Add(24 * time.Hour)

	resp, err := service.Events.List("primary").
		Context(ctx).
		TimeMin(midnight.Format(time.RFC3339)).
		TimeMax(dayEnd.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, mapAPIError(err)
	}

	return convertEvents(resp.Items), nil
}

// FindGaps returns free intervals of at least minDuration in the date's
// working day.
func (s *Source) FindGaps(ctx context.Context, date time.Time, minDuration time.Duration) ([]core.TimeWindow, error) {
	events, err := s.Events(ctx, date)
	if err != nil {
		return nil, err
	}
	return DayGaps(date, events, minDuration), nil
}

func (s *Source) service(ctx context.Context) (*gcal.Service, error) {
	var token oauth2.Token
	if err := s.credentials.Load(storage.ProviderGoogle, &token); err != nil {
		if errors.Is(err, core.ErrNoCredentials) {
			return nil, core.ErrCalendarNotConnected
		}
		return nil, err
	}

	if !token.Valid() {
		refreshed, err := s.oauth.RefreshToken(ctx, &token)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrTokenRefreshFailed, err)
		}
		token = *refreshed
		if err := s.SaveToken(refreshed); err != nil {
			s.logger.WithField("error", err.Error()).Warn("Failed to persist refreshed token")
		}
	}

	return s.oauth.CreateService(ctx, &token)
}

// mapAPIError translates Google API errors into the shared taxonomy.
func mapAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized:
			return core.ErrCalendarAccessDenied
		case apiErr.Code == http.StatusForbidden:
			return core.ErrCalendarAccessRestricted
		case apiErr.Code == http.StatusTooManyRequests:
			return core.ErrRateLimited
		case apiErr.Code >= 500:
			return fmt.Errorf("%w: status %d", core.ErrServerError, apiErr.Code)
		}
	}
	return err
}

func convertEvents(items []*gcal.Event) []core.CalendarEvent {
	events := make([]core.CalendarEvent, 0, len(items))

	for _, item := range items {
		if item.Status == "cancelled" {
			continue
		}

		event := core.CalendarEvent{
			ID:       item.Id,
			Title:    item.Summary,
			Location: item.Location,
		}

		if item.Start != nil {
			if item.Start.DateTime != "" {
				event.Start, _ = time.Parse(time.RFC3339, item.Start.DateTime)
			} else if item.Start.Date != "" {
				event.Start, _ = time.Parse("2006-01-02", item.Start.Date)
				event.AllDay = true
			}
		}
		if item.End != nil {
			if item.End.DateTime != "" {
				event.End, _ = time.Parse(time.RFC3339, item.End.DateTime)
			} else if item.End.Date != "" {
				event.End, _ = time.Parse("2006-01-02", item.End.Date)
			}
		}

		for _, att := range item.Attendees {
			if att.ResponseStatus == "declined" {
				continue
			}
			event.AttendeeCount++
		}

		if item.Organizer != nil {
			event.CalendarName = item.Organizer.DisplayName
		}

		events = append(events, event)
	}

	return events
}
