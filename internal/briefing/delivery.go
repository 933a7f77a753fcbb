package briefing

import (
	"context"
	"time"

	"github.com/readyday/readyday/internal/core"
	"github.com/readyday/readyday/internal/logging"
	"github.com/readyday/readyday/internal/scheduler"
)

// Broadcaster pushes briefing notifications to connected clients.
// Satisfied by api.Hub.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

// DeliveryConfig configures morning briefing delivery
type DeliveryConfig struct {
	DeliveryTime string // "07:30" format
	Timezone     string
}

// DefaultDeliveryConfig returns sensible defaults
func DefaultDeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		DeliveryTime: "07:30",
		Timezone:     "Local",
	}
}

// DeliveryService generates the briefing every morning and pushes it to
// connected clients.
type DeliveryService struct {
	service     *Service
	broadcaster Broadcaster
	config      DeliveryConfig
	logger      *logging.Logger
}

// NewDeliveryService creates a delivery service
func NewDeliveryService(service *Service, broadcaster Broadcaster, cfg DeliveryConfig) *DeliveryService {
	return &DeliveryService{
		service:     service,
		broadcaster: broadcaster,
		config:      cfg,
		logger:      logging.WithField("component", "delivery"),
	}
}

// Register adds the daily delivery task to the scheduler.
func (s *DeliveryService) Register(sched *scheduler.Scheduler) error {
	return sched.Register(&scheduler.Task{
		ID:   "morning-briefing",
		Name: "Morning briefing delivery",
		Schedule: scheduler.Schedule{
			Type: scheduler.ScheduleDaily,
			At:   s.config.DeliveryTime,
		},
		Handler: s.Deliver,
		Timeout: 2 * time.Minute,
	})
}

// Deliver generates today's briefing and broadcasts it.
func (s *DeliveryService) Deliver(ctx context.Context) error {
	briefing, err := s.service.Today(ctx)
	if err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast("briefing.ready", briefingNotification(briefing))
	}

	s.logger.WithFields(map[string]interface{}{
		"zone":            string(briefing.RecoveryZone),
		"recommendations": len(briefing.Recommendations),
	}).Info("Morning briefing delivered")

	return nil
}

func briefingNotification(b *core.DayBriefing) map[string]interface{} {
	return map[string]interface{}{
		"date":           b.Date.Format("2006-01-02"),
		"recovery_zone":  b.RecoveryZone,
		"recovery_score": b.RecoveryScore,
		"calendar_load":  b.CalendarLoadScore,
		"generated_at":   b.GeneratedAt,
	}
}
