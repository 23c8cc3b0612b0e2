package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

type Sender interface {
	Send(ctx context.Context, sub *model.PushSubscription, payload Payload) error
}

type ReminderSource interface {
	ListRemindersDue(ctx context.Context, from, to time.Time) ([]model.Appointment, error)
}

type SubscriptionStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
	WasSent(ctx context.Context, userID, notifType, refID string, leadTime int) (bool, error)
	RecordSent(ctx context.Context, userID, notifType, refID string, leadTime int) error
	CleanupSent(ctx context.Context, before time.Time) error
}

// Scheduler periodically sends reminders for upcoming appointments.
type Scheduler struct {
	mu           sync.RWMutex
	sender       Sender
	subs         SubscriptionStore
	appointments ReminderSource
	logger       *slog.Logger
	interval     time.Duration
	now          func() time.Time
	cancel       context.CancelFunc
	done         chan struct{}
}

func NewScheduler(sender Sender, subs SubscriptionStore, appointments ReminderSource, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		sender:       sender,
		subs:         subs,
		appointments: appointments,
		logger:       logger.With("component", "push_scheduler"),
		interval:     60 * time.Second,
		now:          time.Now,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx, s.now().UTC())
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// tick sends reminders whose instant fell within the last interval.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	due, err := s.appointments.ListRemindersDue(ctx, now.Add(-s.interval), now)
	if err != nil {
		s.logger.Error("list due reminders", "error", err)
		return
	}

	for _, appt := range due {
		s.remind(ctx, appt)
	}

	if now.Minute() == 0 {
		if err := s.subs.CleanupSent(ctx, now.Add(-7*24*time.Hour)); err != nil {
			s.logger.Warn("cleanup sent notifications", "error", err)
		}
	}
}

func (s *Scheduler) remind(ctx context.Context, appt model.Appointment) {
	// Keyed on the date too, so moving an appointment re-arms its reminder.
	refID := fmt.Sprintf("appointment-%s@%d", appt.ID, appt.Date.UnixMilli())
	leadTime := appt.ReminderMinutes

	sent, err := s.subs.WasSent(ctx, appt.UserID, model.NotifTypeAppointmentReminder, refID, leadTime)
	if err != nil {
		s.logger.Error("check sent", "error", err)
		return
	}
	if sent {
		return
	}

	subs, err := s.subs.ListByUser(ctx, appt.UserID)
	if err != nil {
		s.logger.Error("list subscriptions", "user_id", appt.UserID, "error", err)
		return
	}

	body := fmt.Sprintf("%s starts in %d minutes", appt.Title, leadTime)
	if leadTime == 0 {
		body = fmt.Sprintf("%s is starting now", appt.Title)
	}
	payload := Payload{
		Title: "Appointment reminder",
		Body:  body,
		URL:   "/calendar",
		Tag:   "appointment-" + appt.ID,
	}

	for _, sub := range subs {
		if err := s.sender.Send(ctx, &sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				if err := s.subs.DeleteByEndpoint(ctx, sub.Endpoint); err != nil {
					s.logger.Warn("delete expired subscription", "error", err)
				}
				continue
			}
			s.logger.Warn("send appointment reminder", "user_id", appt.UserID, "error", err)
		}
	}

	if err := s.subs.RecordSent(ctx, appt.UserID, model.NotifTypeAppointmentReminder, refID, leadTime); err != nil {
		s.logger.Error("record sent", "error", err)
	}
}
