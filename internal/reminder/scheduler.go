// Package reminder schedules the "one year from today" notifications
// for favorited answers. Everything here is best-effort: a reminder
// that cannot be scheduled is logged and forgotten, never an error the
// user sees.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"daybook/internal/calendar"
	"daybook/internal/logger"
	"daybook/internal/models"
)

// PermissionState is the notifier's authorization state.
type PermissionState int

const (
	// PermissionPending means the user has not decided yet.
	PermissionPending PermissionState = iota
	// PermissionGranted allows registering reminders.
	PermissionGranted
	// PermissionDenied suppresses all registration without error.
	PermissionDenied
)

// Notifier is the external delivery system. The scheduler decides when
// and for what a reminder fires; the notifier owns how.
type Notifier interface {
	RequestPermission(ctx context.Context) (PermissionState, error)
	Register(reminder models.Reminder) error
	Cancel(id string) error
	Pending() ([]models.Reminder, error)
}

// FavoriteStateFunc reports whether the answer for (questionID, date)
// is *currently* favorited. The scheduler consults it after the
// asynchronous permission round-trip so a save that un-favorited the
// answer in the meantime wins over the stale request.
type FavoriteStateFunc func(questionID int, date time.Time) bool

// Scheduler drives the per-answer reminder state machine:
// unscheduled -> scheduled(date + 1 year) -> unscheduled.
type Scheduler struct {
	notifier   Notifier
	isFavorite FavoriteStateFunc
	wg         sync.WaitGroup
}

func New(notifier Notifier, isFavorite FavoriteStateFunc) *Scheduler {
	return &Scheduler{
		notifier:   notifier,
		isFavorite: isFavorite,
	}
}

// ID derives the deterministic reminder identifier for an answer, so a
// re-save of the same day's answer reschedules instead of duplicating.
func ID(questionID int, date time.Time) string {
	return fmt.Sprintf("reminder_%d_%d", questionID, date.Unix())
}

// Schedule registers a reminder firing one year after the answer's
// date. No-op for non-favorites. It returns immediately; permission
// negotiation and registration run in the background.
func (s *Scheduler) Schedule(answer models.Answer) {
	if !answer.IsFavorite {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.schedule(answer)
	}()
}

func (s *Scheduler) schedule(answer models.Answer) {
	state, err := s.notifier.RequestPermission(context.Background())
	if err != nil {
		logger.Warn("notification permission request failed", "error", err)
		return
	}
	if state != PermissionGranted {
		logger.Debug("skipping reminder, notifications not granted", "question", answer.QuestionID)
		return
	}

	// The permission round-trip may have outlived the favorite: check
	// the current state, not the one captured at save time.
	if s.isFavorite != nil && !s.isFavorite(answer.QuestionID, answer.Date) {
		logger.Debug("skipping reminder, answer no longer favorited", "question", answer.QuestionID)
		return
	}

	reminder := models.Reminder{
		ID:         ID(answer.QuestionID, answer.Date),
		QuestionID: answer.QuestionID,
		FiresAt:    calendar.AddYears(answer.Date, 1),
		Payload: map[string]any{
			"question_id":   answer.QuestionID,
			"original_date": answer.Date.Unix(),
		},
		CreatedAt: time.Now(),
	}

	if err := s.notifier.Register(reminder); err != nil {
		logger.Warn("failed to register reminder", "id", reminder.ID, "error", err)
	}
}

// Cancel removes the reminder for the answer, if any.
func (s *Scheduler) Cancel(answer models.Answer) {
	if err := s.notifier.Cancel(ID(answer.QuestionID, answer.Date)); err != nil {
		logger.Warn("failed to cancel reminder", "question", answer.QuestionID, "error", err)
	}
}

// HandleDeliveryTap extracts the originating question id from a
// delivered reminder's payload, for routing back to that question.
func (s *Scheduler) HandleDeliveryTap(payload map[string]any) (int, bool) {
	switch v := payload["question_id"].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		// JSON round-trips numbers as float64.
		return int(v), true
	}
	return 0, false
}

// PurgeStale removes registered reminders whose fire time already
// passed while the app was not running. Returns how many were removed.
func (s *Scheduler) PurgeStale(now time.Time) int {
	pending, err := s.notifier.Pending()
	if err != nil {
		logger.Warn("failed to list pending reminders", "error", err)
		return 0
	}

	purged := 0
	for _, r := range pending {
		if r.FiresAt.Before(now) {
			if err := s.notifier.Cancel(r.ID); err != nil {
				logger.Warn("failed to purge stale reminder", "id", r.ID, "error", err)
				continue
			}
			purged++
		}
	}
	return purged
}

// Wait blocks until all in-flight scheduling attempts settle. The CLI
// calls it before exiting so background registrations are not dropped.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
