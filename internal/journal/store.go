// Package journal implements the answer book: one answer per question
// per calendar day, the derived answered-day set, the favorite-question
// registry, and the time-capsule lookup across prior years.
package journal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"daybook/internal/calendar"
	"daybook/internal/logger"
	"daybook/internal/models"
	"daybook/internal/storage"
)

var (
	// ErrAlreadyAnswered is returned by Save when the question already
	// has an answer on that calendar day. Edits go through Update.
	ErrAlreadyAnswered = errors.New("question already answered for this day")
	// ErrNotAnswered is returned by Update when there is nothing to edit.
	ErrNotAnswered = errors.New("no answer exists for this day")
	// ErrEmptyText rejects answers that are empty after trimming.
	ErrEmptyText = errors.New("answer text cannot be empty")
	// ErrInvalidQuestion rejects question ids outside 1..365.
	ErrInvalidQuestion = errors.New("question id must be between 1 and 365")
	// ErrInvalidMood rejects unknown mood values.
	ErrInvalidMood = errors.New("unknown mood")
)

// ReminderScheduler is the slice of the reminder subsystem the store
// needs: adjust scheduling after a save. Both calls are best-effort and
// must never block.
type ReminderScheduler interface {
	Schedule(models.Answer)
	Cancel(models.Answer)
}

// Store owns the durable answer collection. All mutations take the
// store lock for their whole read-modify-write cycle, so a UI save
// racing a background permission callback cannot lose updates.
type Store struct {
	mu        sync.Mutex
	provider  storage.Provider
	days      *DaySet
	favorites *Favorites
	scheduler ReminderScheduler
}

// NewStore wires the answer store with its derived day set and favorite
// registry. scheduler may be nil when reminders are disabled.
func NewStore(provider storage.Provider, days *DaySet, favorites *Favorites, scheduler ReminderScheduler) *Store {
	return &Store{
		provider:  provider,
		days:      days,
		favorites: favorites,
		scheduler: scheduler,
	}
}

func validateInput(input models.AnswerInput) error {
	if input.QuestionID < 1 || input.QuestionID > 365 {
		return fmt.Errorf("%w: %d", ErrInvalidQuestion, input.QuestionID)
	}
	if strings.TrimSpace(input.Text) == "" {
		return ErrEmptyText
	}
	if input.Mood != nil && !input.Mood.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidMood, *input.Mood)
	}
	return nil
}

// Save records a new answer. It fails with ErrAlreadyAnswered when the
// (question, calendar day) pair already has one; re-saving the same day
// is an edit and belongs to Update. On success the answered-day set is
// updated in the same logical transaction and the reminder scheduler is
// notified of the answer's favorite state.
func (s *Store) Save(input models.AnswerInput) (models.Answer, error) {
	if err := validateInput(input); err != nil {
		return models.Answer{}, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.find(input.QuestionID, date); ok {
		return models.Answer{}, ErrAlreadyAnswered
	}

	now := time.Now()
	answer := models.Answer{
		ID:         uuid.New().String(),
		QuestionID: input.QuestionID,
		Text:       strings.TrimSpace(input.Text),
		Date:       date,
		IsFavorite: input.IsFavorite,
		Emoji:      input.Emoji,
		Mood:       input.Mood,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.provider.SaveAnswer(answer); err != nil {
		return models.Answer{}, fmt.Errorf("failed to save answer: %w", err)
	}
	if err := s.days.MarkAnswered(date); err != nil {
		return models.Answer{}, fmt.Errorf("failed to mark day answered: %w", err)
	}

	s.afterWrite(answer)
	return answer, nil
}

// Update replaces the mutable fields of an existing same-day answer and
// bumps UpdatedAt. The id and CreatedAt are preserved.
func (s *Store) Update(input models.AnswerInput) (models.Answer, error) {
	if err := validateInput(input); err != nil {
		return models.Answer{}, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.find(input.QuestionID, date)
	if !ok {
		return models.Answer{}, ErrNotAnswered
	}

	existing.Text = strings.TrimSpace(input.Text)
	existing.IsFavorite = input.IsFavorite
	existing.Emoji = input.Emoji
	existing.Mood = input.Mood
	existing.UpdatedAt = time.Now()

	if err := s.provider.SaveAnswer(existing); err != nil {
		return models.Answer{}, fmt.Errorf("failed to update answer: %w", err)
	}

	s.afterWrite(existing)
	return existing, nil
}

// afterWrite keeps the favorite registry and the reminder schedule in
// step with the answer that was just persisted. Caller holds the lock.
func (s *Store) afterWrite(answer models.Answer) {
	if answer.IsFavorite {
		if err := s.favorites.Add(answer.QuestionID); err != nil {
			logger.Warn("failed to record favorite question", "question", answer.QuestionID, "error", err)
		}
	}
	if s.scheduler == nil {
		return
	}
	if answer.IsFavorite {
		s.scheduler.Schedule(answer)
	} else {
		s.scheduler.Cancel(answer)
	}
}

// SetQuestionFavorite toggles the question-level favorite and, when an
// answer exists for that question today, keeps its per-answer flag and
// reminder in step. This is the single coordinating operation for the
// two favorite concepts.
func (s *Store) SetQuestionFavorite(questionID int, favorite bool) error {
	if questionID < 1 || questionID > 365 {
		return fmt.Errorf("%w: %d", ErrInvalidQuestion, questionID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var regErr error
	if favorite {
		regErr = s.favorites.Add(questionID)
	} else {
		regErr = s.favorites.Remove(questionID)
	}
	if regErr != nil {
		return regErr
	}

	answer, ok := s.find(questionID, time.Now())
	if !ok || answer.IsFavorite == favorite {
		return nil
	}

	answer.IsFavorite = favorite
	answer.UpdatedAt = time.Now()
	if err := s.provider.SaveAnswer(answer); err != nil {
		return fmt.Errorf("failed to update answer favorite flag: %w", err)
	}

	if s.scheduler != nil {
		if favorite {
			s.scheduler.Schedule(answer)
		} else {
			s.scheduler.Cancel(answer)
		}
	}
	return nil
}

// Get returns the answer for the question on the calendar day of date.
func (s *Store) Get(questionID int, date time.Time) (models.Answer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(questionID, date)
}

// find assumes the caller holds the lock.
func (s *Store) find(questionID int, date time.Time) (models.Answer, bool) {
	for _, a := range s.all() {
		if a.QuestionID == questionID && calendar.SameDay(a.Date, date) {
			return a, true
		}
	}
	return models.Answer{}, false
}

// all reads the whole collection, degrading to empty on read failure.
// A journal that cannot be decoded renders as an empty journal, never
// as a crash in a read path.
func (s *Store) all() []models.Answer {
	answers, err := s.provider.GetAllAnswers()
	if err != nil {
		logger.Warn("failed to read answers, treating journal as empty", "error", err)
		return nil
	}
	return answers
}

// ListForYear returns the year's answers ascending by date.
func (s *Store) ListForYear(year int) []models.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var answers []models.Answer
	for _, a := range s.all() {
		if a.Date.Year() == year {
			answers = append(answers, a)
		}
	}
	sort.Slice(answers, func(i, j int) bool {
		return answers[i].Date.Before(answers[j].Date)
	})
	return answers
}

// ListFavorites returns every favorited answer, newest first.
func (s *Store) ListFavorites() []models.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var favorites []models.Answer
	for _, a := range s.all() {
		if a.IsFavorite {
			favorites = append(favorites, a)
		}
	}
	sort.Slice(favorites, func(i, j int) bool {
		return favorites[i].Date.After(favorites[j].Date)
	})
	return favorites
}

// CountForYear returns the number of answers recorded in year.
func (s *Store) CountForYear(year int) int {
	return len(s.ListForYear(year))
}

// MonthlyCounts returns answers-per-month for year. All twelve months
// are present, zero-valued when empty.
func (s *Store) MonthlyCounts(year int) map[time.Month]int {
	counts := make(map[time.Month]int, 12)
	for month := time.January; month <= time.December; month++ {
		counts[month] = 0
	}
	for _, a := range s.ListForYear(year) {
		counts[a.Date.Month()]++
	}
	return counts
}
