package journal

import (
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"daybook/internal/calendar"
	"daybook/internal/logger"
	"daybook/internal/models"
	"daybook/internal/storage"
)

// QuestionLookup resolves catalog questions by id. Satisfied by
// catalog.Catalog.
type QuestionLookup interface {
	QuestionByID(id int) (models.Question, bool)
}

// Favorites is the question-level favorite registry. It is independent
// of any single answer's favorite flag: a question can be favorited
// without ever having been answered.
type Favorites struct {
	mu       sync.Mutex
	provider storage.Provider
}

func NewFavorites(provider storage.Provider) *Favorites {
	return &Favorites{
		provider: provider,
	}
}

// Add appends questionID to the registry. Idempotent; insertion order
// is preserved.
func (f *Favorites) Add(questionID int) error {
	if questionID < 1 || questionID > 365 {
		return fmt.Errorf("%w: %d", ErrInvalidQuestion, questionID)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	ids, err := f.provider.GetFavoriteQuestions()
	if err != nil {
		return fmt.Errorf("failed to read favorite questions: %w", err)
	}
	if slices.Contains(ids, questionID) {
		return nil
	}
	return f.provider.SaveFavoriteQuestions(append(ids, questionID))
}

// Remove drops questionID from the registry. No-op when absent.
func (f *Favorites) Remove(questionID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids, err := f.provider.GetFavoriteQuestions()
	if err != nil {
		return fmt.Errorf("failed to read favorite questions: %w", err)
	}
	filtered := slices.DeleteFunc(slices.Clone(ids), func(id int) bool {
		return id == questionID
	})
	if len(filtered) == len(ids) {
		return nil
	}
	return f.provider.SaveFavoriteQuestions(filtered)
}

// Contains reports whether questionID is favorited. Read failures
// degrade to false.
func (f *Favorites) Contains(questionID int) bool {
	return slices.Contains(f.List(), questionID)
}

// List returns the favorited question ids in insertion order.
func (f *Favorites) List() []int {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids, err := f.provider.GetFavoriteQuestions()
	if err != nil {
		logger.Warn("failed to read favorite questions, treating registry as empty", "error", err)
		return nil
	}
	return ids
}

// ScheduledFavorite pairs a favorited question with the concrete date
// its day-of-year lands on in a given year.
type ScheduledFavorite struct {
	Question models.Question
	OccursOn time.Time
}

// ListWithSchedule projects each favorited question onto year, ascending
// by occurrence date. Questions missing from the catalog are skipped.
func (f *Favorites) ListWithSchedule(year int, lookup QuestionLookup) []ScheduledFavorite {
	var scheduled []ScheduledFavorite
	for _, id := range f.List() {
		question, ok := lookup.QuestionByID(id)
		if !ok {
			logger.Warn("favorited question missing from catalog", "question", id)
			continue
		}
		occursOn, err := calendar.DateForDayOfYear(question.DayOfYear, year)
		if err != nil {
			logger.Warn("favorited question has no date this year", "question", id, "error", err)
			continue
		}
		scheduled = append(scheduled, ScheduledFavorite{
			Question: question,
			OccursOn: occursOn,
		})
	}
	sort.Slice(scheduled, func(i, j int) bool {
		return scheduled[i].OccursOn.Before(scheduled[j].OccursOn)
	})
	return scheduled
}
