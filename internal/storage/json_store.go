package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"daybook/internal/models"
)

// Store is the on-disk shape of the JSON backend: one document holding
// every collection, rewritten whole on each mutation. This mirrors the
// original app's single-blob storage model.
type Store struct {
	Version           int                        `json:"version"`
	Settings          Settings                   `json:"settings"`
	Answers           []models.Answer            `json:"answers"`
	AnsweredDays      []string                   `json:"answered_days"`
	FavoriteQuestions []int                      `json:"favorite_questions"`
	Reminders         map[string]models.Reminder `json:"reminders"`
}

type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{
		Version:   1,
		Settings:  DefaultSettings(),
		Reminders: make(map[string]models.Reminder),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'daybook init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.store.Reminders == nil {
		s.store.Reminders = make(map[string]models.Reminder)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetSettings() (Settings, error) {
	if s.store == nil {
		return Settings{}, fmt.Errorf("storage not loaded")
	}
	return s.store.Settings, nil
}

func (s *JSONStore) SaveSettings(settings Settings) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Settings = settings
	return s.save()
}

func (s *JSONStore) SaveAnswer(answer models.Answer) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	// Replace by id first, then by (question, day) so an edit that
	// regenerated its id still cannot produce a same-day duplicate.
	replaced := false
	for i, existing := range s.store.Answers {
		if existing.ID == answer.ID ||
			(existing.QuestionID == answer.QuestionID && sameStoredDay(existing, answer)) {
			s.store.Answers[i] = answer
			replaced = true
			break
		}
	}
	if !replaced {
		s.store.Answers = append(s.store.Answers, answer)
	}

	return s.save()
}

func sameStoredDay(a, b models.Answer) bool {
	ay, am, ad := a.Date.Date()
	by, bm, bd := b.Date.Date()
	return ay == by && am == bm && ad == bd
}

func (s *JSONStore) GetAllAnswers() ([]models.Answer, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	answers := make([]models.Answer, len(s.store.Answers))
	copy(answers, s.store.Answers)
	return answers, nil
}

func (s *JSONStore) MarkDayAnswered(day string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	if slices.Contains(s.store.AnsweredDays, day) {
		return nil
	}
	s.store.AnsweredDays = append(s.store.AnsweredDays, day)
	return s.save()
}

func (s *JSONStore) GetAnsweredDays() ([]string, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	days := make([]string, len(s.store.AnsweredDays))
	copy(days, s.store.AnsweredDays)
	return days, nil
}

func (s *JSONStore) SaveFavoriteQuestions(ids []int) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	s.store.FavoriteQuestions = slices.Clone(ids)
	return s.save()
}

func (s *JSONStore) GetFavoriteQuestions() ([]int, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	return slices.Clone(s.store.FavoriteQuestions), nil
}

func (s *JSONStore) SaveReminder(reminder models.Reminder) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	s.store.Reminders[reminder.ID] = reminder
	return s.save()
}

func (s *JSONStore) DeleteReminder(id string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	delete(s.store.Reminders, id)
	return s.save()
}

func (s *JSONStore) GetReminders() ([]models.Reminder, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	reminders := make([]models.Reminder, 0, len(s.store.Reminders))
	for _, r := range s.store.Reminders {
		reminders = append(reminders, r)
	}
	slices.SortFunc(reminders, func(a, b models.Reminder) int {
		return a.FiresAt.Compare(b.FiresAt)
	})
	return reminders, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
