package storage

import "daybook/internal/models"

// Settings are the small number of user preferences kept alongside the
// journal data itself.
type Settings struct {
	ReminderTime string `json:"reminder_time"` // HH:MM, preferred delivery time
	Permission   string `json:"permission"`    // notification permission: unknown|granted|denied
	CapsuleYears int    `json:"capsule_years"` // how far back the time capsule looks
}

// Provider is the persistence contract shared by the JSON, SQLite and
// Postgres backends. Collections are small (a few hundred answers per
// year) so readers always fetch whole collections and the journal layer
// does its own filtering.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	// Answers
	SaveAnswer(models.Answer) error
	GetAllAnswers() ([]models.Answer, error)

	// Answered days (YYYY-MM-DD keys)
	MarkDayAnswered(day string) error
	GetAnsweredDays() ([]string, error)

	// Favorite questions, insertion order preserved
	SaveFavoriteQuestions([]int) error
	GetFavoriteQuestions() ([]int, error)

	// Pending reminders
	SaveReminder(models.Reminder) error
	DeleteReminder(id string) error
	GetReminders() ([]models.Reminder, error)

	// Utils
	GetConfigPath() string
}

// DefaultSettings returns the settings written on first init.
func DefaultSettings() Settings {
	return Settings{
		ReminderTime: "20:00",
		Permission:   "unknown",
		CapsuleYears: 5,
	}
}
