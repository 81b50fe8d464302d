package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"daybook/internal/models"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS answers (
	id          TEXT PRIMARY KEY,
	question_id INTEGER NOT NULL,
	text        TEXT NOT NULL,
	date        TEXT NOT NULL,
	day         TEXT NOT NULL,
	is_favorite INTEGER NOT NULL DEFAULT 0,
	emoji       TEXT,
	mood        TEXT,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	UNIQUE (question_id, day)
);
CREATE TABLE IF NOT EXISTS answered_days (
	day TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS favorite_questions (
	question_id INTEGER PRIMARY KEY,
	position    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS reminders (
	id          TEXT PRIMARY KEY,
	question_id INTEGER NOT NULL,
	fires_at    TEXT NOT NULL,
	payload     TEXT,
	created_at  TEXT NOT NULL
);
`

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Initialize default settings if not present
	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'daybook init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Schema statements are idempotent, so re-running them on load keeps
	// databases created by older builds usable.
	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to verify schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetSettings() (Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return Settings{}, err
	}
	defer rows.Close()

	settings := Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, err
		}
		switch key {
		case "reminder_time":
			settings.ReminderTime = value
		case "permission":
			settings.Permission = value
		case "capsule_years":
			if _, err := fmt.Sscanf(value, "%d", &settings.CapsuleYears); err != nil {
				return Settings{}, fmt.Errorf("parsing capsule_years: %w", err)
			}
		}
		count++
	}

	if count == 0 {
		return Settings{}, fmt.Errorf("settings not found")
	}

	return settings, rows.Err()
}

func (s *SQLiteStore) SaveSettings(settings Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec("reminder_time", settings.ReminderTime); err != nil {
		return err
	}
	if _, err := stmt.Exec("permission", settings.Permission); err != nil {
		return err
	}
	if _, err := stmt.Exec("capsule_years", fmt.Sprintf("%d", settings.CapsuleYears)); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) SaveAnswer(answer models.Answer) error {
	var emoji, mood sql.NullString
	if answer.Emoji != nil {
		emoji = sql.NullString{String: *answer.Emoji, Valid: true}
	}
	if answer.Mood != nil {
		mood = sql.NullString{String: string(*answer.Mood), Valid: true}
	}

	// INSERT OR REPLACE also fires on the (question_id, day) unique
	// constraint, which is what keeps one answer per day per question.
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO answers (
			id, question_id, text, date, day, is_favorite, emoji, mood, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		answer.ID, answer.QuestionID, answer.Text,
		answer.Date.Format(time.RFC3339), answer.Date.Format("2006-01-02"),
		answer.IsFavorite, emoji, mood,
		answer.CreatedAt.UTC().Format(time.RFC3339), answer.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) GetAllAnswers() ([]models.Answer, error) {
	rows, err := s.db.Query(`
		SELECT id, question_id, text, date, is_favorite, emoji, mood, created_at, updated_at
		FROM answers`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}

	return answers, rows.Err()
}

func scanAnswer(rows *sql.Rows) (models.Answer, error) {
	var a models.Answer
	var date, createdAt, updatedAt string
	var emoji, mood sql.NullString

	err := rows.Scan(&a.ID, &a.QuestionID, &a.Text, &date, &a.IsFavorite, &emoji, &mood, &createdAt, &updatedAt)
	if err != nil {
		return models.Answer{}, err
	}

	if a.Date, err = time.Parse(time.RFC3339, date); err != nil {
		return models.Answer{}, fmt.Errorf("parsing answer date: %w", err)
	}
	a.Date = a.Date.Local()
	if a.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return models.Answer{}, fmt.Errorf("parsing answer created_at: %w", err)
	}
	if a.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return models.Answer{}, fmt.Errorf("parsing answer updated_at: %w", err)
	}

	if emoji.Valid {
		a.Emoji = &emoji.String
	}
	if mood.Valid {
		m := models.Mood(mood.String)
		a.Mood = &m
	}

	return a, nil
}

func (s *SQLiteStore) MarkDayAnswered(day string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO answered_days (day) VALUES (?)", day)
	return err
}

func (s *SQLiteStore) GetAnsweredDays() ([]string, error) {
	rows, err := s.db.Query("SELECT day FROM answered_days ORDER BY day")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	return days, rows.Err()
}

func (s *SQLiteStore) SaveFavoriteQuestions(ids []int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM favorite_questions"); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO favorite_questions (question_id, position) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.Exec(id, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetFavoriteQuestions() ([]int, error) {
	rows, err := s.db.Query("SELECT question_id FROM favorite_questions ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (s *SQLiteStore) SaveReminder(reminder models.Reminder) error {
	payloadJSON, err := json.Marshal(reminder.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal reminder payload: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO reminders (id, question_id, fires_at, payload, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		reminder.ID, reminder.QuestionID,
		reminder.FiresAt.Format(time.RFC3339), string(payloadJSON),
		reminder.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) DeleteReminder(id string) error {
	_, err := s.db.Exec("DELETE FROM reminders WHERE id = ?", id)
	return err
}

func (s *SQLiteStore) GetReminders() ([]models.Reminder, error) {
	rows, err := s.db.Query("SELECT id, question_id, fires_at, payload, created_at FROM reminders ORDER BY fires_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		var r models.Reminder
		var firesAt, createdAt string
		var payload sql.NullString

		if err := rows.Scan(&r.ID, &r.QuestionID, &firesAt, &payload, &createdAt); err != nil {
			return nil, err
		}

		if r.FiresAt, err = time.Parse(time.RFC3339, firesAt); err != nil {
			return nil, fmt.Errorf("parsing reminder fires_at: %w", err)
		}
		r.FiresAt = r.FiresAt.Local()
		if r.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing reminder created_at: %w", err)
		}

		if payload.Valid && payload.String != "" && payload.String != "null" {
			if err := json.Unmarshal([]byte(payload.String), &r.Payload); err != nil {
				return nil, fmt.Errorf("parsing reminder payload: %w", err)
			}
		}

		reminders = append(reminders, r)
	}

	return reminders, rows.Err()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}
