package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"daybook/internal/models"
)

// PostgresStore keeps the journal in a PostgreSQL database, for people
// who point several machines at one home server. The connection string
// comes from the OS keyring, never from a file on disk.
type PostgresStore struct {
	connStr string
	db      *sql.DB
}

func NewPostgresStore(connStr string) *PostgresStore {
	s := &PostgresStore{
		connStr: connStr,
	}
	s.ensureSearchPath()
	return s
}

func (s *PostgresStore) ensureSearchPath() {
	if strings.HasPrefix(s.connStr, "postgres://") || strings.HasPrefix(s.connStr, "postgresql://") {
		u, err := url.Parse(s.connStr)
		if err != nil {
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", "daybook")
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
	}
}

const postgresSchema = `
CREATE SCHEMA IF NOT EXISTS daybook;
CREATE TABLE IF NOT EXISTS daybook.settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS daybook.answers (
	id          TEXT PRIMARY KEY,
	question_id INTEGER NOT NULL,
	text        TEXT NOT NULL,
	date        TEXT NOT NULL,
	day         TEXT NOT NULL,
	is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
	emoji       TEXT,
	mood        TEXT,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	UNIQUE (question_id, day)
);
CREATE TABLE IF NOT EXISTS daybook.answered_days (
	day TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS daybook.favorite_questions (
	question_id INTEGER PRIMARY KEY,
	position    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS daybook.reminders (
	id          TEXT PRIMARY KEY,
	question_id INTEGER NOT NULL,
	fires_at    TEXT NOT NULL,
	payload     TEXT,
	created_at  TEXT NOT NULL
);
`

func (s *PostgresStore) Init() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	if _, err := s.db.Exec(postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) GetSettings() (Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM daybook.settings")
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

func (s *PostgresStore) SaveSettings(settings Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO daybook.settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`)
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

func (s *PostgresStore) SaveAnswer(answer models.Answer) error {
	var emoji, mood sql.NullString
	if answer.Emoji != nil {
		emoji = sql.NullString{String: *answer.Emoji, Valid: true}
	}
	if answer.Mood != nil {
		mood = sql.NullString{String: string(*answer.Mood), Valid: true}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	day := answer.Date.Format("2006-01-02")

	// Postgres has no OR REPLACE across two unique constraints, so clear
	// any same-day row for the question before upserting by id.
	if _, err := tx.Exec(
		"DELETE FROM daybook.answers WHERE question_id = $1 AND day = $2 AND id <> $3",
		answer.QuestionID, day, answer.ID,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO daybook.answers (
			id, question_id, text, date, day, is_favorite, emoji, mood, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			text = EXCLUDED.text, date = EXCLUDED.date, day = EXCLUDED.day,
			is_favorite = EXCLUDED.is_favorite, emoji = EXCLUDED.emoji,
			mood = EXCLUDED.mood, updated_at = EXCLUDED.updated_at`,
		answer.ID, answer.QuestionID, answer.Text,
		answer.Date.Format(time.RFC3339), day,
		answer.IsFavorite, emoji, mood,
		answer.CreatedAt.UTC().Format(time.RFC3339), answer.UpdatedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *PostgresStore) GetAllAnswers() ([]models.Answer, error) {
	rows, err := s.db.Query(`
		SELECT id, question_id, text, date, is_favorite, emoji, mood, created_at, updated_at
		FROM daybook.answers`)
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

func (s *PostgresStore) MarkDayAnswered(day string) error {
	_, err := s.db.Exec(
		"INSERT INTO daybook.answered_days (day) VALUES ($1) ON CONFLICT (day) DO NOTHING", day)
	return err
}

func (s *PostgresStore) GetAnsweredDays() ([]string, error) {
	rows, err := s.db.Query("SELECT day FROM daybook.answered_days ORDER BY day")
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

func (s *PostgresStore) SaveFavoriteQuestions(ids []int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM daybook.favorite_questions"); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO daybook.favorite_questions (question_id, position) VALUES ($1, $2)")
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

func (s *PostgresStore) GetFavoriteQuestions() ([]int, error) {
	rows, err := s.db.Query("SELECT question_id FROM daybook.favorite_questions ORDER BY position")
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

func (s *PostgresStore) SaveReminder(reminder models.Reminder) error {
	payloadJSON, err := json.Marshal(reminder.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal reminder payload: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO daybook.reminders (id, question_id, fires_at, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			question_id = EXCLUDED.question_id, fires_at = EXCLUDED.fires_at,
			payload = EXCLUDED.payload`,
		reminder.ID, reminder.QuestionID,
		reminder.FiresAt.Format(time.RFC3339), string(payloadJSON),
		reminder.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *PostgresStore) DeleteReminder(id string) error {
	_, err := s.db.Exec("DELETE FROM daybook.reminders WHERE id = $1", id)
	return err
}

func (s *PostgresStore) GetReminders() ([]models.Reminder, error) {
	rows, err := s.db.Query("SELECT id, question_id, fires_at, payload, created_at FROM daybook.reminders ORDER BY fires_at")
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

func (s *PostgresStore) GetConfigPath() string {
	return s.connStr
}
