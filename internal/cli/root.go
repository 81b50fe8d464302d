// Package cli carries the kong command implementations. Each command
// receives the shared Context wired up in main.
package cli

import (
	"fmt"
	"strings"
	"time"

	"daybook/internal/catalog"
	"daybook/internal/journal"
	"daybook/internal/models"
	"daybook/internal/notify"
	"daybook/internal/reminder"
	"daybook/internal/storage"
)

type Context struct {
	Store     storage.Provider
	Catalog   *catalog.Catalog
	Journal   *journal.Store
	Capsule   *journal.Capsule
	Favorites *journal.Favorites
	Days      *journal.DaySet
	Scheduler *reminder.Scheduler
	Notifier  *notify.LocalNotifier
}

// QuestionForDate resolves the catalog question shown on a given date.
func (c *Context) QuestionForDate(date time.Time) (models.Question, error) {
	question, ok := c.Catalog.QuestionForDay(date.YearDay())
	if !ok {
		return models.Question{}, fmt.Errorf("no question for day %d of the year", date.YearDay())
	}
	return question, nil
}

// ParseDate parses a YYYY-MM-DD flag value, defaulting to now when
// empty.
func ParseDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Now(), nil
	}
	date, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return date, nil
}

// ParseMood maps a mood flag value onto the known set. An empty string
// means no mood.
func ParseMood(s string) (*models.Mood, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	mood := models.Mood(strings.ToLower(strings.TrimSpace(s)))
	if !mood.Valid() {
		var names []string
		for _, m := range models.AllMoods {
			names = append(names, string(m))
		}
		return nil, fmt.Errorf("invalid mood %q (use one of: %s)", s, strings.Join(names, ", "))
	}
	return &mood, nil
}

// FormatAnswer renders one answer as a multi-line block for terminal
// output.
func FormatAnswer(answer models.Answer, question models.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", answer.Date.Format("2006-01-02"))
	if answer.IsFavorite {
		b.WriteString("  ★")
	}
	if answer.Emoji != nil {
		fmt.Fprintf(&b, "  %s", *answer.Emoji)
	}
	if answer.Mood != nil {
		fmt.Fprintf(&b, "  [%s]", answer.Mood.Label())
	}
	b.WriteString("\n")
	if question.Text != "" {
		fmt.Fprintf(&b, "  Q: %s\n", question.Text)
	}
	fmt.Fprintf(&b, "  A: %s", answer.Text)
	return b.String()
}
