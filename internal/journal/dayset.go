package journal

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"daybook/internal/calendar"
	"daybook/internal/logger"
	"daybook/internal/storage"
)

// DaySet is the materialized view of answered calendar days, kept so
// calendar and history screens never scan the full answer collection.
// It is derivable from the answers alone; Rebuild restores it when the
// two ever drift.
type DaySet struct {
	mu       sync.Mutex
	provider storage.Provider
}

func NewDaySet(provider storage.Provider) *DaySet {
	return &DaySet{
		provider: provider,
	}
}

// MarkAnswered adds the calendar day of date to the set. Idempotent.
func (d *DaySet) MarkAnswered(date time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.provider.MarkDayAnswered(calendar.DayKey(date))
}

// IsAnswered reports whether the calendar day of date has an answer.
// Read failures degrade to false.
func (d *DaySet) IsAnswered(date time.Time) bool {
	key := calendar.DayKey(date)
	for _, day := range d.keys() {
		if day == key {
			return true
		}
	}
	return false
}

// All returns every answered calendar day in ascending order.
func (d *DaySet) All() []time.Time {
	var days []time.Time
	for _, key := range d.keys() {
		day, err := calendar.ParseDayKey(key)
		if err != nil {
			logger.Warn("skipping malformed answered-day entry", "key", key, "error", err)
			continue
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})
	return days
}

func (d *DaySet) keys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	days, err := d.provider.GetAnsweredDays()
	if err != nil {
		logger.Warn("failed to read answered days, treating set as empty", "error", err)
		return nil
	}
	return days
}

// Rebuild re-derives the set from the answer collection. This is the
// documented recovery procedure for a drifted cache.
func (d *DaySet) Rebuild() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	answers, err := d.provider.GetAllAnswers()
	if err != nil {
		return fmt.Errorf("failed to read answers for rebuild: %w", err)
	}
	for _, a := range answers {
		if err := d.provider.MarkDayAnswered(calendar.DayKey(a.Date)); err != nil {
			return fmt.Errorf("failed to mark day %s: %w", calendar.DayKey(a.Date), err)
		}
	}
	return nil
}
