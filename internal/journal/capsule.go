package journal

import (
	"sort"
	"time"

	"daybook/internal/calendar"
	"daybook/internal/models"
)

// DefaultCapsuleYears is how far back the time capsule looks when the
// caller does not say otherwise.
const DefaultCapsuleYears = 5

// Capsule resolves "what you said on this day in past years".
type Capsule struct {
	store *Store
}

func NewCapsule(store *Store) *Capsule {
	return &Capsule{
		store: store,
	}
}

// LookupPastYears collects answers to questionID from the same calendar
// day in the maxYearsBack years before today, newest first. An empty
// result means nothing was found; it is not an error. Feb 29 lookups
// land on Feb 28 in non-leap years, per calendar.AddYears.
func (c *Capsule) LookupPastYears(questionID int, today time.Time, maxYearsBack int) []models.Answer {
	if maxYearsBack <= 0 {
		maxYearsBack = DefaultCapsuleYears
	}

	answers := make([]models.Answer, 0, maxYearsBack)
	for offset := 1; offset <= maxYearsBack; offset++ {
		target := calendar.AddYears(today, -offset)
		answer, ok := c.store.Get(questionID, target)
		if !ok {
			continue
		}
		if answer.Date.After(today) {
			continue
		}
		answers = append(answers, answer)
	}

	sort.Slice(answers, func(i, j int) bool {
		return answers[i].Date.After(answers[j].Date)
	})
	return answers
}
