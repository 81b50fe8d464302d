package models

import "time"

// Mood is an optional feeling tag attached to an answer.
type Mood string

const (
	MoodVeryHappy  Mood = "very_happy"
	MoodHappy      Mood = "happy"
	MoodNeutral    Mood = "neutral"
	MoodSad        Mood = "sad"
	MoodVerySad    Mood = "very_sad"
	MoodExcited    Mood = "excited"
	MoodGrateful   Mood = "grateful"
	MoodThoughtful Mood = "thoughtful"
	MoodCalm       Mood = "calm"
	MoodEnergetic  Mood = "energetic"
)

// AllMoods lists every mood in display order.
var AllMoods = []Mood{
	MoodVeryHappy, MoodHappy, MoodNeutral, MoodSad, MoodVerySad,
	MoodExcited, MoodGrateful, MoodThoughtful, MoodCalm, MoodEnergetic,
}

var moodLabels = map[Mood]string{
	MoodVeryHappy:  "Very Happy",
	MoodHappy:      "Happy",
	MoodNeutral:    "Neutral",
	MoodSad:        "Sad",
	MoodVerySad:    "Very Sad",
	MoodExcited:    "Excited",
	MoodGrateful:   "Grateful",
	MoodThoughtful: "Thoughtful",
	MoodCalm:       "Calm",
	MoodEnergetic:  "Energetic",
}

// Label returns the human-readable name for the mood.
func (m Mood) Label() string {
	if label, ok := moodLabels[m]; ok {
		return label
	}
	return string(m)
}

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	_, ok := moodLabels[m]
	return ok
}

// Answer is one response to one question on one calendar day.
// Only the calendar-day component of Date is significant for matching;
// the time-of-day is whatever the clock read when the answer was saved.
type Answer struct {
	ID         string    `json:"id"`
	QuestionID int       `json:"question_id"`
	Text       string    `json:"text"`
	Date       time.Time `json:"date"`
	IsFavorite bool      `json:"is_favorite"`
	Emoji      *string   `json:"emoji,omitempty"`
	Mood       *Mood     `json:"mood,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AnswerInput carries the user-editable fields of an answer.
type AnswerInput struct {
	QuestionID int
	Text       string
	Date       time.Time
	IsFavorite bool
	Emoji      *string
	Mood       *Mood
}
