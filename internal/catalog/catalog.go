// Package catalog serves the read-only 365-question lookup table.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"daybook/internal/models"
)

type Catalog struct {
	questions []models.Question
	byDay     map[int]models.Question
	byID      map[int]models.Question
}

// Load reads questions.json from the usual locations, falling back to
// the built-in sample set when no data file is found. The file is read
// once; the catalog is immutable afterwards.
func Load(configDir string) (*Catalog, error) {
	questions, err := loadQuestionsFile(configDir)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = sampleQuestions()
	}
	return New(questions)
}

// New builds a catalog from an explicit question list.
func New(questions []models.Question) (*Catalog, error) {
	c := &Catalog{
		questions: questions,
		byDay:     make(map[int]models.Question, len(questions)),
		byID:      make(map[int]models.Question, len(questions)),
	}
	for _, q := range questions {
		if q.DayOfYear < 1 || q.DayOfYear > 365 {
			return nil, fmt.Errorf("question %d has day_of_year %d out of range 1..365", q.ID, q.DayOfYear)
		}
		c.byDay[q.DayOfYear] = q
		c.byID[q.ID] = q
	}
	return c, nil
}

// QuestionForDay returns the question assigned to the given day-of-year.
// Day 366 (leap day) reuses the day-365 question, so a leap year never
// leaves the user without a prompt.
func (c *Catalog) QuestionForDay(dayOfYear int) (models.Question, bool) {
	if dayOfYear == 366 {
		dayOfYear = 365
	}
	q, ok := c.byDay[dayOfYear]
	return q, ok
}

// QuestionByID returns the question with the given catalog id.
func (c *Catalog) QuestionByID(id int) (models.Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// All returns every catalog question.
func (c *Catalog) All() []models.Question {
	return c.questions
}

// Len returns the number of catalog questions.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// loadQuestionsFile probes the config dir and the paths around the
// executable for a questions.json. Returns (nil, nil) when absent.
func loadQuestionsFile(configDir string) ([]models.Question, error) {
	paths := []string{
		filepath.Join(configDir, "questions.json"),
		"questions.json",
		filepath.Join(filepath.Dir(os.Args[0]), "questions.json"),
	}
	if envPath := os.Getenv("DAYBOOK_QUESTIONS_PATH"); envPath != "" {
		paths = append([]string{envPath}, paths...)
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read questions file %s: %w", path, err)
		}
		var questions []models.Question
		if err := json.Unmarshal(data, &questions); err != nil {
			return nil, fmt.Errorf("failed to parse questions file %s: %w", path, err)
		}
		return questions, nil
	}

	return nil, nil
}

var samplePrompts = []string{
	"What matters most to you in your life right now?",
	"What small kindness did you do for yourself today?",
	"When did you last thank someone, and for what?",
	"Who has been the most important teacher in your life?",
	"When did you last help someone who didn't ask for it?",
	"What was the best decision you made in the past year?",
	"What turning point shaped the person you are today?",
	"What are you most curious about these days?",
	"What made you happiest in the last week?",
	"What is your greatest hope for the future?",
	"Which of your qualities are you proudest of?",
	"When were you last completely yourself?",
	"Has a book, film, or person changed your life?",
	"If you could relive one day, which would you choose?",
	"Whose company do you most want right now?",
	"Is there anything in your life you wish you had done differently?",
	"What is one of your biggest fears?",
	"When did you last feel truly strong?",
	"Where do you want to be one year from now?",
	"What is the most precious thing in your life?",
}

var sampleCategories = []models.QuestionCategory{
	models.CategorySelfReflection, models.CategoryRelationships, models.CategoryGoals,
	models.CategoryGratitude, models.CategoryCreativity, models.CategoryLifestyle,
	models.CategoryEmotions, models.CategoryMemories, models.CategoryFuture,
	models.CategoryGrowth,
}

// sampleQuestions cycles the built-in prompts over 365 days so the app
// works out of the box without a questions.json.
func sampleQuestions() []models.Question {
	questions := make([]models.Question, 0, 365)
	for day := 1; day <= 365; day++ {
		questions = append(questions, models.Question{
			ID:        day,
			Text:      samplePrompts[(day-1)%len(samplePrompts)],
			Category:  sampleCategories[(day-1)%len(sampleCategories)],
			DayOfYear: day,
		})
	}
	return questions
}
