package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"daybook/internal/models"
)

func TestLoadFallsBackToSamples(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 365 {
		t.Fatalf("expected 365 sample questions, got %d", c.Len())
	}

	q, ok := c.QuestionForDay(1)
	if !ok || q.DayOfYear != 1 {
		t.Errorf("missing question for day 1")
	}
	if _, ok := c.QuestionForDay(365); !ok {
		t.Errorf("missing question for day 365")
	}
}

func TestLoadFromConfigDir(t *testing.T) {
	dir := t.TempDir()
	questions := []models.Question{
		{ID: 7, Text: "What did today teach you?", DayOfYear: 42},
	}
	data, err := json.Marshal(questions)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "questions.json"), data, 0600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 question from file, got %d", c.Len())
	}
	q, ok := c.QuestionByID(7)
	if !ok || q.DayOfYear != 42 {
		t.Errorf("QuestionByID(7) = %+v, %v", q, ok)
	}
}

func TestLeapDayReusesLastQuestion(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	q365, _ := c.QuestionForDay(365)
	q366, ok := c.QuestionForDay(366)
	if !ok {
		t.Fatal("day 366 should resolve to a question")
	}
	if q366.ID != q365.ID {
		t.Errorf("day 366 should reuse day 365's question, got %d vs %d", q366.ID, q365.ID)
	}
}

func TestNewRejectsOutOfRangeDay(t *testing.T) {
	_, err := New([]models.Question{{ID: 1, Text: "x", DayOfYear: 366}})
	if err == nil {
		t.Error("expected error for day_of_year 366 in catalog data")
	}
}
