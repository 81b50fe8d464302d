package journal

import (
	"testing"

	"daybook/internal/models"
)

func TestLookupPastYears(t *testing.T) {
	store, _ := newTestStore(t)
	capsule := NewCapsule(store)

	// Answers for question 7 exist in 2023 and 2022 but not 2021.
	for _, d := range []string{"2023-06-01", "2022-06-01"} {
		if _, err := store.Save(models.AnswerInput{QuestionID: 7, Text: "past " + d, Date: date(d)}); err != nil {
			t.Fatalf("Save(%s): %v", d, err)
		}
	}
	// A different question on the same day must not leak in.
	if _, err := store.Save(models.AnswerInput{QuestionID: 8, Text: "other", Date: date("2021-06-01")}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	answers := capsule.LookupPastYears(7, date("2024-06-01"), 5)
	if len(answers) != 2 {
		t.Fatalf("LookupPastYears = %d answers, want 2", len(answers))
	}
	if answers[0].Date.Format("2006-01-02") != "2023-06-01" {
		t.Errorf("first answer should be 2023-06-01, got %s", answers[0].Date.Format("2006-01-02"))
	}
	if answers[1].Date.Format("2006-01-02") != "2022-06-01" {
		t.Errorf("second answer should be 2022-06-01, got %s", answers[1].Date.Format("2006-01-02"))
	}
}

func TestLookupPastYearsEmptyResult(t *testing.T) {
	store, _ := newTestStore(t)
	capsule := NewCapsule(store)

	answers := capsule.LookupPastYears(7, date("2024-06-01"), 5)
	if len(answers) != 0 {
		t.Errorf("expected empty result, got %d answers", len(answers))
	}
}

func TestLookupPastYearsDescendingNeverFuture(t *testing.T) {
	store, _ := newTestStore(t)
	capsule := NewCapsule(store)

	today := date("2024-06-01")
	for _, d := range []string{"2019-06-01", "2021-06-01", "2020-06-01", "2023-06-01"} {
		if _, err := store.Save(models.AnswerInput{QuestionID: 7, Text: "x", Date: date(d)}); err != nil {
			t.Fatalf("Save(%s): %v", d, err)
		}
	}

	answers := capsule.LookupPastYears(7, today, 5)
	for i, a := range answers {
		if a.Date.After(today) {
			t.Errorf("answer %d is in the future: %s", i, a.Date)
		}
		if i > 0 && answers[i-1].Date.Before(a.Date) {
			t.Error("answers should be strictly descending by date")
		}
	}
}

func TestLookupPastYearsRespectsMaxYearsBack(t *testing.T) {
	store, _ := newTestStore(t)
	capsule := NewCapsule(store)

	for _, d := range []string{"2023-06-01", "2020-06-01"} {
		if _, err := store.Save(models.AnswerInput{QuestionID: 7, Text: "x", Date: date(d)}); err != nil {
			t.Fatalf("Save(%s): %v", d, err)
		}
	}

	answers := capsule.LookupPastYears(7, date("2024-06-01"), 2)
	if len(answers) != 1 {
		t.Fatalf("maxYearsBack=2 should only find 2023, got %d answers", len(answers))
	}
}

func TestLookupPastYearsLeapDayClampsToFeb28(t *testing.T) {
	store, _ := newTestStore(t)
	capsule := NewCapsule(store)

	// Looking back from Feb 29 lands on Feb 28 in non-leap years.
	if _, err := store.Save(models.AnswerInput{QuestionID: 60, Text: "clamped", Date: date("2023-02-28")}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	answers := capsule.LookupPastYears(60, date("2024-02-29"), 5)
	if len(answers) != 1 {
		t.Fatalf("expected the Feb 28 answer to match, got %d answers", len(answers))
	}
}

func TestLookupPastYearsDefaultDepth(t *testing.T) {
	store, _ := newTestStore(t)
	capsule := NewCapsule(store)

	old := date("2024-06-01").AddDate(-DefaultCapsuleYears-1, 0, 0)
	if _, err := store.Save(models.AnswerInput{QuestionID: 7, Text: "too old", Date: old}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	answers := capsule.LookupPastYears(7, date("2024-06-01"), 0)
	if len(answers) != 0 {
		t.Errorf("answers beyond the default depth should not match, got %d", len(answers))
	}
}
