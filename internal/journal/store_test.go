package journal

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"daybook/internal/models"
	"daybook/internal/storage"
)

func newTestStore(t *testing.T) (*Store, storage.Provider) {
	t.Helper()
	provider := storage.NewJSONStore(filepath.Join(t.TempDir(), "daybook.json"))
	if err := provider.Init(); err != nil {
		t.Fatalf("init storage: %v", err)
	}
	days := NewDaySet(provider)
	favorites := NewFavorites(provider)
	return NewStore(provider, days, favorites, nil), provider
}

func date(s string) time.Time {
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSaveAndGet(t *testing.T) {
	store, _ := newTestStore(t)

	saved, err := store.Save(models.AnswerInput{
		QuestionID: 5,
		Text:       "hello",
		Date:       date("2024-03-10"),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" {
		t.Error("saved answer should have an id")
	}

	got, ok := store.Get(5, date("2024-03-10"))
	if !ok {
		t.Fatal("expected answer for 2024-03-10")
	}
	if got.Text != "hello" {
		t.Errorf("Text = %q, want %q", got.Text, "hello")
	}

	if _, ok := store.Get(5, date("2024-03-11")); ok {
		t.Error("expected no answer for 2024-03-11")
	}
	if _, ok := store.Get(6, date("2024-03-10")); ok {
		t.Error("expected no answer for question 6")
	}
}

func TestSaveMatchesIgnoringTimeOfDay(t *testing.T) {
	store, _ := newTestStore(t)

	morning := time.Date(2024, 3, 10, 8, 0, 0, 0, time.Local)
	night := time.Date(2024, 3, 10, 23, 0, 0, 0, time.Local)

	if _, err := store.Save(models.AnswerInput{QuestionID: 5, Text: "morning", Date: morning}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := store.Get(5, night); !ok {
		t.Error("lookup at a different time of the same day should hit")
	}
}

func TestSaveRejectsSecondAnswerSameDay(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Save(models.AnswerInput{QuestionID: 5, Text: "first", Date: date("2024-03-10")}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, err := store.Save(models.AnswerInput{QuestionID: 5, Text: "second", Date: date("2024-03-10")})
	if !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("expected ErrAlreadyAnswered, got %v", err)
	}

	// The original stays untouched and remains the only answer.
	if got, _ := store.Get(5, date("2024-03-10")); got.Text != "first" {
		t.Errorf("Text = %q, want %q", got.Text, "first")
	}
	if n := len(store.ListForYear(2024)); n != 1 {
		t.Errorf("ListForYear(2024) has %d answers, want 1", n)
	}
}

func TestUpdateEditsInPlace(t *testing.T) {
	store, _ := newTestStore(t)

	saved, err := store.Save(models.AnswerInput{QuestionID: 5, Text: "draft", Date: date("2024-03-10")})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	emoji := "🌞"
	mood := models.MoodGrateful
	updated, err := store.Update(models.AnswerInput{
		QuestionID: 5,
		Text:       "final",
		Date:       date("2024-03-10"),
		IsFavorite: true,
		Emoji:      &emoji,
		Mood:       &mood,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.ID != saved.ID {
		t.Error("Update should preserve the answer id")
	}
	if !updated.CreatedAt.Equal(saved.CreatedAt) {
		t.Error("Update should preserve CreatedAt")
	}
	if updated.UpdatedAt.Before(saved.UpdatedAt) {
		t.Error("Update should bump UpdatedAt")
	}

	got, _ := store.Get(5, date("2024-03-10"))
	if got.Text != "final" || !got.IsFavorite || got.Emoji == nil || *got.Emoji != "🌞" {
		t.Errorf("unexpected answer after update: %+v", got)
	}
	if n := len(store.ListForYear(2024)); n != 1 {
		t.Errorf("update produced %d answers for the day, want 1", n)
	}
}

func TestUpdateRequiresExistingAnswer(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Update(models.AnswerInput{QuestionID: 5, Text: "x", Date: date("2024-03-10")})
	if !errors.Is(err, ErrNotAnswered) {
		t.Fatalf("expected ErrNotAnswered, got %v", err)
	}
}

func TestSaveValidation(t *testing.T) {
	store, _ := newTestStore(t)
	badMood := models.Mood("furious")

	tests := []struct {
		name  string
		input models.AnswerInput
		want  error
	}{
		{"empty text", models.AnswerInput{QuestionID: 5, Text: "   "}, ErrEmptyText},
		{"question too small", models.AnswerInput{QuestionID: 0, Text: "x"}, ErrInvalidQuestion},
		{"question too large", models.AnswerInput{QuestionID: 366, Text: "x"}, ErrInvalidQuestion},
		{"unknown mood", models.AnswerInput{QuestionID: 5, Text: "x", Mood: &badMood}, ErrInvalidMood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Save(tt.input); !errors.Is(err, tt.want) {
				t.Errorf("Save(%s) error = %v, want %v", tt.name, err, tt.want)
			}
		})
	}
}

func TestSaveTrimsText(t *testing.T) {
	store, _ := newTestStore(t)

	saved, err := store.Save(models.AnswerInput{QuestionID: 5, Text: "  spaced out  ", Date: date("2024-03-10")})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Text != "spaced out" {
		t.Errorf("Text = %q, want trimmed", saved.Text)
	}
}

func TestSaveUpdatesAnsweredDaySet(t *testing.T) {
	store, provider := newTestStore(t)
	days := NewDaySet(provider)

	if days.IsAnswered(date("2024-03-10")) {
		t.Fatal("day should start unanswered")
	}
	if _, err := store.Save(models.AnswerInput{QuestionID: 5, Text: "x", Date: date("2024-03-10")}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !days.IsAnswered(date("2024-03-10")) {
		t.Error("day should be answered immediately after save")
	}
	// Same-day comparison, not exact instant
	if !days.IsAnswered(time.Date(2024, 3, 10, 17, 45, 0, 0, time.Local)) {
		t.Error("IsAnswered should ignore time-of-day")
	}
}

func TestSaveWithFavoriteFillsRegistry(t *testing.T) {
	store, provider := newTestStore(t)
	favorites := NewFavorites(provider)

	if _, err := store.Save(models.AnswerInput{QuestionID: 9, Text: "x", Date: date("2024-03-10"), IsFavorite: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !favorites.Contains(9) {
		t.Error("saving a favorite answer should register its question")
	}
}

func TestSetQuestionFavoriteCoordinatesBothConcepts(t *testing.T) {
	store, provider := newTestStore(t)
	favorites := NewFavorites(provider)

	today := time.Now()
	if _, err := store.Save(models.AnswerInput{QuestionID: 12, Text: "x", Date: today}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.SetQuestionFavorite(12, true); err != nil {
		t.Fatalf("SetQuestionFavorite: %v", err)
	}
	if !favorites.Contains(12) {
		t.Error("registry should contain the question")
	}
	if got, _ := store.Get(12, today); !got.IsFavorite {
		t.Error("today's answer should be flagged favorite")
	}

	if err := store.SetQuestionFavorite(12, false); err != nil {
		t.Fatalf("SetQuestionFavorite(off): %v", err)
	}
	if favorites.Contains(12) {
		t.Error("registry entry should be removed")
	}
	if got, _ := store.Get(12, today); got.IsFavorite {
		t.Error("today's answer flag should be cleared")
	}
}

func TestListForYearOrdering(t *testing.T) {
	store, _ := newTestStore(t)

	for _, d := range []string{"2024-06-01", "2024-01-15", "2024-03-10"} {
		if _, err := store.Save(models.AnswerInput{QuestionID: 5, Text: "x", Date: date(d)}); err != nil {
			t.Fatalf("Save(%s): %v", d, err)
		}
	}
	if _, err := store.Save(models.AnswerInput{QuestionID: 5, Text: "other year", Date: date("2023-06-01")}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	answers := store.ListForYear(2024)
	if len(answers) != 3 {
		t.Fatalf("ListForYear(2024) = %d answers, want 3", len(answers))
	}
	for i := 1; i < len(answers); i++ {
		if answers[i].Date.Before(answers[i-1].Date) {
			t.Error("ListForYear should be ascending by date")
		}
	}
}

func TestListFavoritesNewestFirst(t *testing.T) {
	store, _ := newTestStore(t)

	for _, d := range []string{"2022-06-01", "2024-06-01", "2023-06-01"} {
		if _, err := store.Save(models.AnswerInput{QuestionID: 5, Text: "x", Date: date(d), IsFavorite: true}); err != nil {
			t.Fatalf("Save(%s): %v", d, err)
		}
	}
	if _, err := store.Save(models.AnswerInput{QuestionID: 5, Text: "plain", Date: date("2024-07-01")}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	favorites := store.ListFavorites()
	if len(favorites) != 3 {
		t.Fatalf("ListFavorites = %d answers, want 3", len(favorites))
	}
	for i := 1; i < len(favorites); i++ {
		if favorites[i].Date.After(favorites[i-1].Date) {
			t.Error("ListFavorites should be descending by date")
		}
	}
}

func TestMonthlyCountsAllKeysPresent(t *testing.T) {
	store, _ := newTestStore(t)

	counts := store.MonthlyCounts(2024)
	if len(counts) != 12 {
		t.Fatalf("MonthlyCounts should have 12 keys, got %d", len(counts))
	}
	for month := time.January; month <= time.December; month++ {
		if n, ok := counts[month]; !ok || n != 0 {
			t.Errorf("month %s = %d, %v; want 0, present", month, n, ok)
		}
	}

	for _, d := range []string{"2024-03-01", "2024-03-15", "2024-07-04"} {
		if _, err := store.Save(models.AnswerInput{QuestionID: 5, Text: "x", Date: date(d)}); err != nil {
			t.Fatalf("Save(%s): %v", d, err)
		}
	}
	counts = store.MonthlyCounts(2024)
	if counts[time.March] != 2 || counts[time.July] != 1 {
		t.Errorf("unexpected counts: march=%d july=%d", counts[time.March], counts[time.July])
	}
	if store.CountForYear(2024) != 3 {
		t.Errorf("CountForYear = %d, want 3", store.CountForYear(2024))
	}
}

func TestAnswerRoundTripThroughStorage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "daybook.json")
	provider := storage.NewJSONStore(path)
	if err := provider.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	store := NewStore(provider, NewDaySet(provider), NewFavorites(provider), nil)

	emoji := "✨"
	mood := models.MoodCalm
	if _, err := store.Save(models.AnswerInput{
		QuestionID: 5, Text: "full", Date: date("2024-03-10"),
		IsFavorite: true, Emoji: &emoji, Mood: &mood,
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save(models.AnswerInput{QuestionID: 6, Text: "bare", Date: date("2024-03-11")}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Reopen from disk and compare
	reloaded := storage.NewJSONStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	store2 := NewStore(reloaded, NewDaySet(reloaded), NewFavorites(reloaded), nil)

	full, ok := store2.Get(5, date("2024-03-10"))
	if !ok {
		t.Fatal("full answer lost in round trip")
	}
	if full.Text != "full" || !full.IsFavorite || full.Emoji == nil || *full.Emoji != "✨" || full.Mood == nil || *full.Mood != models.MoodCalm {
		t.Errorf("full answer mismatch after round trip: %+v", full)
	}

	bare, ok := store2.Get(6, date("2024-03-11"))
	if !ok {
		t.Fatal("bare answer lost in round trip")
	}
	if bare.Emoji != nil || bare.Mood != nil {
		t.Errorf("absent optionals should stay absent, got emoji=%v mood=%v", bare.Emoji, bare.Mood)
	}
}

// failingProvider simulates a storage layer whose reads are broken.
type failingProvider struct {
	storage.Provider
}

func (f *failingProvider) GetAllAnswers() ([]models.Answer, error) {
	return nil, errors.New("decode failure")
}

func (f *failingProvider) GetAnsweredDays() ([]string, error) {
	return nil, errors.New("decode failure")
}

func TestReadFailuresDegradeToEmpty(t *testing.T) {
	_, inner := newTestStore(t)
	provider := &failingProvider{Provider: inner}
	store := NewStore(provider, NewDaySet(provider), NewFavorites(provider), nil)

	if _, ok := store.Get(5, date("2024-03-10")); ok {
		t.Error("Get should report absent when reads fail")
	}
	if answers := store.ListForYear(2024); len(answers) != 0 {
		t.Errorf("ListForYear should be empty when reads fail, got %d", len(answers))
	}
	if favorites := store.ListFavorites(); len(favorites) != 0 {
		t.Errorf("ListFavorites should be empty when reads fail, got %d", len(favorites))
	}
	if NewDaySet(provider).IsAnswered(date("2024-03-10")) {
		t.Error("IsAnswered should report false when reads fail")
	}
}

func TestDaySetRebuild(t *testing.T) {
	store, provider := newTestStore(t)
	days := NewDaySet(provider)

	for _, d := range []string{"2024-03-10", "2024-03-12"} {
		if _, err := store.Save(models.AnswerInput{QuestionID: 5, Text: "x", Date: date(d)}); err != nil {
			t.Fatalf("Save(%s): %v", d, err)
		}
	}

	// A rebuild over an intact set changes nothing and stays idempotent.
	if err := days.Rebuild(); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	all := days.All()
	if len(all) != 2 {
		t.Fatalf("All = %d days, want 2", len(all))
	}
	if !all[0].Before(all[1]) {
		t.Error("All should be ascending")
	}
}

// recordingScheduler captures the reminder calls issued by the store.
type recordingScheduler struct {
	scheduled []models.Answer
	cancelled []models.Answer
}

func (r *recordingScheduler) Schedule(a models.Answer) { r.scheduled = append(r.scheduled, a) }
func (r *recordingScheduler) Cancel(a models.Answer)   { r.cancelled = append(r.cancelled, a) }

func newScheduledStore(t *testing.T) (*Store, *recordingScheduler) {
	t.Helper()
	provider := storage.NewJSONStore(filepath.Join(t.TempDir(), "daybook.json"))
	if err := provider.Init(); err != nil {
		t.Fatalf("init storage: %v", err)
	}
	scheduler := &recordingScheduler{}
	return NewStore(provider, NewDaySet(provider), NewFavorites(provider), scheduler), scheduler
}

func TestSaveNotifiesScheduler(t *testing.T) {
	store, scheduler := newScheduledStore(t)

	saved, err := store.Save(models.AnswerInput{
		QuestionID: 5,
		Text:       "keep this one",
		Date:       date("2024-03-10"),
		IsFavorite: true,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(scheduler.scheduled) != 1 || len(scheduler.cancelled) != 0 {
		t.Fatalf("favorite save: scheduled=%d cancelled=%d, want 1 and 0",
			len(scheduler.scheduled), len(scheduler.cancelled))
	}
	if scheduler.scheduled[0].ID != saved.ID {
		t.Errorf("scheduled answer id = %s, want %s", scheduler.scheduled[0].ID, saved.ID)
	}

	if _, err := store.Save(models.AnswerInput{
		QuestionID: 6,
		Text:       "ordinary entry",
		Date:       date("2024-03-10"),
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(scheduler.scheduled) != 1 || len(scheduler.cancelled) != 1 {
		t.Errorf("plain save: scheduled=%d cancelled=%d, want 1 and 1",
			len(scheduler.scheduled), len(scheduler.cancelled))
	}
}

func TestUpdateUnfavoriteCancelsWithOriginalDate(t *testing.T) {
	store, scheduler := newScheduledStore(t)

	saved, err := store.Save(models.AnswerInput{
		QuestionID: 5,
		Text:       "keep this one",
		Date:       date("2024-03-10"),
		IsFavorite: true,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	// The edit carries a different time of day. Cancel must still see
	// the answer's stored Date, since the reminder id derives from it.
	if _, err := store.Update(models.AnswerInput{
		QuestionID: 5,
		Text:       "changed my mind",
		Date:       date("2024-03-10").Add(5 * time.Hour),
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(scheduler.cancelled) != 1 {
		t.Fatalf("cancelled=%d, want 1", len(scheduler.cancelled))
	}
	got := scheduler.cancelled[0]
	if got.ID != saved.ID {
		t.Errorf("cancel saw id %s, want %s", got.ID, saved.ID)
	}
	if !got.Date.Equal(saved.Date) {
		t.Errorf("cancel saw date %v, want the original %v", got.Date, saved.Date)
	}
}
