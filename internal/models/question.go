package models

// QuestionCategory groups catalog questions by theme.
type QuestionCategory string

const (
	CategorySelfReflection QuestionCategory = "self_reflection"
	CategoryRelationships  QuestionCategory = "relationships"
	CategoryGoals          QuestionCategory = "goals"
	CategoryGratitude      QuestionCategory = "gratitude"
	CategoryCreativity     QuestionCategory = "creativity"
	CategoryLifestyle      QuestionCategory = "lifestyle"
	CategoryEmotions       QuestionCategory = "emotions"
	CategoryMemories       QuestionCategory = "memories"
	CategoryFuture         QuestionCategory = "future"
	CategoryGrowth         QuestionCategory = "personal_growth"
)

// Question is one entry in the read-only 365-question catalog.
type Question struct {
	ID        int              `json:"id"`
	Text      string           `json:"text"`
	Category  QuestionCategory `json:"category,omitempty"`
	DayOfYear int              `json:"day_of_year"` // 1..365
}
