package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"daybook/internal/journal"
	"daybook/internal/models"
)

type AnswerCmd struct {
	Text     string `help:"Answer text. When omitted an interactive form opens."`
	Emoji    string `help:"Optional emoji to attach."`
	Mood     string `help:"Optional mood (e.g. happy, grateful, thoughtful)."`
	Favorite bool   `help:"Mark the answer as a favorite."`
	Date     string `help:"Answer for a specific date (YYYY-MM-DD) instead of today."`
	Question int    `help:"Answer a specific question id instead of the day's question."`
	Edit     bool   `help:"Edit the existing answer for the day instead of creating one."`
}

func (c *AnswerCmd) Run(ctx *Context) error {
	date, err := ParseDate(c.Date)
	if err != nil {
		return err
	}

	question, err := c.resolveQuestion(ctx, date)
	if err != nil {
		return err
	}

	input := models.AnswerInput{
		QuestionID: question.ID,
		Text:       c.Text,
		Date:       date,
		IsFavorite: c.Favorite,
	}
	if c.Emoji != "" {
		emoji := c.Emoji
		input.Emoji = &emoji
	}
	input.Mood, err = ParseMood(c.Mood)
	if err != nil {
		return err
	}

	if strings.TrimSpace(input.Text) == "" {
		if err := c.fillFromForm(ctx, question, &input); err != nil {
			return err
		}
	}

	var answer models.Answer
	if c.Edit {
		answer, err = ctx.Journal.Update(input)
	} else {
		answer, err = ctx.Journal.Save(input)
	}
	if err != nil {
		if errors.Is(err, journal.ErrAlreadyAnswered) {
			return fmt.Errorf("%w. Use --edit to change it", err)
		}
		return err
	}

	fmt.Printf("Saved answer for Q%d on %s\n", answer.QuestionID, answer.Date.Format("2006-01-02"))
	if answer.IsFavorite {
		fmt.Println("★ Marked as favorite. You'll be reminded of this memory next year.")
	}
	return nil
}

func (c *AnswerCmd) resolveQuestion(ctx *Context, date time.Time) (models.Question, error) {
	if c.Question != 0 {
		question, ok := ctx.Catalog.QuestionByID(c.Question)
		if !ok {
			return models.Question{}, fmt.Errorf("unknown question id %d", c.Question)
		}
		return question, nil
	}
	question, ok := ctx.Catalog.QuestionForDay(date.YearDay())
	if !ok {
		return models.Question{}, fmt.Errorf("no question for day %d of the year", date.YearDay())
	}
	return question, nil
}

// fillFromForm gathers the missing answer fields interactively.
func (c *AnswerCmd) fillFromForm(ctx *Context, question models.Question, input *models.AnswerInput) error {
	if existing, ok := ctx.Journal.Get(question.ID, input.Date); ok && c.Edit {
		input.Text = existing.Text
		input.IsFavorite = existing.IsFavorite
	}

	moodOptions := []huh.Option[string]{huh.NewOption("None", "")}
	for _, m := range models.AllMoods {
		moodOptions = append(moodOptions, huh.NewOption(m.Label(), string(m)))
	}

	var mood, emoji string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(question.Text).
				Value(&input.Text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("answer cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Mood").
				Options(moodOptions...).
				Value(&mood),
			huh.NewInput().
				Title("Emoji").
				Value(&emoji),
			huh.NewConfirm().
				Title("Favorite this memory?").
				Value(&input.IsFavorite),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return err
	}

	if mood != "" {
		m := models.Mood(mood)
		input.Mood = &m
	}
	if emoji != "" {
		input.Emoji = &emoji
	}
	return nil
}
