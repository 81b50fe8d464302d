package cli

import (
	"fmt"

	"daybook/internal/models"
)

type CapsuleCmd struct {
	Date     string `help:"Look back from a specific date (YYYY-MM-DD) instead of today."`
	Question int    `help:"Look up a specific question id instead of the day's question."`
	Years    int    `help:"How many years to look back. Defaults to the configured depth."`
}

func (c *CapsuleCmd) Run(ctx *Context) error {
	date, err := ParseDate(c.Date)
	if err != nil {
		return err
	}

	questionID := c.Question
	var questionText string
	if questionID == 0 {
		question, err := ctx.QuestionForDate(date)
		if err != nil {
			return err
		}
		questionID = question.ID
		questionText = question.Text
	} else if question, ok := ctx.Catalog.QuestionByID(questionID); ok {
		questionText = question.Text
	}

	years := c.Years
	if years <= 0 {
		years = capsuleYears(ctx)
	}

	answers := ctx.Capsule.LookupPastYears(questionID, date, years)
	if len(answers) == 0 {
		fmt.Printf("No memories for Q%d on this day in past years.\n", questionID)
		return nil
	}

	if questionText != "" {
		fmt.Printf("Q%d: %s\n\n", questionID, questionText)
	}
	fmt.Printf("On this day...\n")
	for _, answer := range answers {
		yearsAgo := date.Year() - answer.Date.Year()
		label := fmt.Sprintf("%d years ago", yearsAgo)
		if yearsAgo == 1 {
			label = "1 year ago"
		}
		fmt.Printf("\n%s:\n", label)
		fmt.Println(FormatAnswer(answer, models.Question{}))
	}
	return nil
}
