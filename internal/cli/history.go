package cli

import (
	"fmt"
	"time"

	"daybook/internal/models"
)

type HistoryCmd struct {
	Year      int  `help:"Year to list. Defaults to the current year."`
	Favorites bool `help:"Only show favorited answers."`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	year := c.Year
	if year == 0 {
		year = time.Now().Year()
	}

	var answers []models.Answer
	if c.Favorites {
		answers = ctx.Journal.ListFavorites()
	} else {
		answers = ctx.Journal.ListForYear(year)
	}

	if len(answers) == 0 {
		fmt.Println("No answers recorded.")
		return nil
	}

	for i, answer := range answers {
		if i > 0 {
			fmt.Println()
		}
		question, _ := ctx.Catalog.QuestionByID(answer.QuestionID)
		fmt.Println(FormatAnswer(answer, question))
	}
	fmt.Printf("\n%d answers\n", len(answers))
	return nil
}
