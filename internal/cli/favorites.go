package cli

import (
	"fmt"
	"time"
)

type FavoriteListCmd struct{}

func (c *FavoriteListCmd) Run(ctx *Context) error {
	ids := ctx.Favorites.List()
	if len(ids) == 0 {
		fmt.Println("No favorite questions yet. Use 'daybook favorites add <id>'.")
		return nil
	}

	for _, id := range ids {
		if question, ok := ctx.Catalog.QuestionByID(id); ok {
			fmt.Printf("★ Q%d [%s]: %s\n", question.ID, question.Category, question.Text)
		} else {
			fmt.Printf("★ Q%d\n", id)
		}
	}
	return nil
}

type FavoriteAddCmd struct {
	ID int `arg:"" help:"Question id to favorite."`
}

func (c *FavoriteAddCmd) Run(ctx *Context) error {
	if _, ok := ctx.Catalog.QuestionByID(c.ID); !ok {
		return fmt.Errorf("unknown question id %d", c.ID)
	}
	if err := ctx.Journal.SetQuestionFavorite(c.ID, true); err != nil {
		return err
	}
	fmt.Printf("★ Q%d added to favorites\n", c.ID)
	return nil
}

type FavoriteRemoveCmd struct {
	ID int `arg:"" help:"Question id to unfavorite."`
}

func (c *FavoriteRemoveCmd) Run(ctx *Context) error {
	if err := ctx.Journal.SetQuestionFavorite(c.ID, false); err != nil {
		return err
	}
	fmt.Printf("Q%d removed from favorites\n", c.ID)
	return nil
}

type FavoriteScheduleCmd struct {
	Year int `help:"Year to project occurrences onto. Defaults to the current year."`
}

func (c *FavoriteScheduleCmd) Run(ctx *Context) error {
	year := c.Year
	if year == 0 {
		year = time.Now().Year()
	}

	scheduled := ctx.Favorites.ListWithSchedule(year, ctx.Catalog)
	if len(scheduled) == 0 {
		fmt.Println("No favorite questions to schedule.")
		return nil
	}

	fmt.Printf("Favorite questions in %d:\n", year)
	for _, entry := range scheduled {
		fmt.Printf("  %s  Q%d: %s\n",
			entry.OccursOn.Format("Jan 02"), entry.Question.ID, entry.Question.Text)
	}
	return nil
}
