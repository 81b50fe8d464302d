package cli

import "fmt"

type TodayCmd struct {
	Date string `help:"Show the question for a specific date (YYYY-MM-DD) instead of today."`
}

func (c *TodayCmd) Run(ctx *Context) error {
	date, err := ParseDate(c.Date)
	if err != nil {
		return err
	}

	question, err := ctx.QuestionForDate(date)
	if err != nil {
		return err
	}

	fmt.Printf("%s · Day %d\n", date.Format("Monday, January 2 2006"), date.YearDay())
	fmt.Printf("Q%d [%s]: %s\n", question.ID, question.Category, question.Text)

	if ctx.Favorites.Contains(question.ID) {
		fmt.Println("★ This question is a favorite")
	}

	if answer, ok := ctx.Journal.Get(question.ID, date); ok {
		fmt.Println()
		fmt.Println(FormatAnswer(answer, question))
	} else {
		fmt.Println()
		fmt.Println("Not answered yet. Run 'daybook answer' to write one.")
	}

	past := ctx.Capsule.LookupPastYears(question.ID, date, capsuleYears(ctx))
	if len(past) > 0 {
		fmt.Printf("\n%d memories from past years. Run 'daybook capsule' to read them.\n", len(past))
	}
	return nil
}

// capsuleYears reads the configured look-back depth, falling back to
// the default when settings cannot be read.
func capsuleYears(ctx *Context) int {
	settings, err := ctx.Store.GetSettings()
	if err != nil || settings.CapsuleYears < 1 {
		return 0
	}
	return settings.CapsuleYears
}
