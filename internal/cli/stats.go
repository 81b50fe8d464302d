package cli

import (
	"fmt"
	"strings"
	"time"
)

type StatsCmd struct {
	Year int `help:"Year to summarize. Defaults to the current year."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	year := c.Year
	if year == 0 {
		year = time.Now().Year()
	}

	total := ctx.Journal.CountForYear(year)
	fmt.Printf("%d: %d answers, %d favorite questions\n\n", year, total, len(ctx.Favorites.List()))

	counts := ctx.Journal.MonthlyCounts(year)
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}

	for month := time.January; month <= time.December; month++ {
		fmt.Printf("%s %s %d\n", month.String()[:3], monthBar(counts[month], max), counts[month])
	}
	return nil
}

// monthBar renders a proportional bar scaled so the busiest month fills
// the full width.
func monthBar(count, max int) string {
	const width = 30
	if max == 0 || count == 0 {
		return strings.Repeat("·", width)
	}
	filled := count * width / max
	if filled == 0 {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat("·", width-filled)
}
