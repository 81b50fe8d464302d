package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"daybook/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	model := tui.NewModel(tui.Deps{
		Journal:   ctx.Journal,
		Capsule:   ctx.Capsule,
		Favorites: ctx.Favorites,
		Catalog:   ctx.Catalog,
		Days:      ctx.Days,
		Settings:  func() int { return capsuleYears(ctx) },
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}
