package cli

import (
	"fmt"
	"time"

	"daybook/internal/notify"
)

type ReminderListCmd struct{}

func (c *ReminderListCmd) Run(ctx *Context) error {
	pending, err := ctx.Notifier.Pending()
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}
	if len(pending) == 0 {
		fmt.Println("No scheduled reminders.")
		return nil
	}

	for _, r := range pending {
		line := fmt.Sprintf("%s  Q%d", r.FiresAt.Format("2006-01-02"), r.QuestionID)
		if question, ok := ctx.Catalog.QuestionByID(r.QuestionID); ok {
			line += "  " + question.Text
		}
		fmt.Println(line)
	}
	return nil
}

type ReminderPurgeCmd struct{}

func (c *ReminderPurgeCmd) Run(ctx *Context) error {
	purged := ctx.Scheduler.PurgeStale(time.Now())
	fmt.Printf("Purged %d stale reminders\n", purged)
	return nil
}

// ReminderFireCmd delivers due reminders through the tray helper. It is
// meant to be run from a scheduler (cron, systemd timer), not by hand.
type ReminderFireCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *ReminderFireCmd) Run(ctx *Context) error {
	pending, err := ctx.Notifier.Pending()
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}

	now := time.Now()
	tray := notify.NewTray()
	fired := 0
	for _, r := range pending {
		if r.FiresAt.After(now) {
			continue
		}

		title := "A memory from a year ago"
		text := "You favorited an answer on this day last year."
		if question, ok := ctx.Catalog.QuestionByID(r.QuestionID); ok {
			text = question.Text
		}

		if c.DryRun {
			fmt.Printf("[DryRun] %s: %s\n", title, text)
			fired++
			continue
		}

		if err := tray.Notify(title, text); err != nil {
			fmt.Printf("Failed to send notification: %v\n", err)
			continue
		}

		// Delivered reminders are one-shot.
		if err := ctx.Notifier.Cancel(r.ID); err != nil {
			fmt.Printf("Failed to clear delivered reminder %s: %v\n", r.ID, err)
			continue
		}
		fired++
	}

	if c.DryRun || fired > 0 {
		fmt.Printf("Fired %d reminders\n", fired)
	}
	return nil
}
