package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"

	"daybook/internal/catalog"
	"daybook/internal/cli"
	"daybook/internal/journal"
	"daybook/internal/keyring"
	"daybook/internal/logger"
	"daybook/internal/notify"
	"daybook/internal/reminder"
	"daybook/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage path (.db for SQLite, .json for a plain JSON document) or PostgreSQL connection string. A connection string stored in the OS keyring takes precedence." default:"~/.config/daybook/daybook.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init      cli.InitCmd    `cmd:"" help:"Initialize daybook storage."`
	Today     cli.TodayCmd   `cmd:"" help:"Show today's question."`
	Answer    cli.AnswerCmd  `cmd:"" help:"Answer today's question."`
	Capsule   cli.CapsuleCmd `cmd:"" help:"Read your answers to today's question from past years."`
	History   cli.HistoryCmd `cmd:"" help:"List answers for a year."`
	Stats     cli.StatsCmd   `cmd:"" help:"Show answering statistics."`
	Doctor    cli.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui       cli.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Favorites struct {
		List     cli.FavoriteListCmd     `cmd:"" help:"List favorite questions." default:"1"`
		Add      cli.FavoriteAddCmd      `cmd:"" help:"Favorite a question."`
		Remove   cli.FavoriteRemoveCmd   `cmd:"" help:"Unfavorite a question."`
		Schedule cli.FavoriteScheduleCmd `cmd:"" help:"Show when favorite questions recur."`
	} `cmd:"" help:"Manage favorite questions."`
	Reminders struct {
		List  cli.ReminderListCmd  `cmd:"" help:"List scheduled reminders." default:"1"`
		Purge cli.ReminderPurgeCmd `cmd:"" help:"Remove reminders whose fire time has passed."`
		Fire  cli.ReminderFireCmd  `cmd:"" hidden:"" help:"Deliver due reminders (used internally)."`
	} `cmd:"" help:"Manage anniversary reminders."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("daybook"),
		kong.Description("Daily question journal with a time capsule of past years"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.3.0"},
	)

	path := expandHome(CLI.Config)
	configDir := filepath.Dir(path)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	store := selectStore(path)

	questions, err := catalog.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	days := journal.NewDaySet(store)
	favorites := journal.NewFavorites(store)
	notifier := notify.NewLocalNotifier(store, promptForPermission)

	// The scheduler re-checks the current favorite state through the
	// journal store, which itself notifies the scheduler. Bind through
	// a pointer assigned right below.
	var journalStore *journal.Store
	scheduler := reminder.New(notifier, func(questionID int, date time.Time) bool {
		answer, ok := journalStore.Get(questionID, date)
		return ok && answer.IsFavorite
	})
	journalStore = journal.NewStore(store, days, favorites, scheduler)

	appCtx := &cli.Context{
		Store:     store,
		Catalog:   questions,
		Journal:   journalStore,
		Capsule:   journal.NewCapsule(journalStore),
		Favorites: favorites,
		Days:      days,
		Scheduler: scheduler,
		Notifier:  notifier,
	}

	// Init handles its own loading; everything else needs the store up
	// front.
	if !CLI.Init.Force && ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	runErr := ctx.Run(appCtx)

	// Background reminder registrations must settle before exit.
	scheduler.Wait()
	if err := store.Close(); err != nil {
		logger.Warn("failed to close storage", "error", err)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

// selectStore picks the storage backend: an explicit --dsn on init,
// then a keyring connection string, then the config path's format.
func selectStore(path string) storage.Provider {
	if CLI.Init.DSN != "" {
		return storage.NewPostgresStore(CLI.Init.DSN)
	}
	if dsn, err := keyring.GetConnectionString(); err == nil {
		return storage.NewPostgresStore(dsn)
	} else if !errors.Is(err, keyring.ErrNotFound) {
		logger.Debug("keyring lookup failed", "error", err)
	}
	if strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://") {
		return storage.NewPostgresStore(path)
	}
	if strings.HasSuffix(path, ".json") {
		return storage.NewJSONStore(path)
	}
	return storage.NewSQLiteStore(path)
}

func promptForPermission() (bool, error) {
	granted := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Allow daybook to schedule anniversary reminders?").
				Description("Favorited answers resurface one year later.").
				Value(&granted),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return granted, nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
