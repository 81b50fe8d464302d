package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-ps"

	"daybook/internal/calendar"
	"daybook/internal/keyring"
	"daybook/internal/notify"
	"daybook/internal/storage"
)

type DoctorCmd struct {
	Fix bool `help:"Rebuild derived data when inconsistencies are found."`
}

func (c *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	if err := checkStoreReachable(ctx); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
		storeReachable = true
	}

	if err := checkCatalog(ctx); err != nil {
		fmt.Printf("❌ Question catalog: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Question catalog: OK (%d questions)\n", ctx.Catalog.Len())
	}

	if storeReachable {
		if err := c.checkAnsweredDays(ctx); err != nil {
			fmt.Printf("❌ Answered-day index: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Answered-day index: OK\n")
		}
	} else {
		fmt.Printf("⊘ Answered-day index: SKIPPED (storage not reachable)\n")
	}

	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok && storeReachable {
		if err := checkDayKeys(sqliteStore); err != nil {
			fmt.Printf("❌ Day-key format: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Day-key format: OK\n")
		}
	}

	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	// The remaining checks are warnings: daybook works without them.
	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n")
		fmt.Printf("   Keyring unavailable; PostgreSQL credentials cannot be stored\n")
	}

	if err := notify.NewTray().Available(); err != nil {
		fmt.Printf("⚠ Tray helper: WARNING\n")
		fmt.Printf("   %v; reminders cannot be delivered on screen\n", err)
	} else {
		fmt.Printf("✓ Tray helper: OK\n")
	}

	if others, err := concurrentProcesses(); err != nil {
		fmt.Printf("⚠ Process check: WARNING\n")
		fmt.Printf("   could not scan process table: %v\n", err)
	} else if others > 0 {
		fmt.Printf("⚠ Concurrent processes: WARNING\n")
		fmt.Printf("   %d other daybook processes running; the journal assumes a single writer\n", others)
	} else {
		fmt.Printf("✓ Single process: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

func checkCatalog(ctx *Context) error {
	if ctx.Catalog.Len() < 365 {
		return fmt.Errorf("catalog has %d questions, expected at least 365", ctx.Catalog.Len())
	}
	for day := 1; day <= 365; day++ {
		if _, ok := ctx.Catalog.QuestionForDay(day); !ok {
			return fmt.Errorf("no question assigned to day %d", day)
		}
	}
	return nil
}

// checkAnsweredDays verifies the derived day index covers every stored
// answer. With --fix it is rebuilt from the answers.
func (c *DoctorCmd) checkAnsweredDays(ctx *Context) error {
	answers, err := ctx.Store.GetAllAnswers()
	if err != nil {
		return fmt.Errorf("failed to read answers: %w", err)
	}

	missing := 0
	for _, a := range answers {
		if !ctx.Days.IsAnswered(a.Date) {
			missing++
		}
	}
	if missing == 0 {
		return nil
	}

	if c.Fix {
		if err := ctx.Days.Rebuild(); err != nil {
			return fmt.Errorf("rebuild failed: %w", err)
		}
		fmt.Printf("   Rebuilt index, recovered %d missing days\n", missing)
		return nil
	}
	return fmt.Errorf("%d answered days missing from the index (run 'daybook doctor --fix')", missing)
}

// checkDayKeys scans the SQLite day columns for values that are not
// YYYY-MM-DD. The app only ever writes that shape; hand-edited
// databases are where malformed keys come from.
func checkDayKeys(store *storage.SQLiteStore) error {
	db := store.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	for _, table := range []string{"answers", "answered_days"} {
		var invalid int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE day NOT LIKE '____-__-__'", table)
		if err := db.QueryRow(query).Scan(&invalid); err != nil {
			return fmt.Errorf("failed to scan %s: %w", table, err)
		}
		if invalid > 0 {
			return fmt.Errorf("%s has %d rows with malformed day keys", table, invalid)
		}
	}
	return nil
}

// concurrentProcesses counts other live daybook processes. The tray
// helper ("daybook-tray") does not count; it never writes the journal.
func concurrentProcesses() (int, error) {
	processes, err := ps.Processes()
	if err != nil {
		return 0, err
	}
	self := os.Getpid()
	others := 0
	for _, p := range processes {
		if p.Pid() != self && p.Executable() == "daybook" {
			others++
		}
	}
	return others, nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if calendar.DayOfYear(now) < 1 {
		return fmt.Errorf("cannot derive day of year from %s", now.Format(time.RFC3339))
	}
	return nil
}
