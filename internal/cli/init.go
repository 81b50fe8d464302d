package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"daybook/internal/keyring"
)

type InitCmd struct {
	Force bool   `help:"Force reset by deleting existing storage before initialization."`
	DSN   string `help:"PostgreSQL connection string to store in the OS keyring. Future runs will use it automatically."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.DSN != "" {
		if !strings.HasPrefix(c.DSN, "postgres://") &&
			!strings.HasPrefix(c.DSN, "postgresql://") &&
			!strings.Contains(c.DSN, "host=") {
			return errors.New("--dsn must be a valid PostgreSQL connection string")
		}
		if err := keyring.SetConnectionString(c.DSN); err != nil {
			if errors.Is(err, keyring.ErrKeyringUnavailable) {
				return fmt.Errorf("cannot store connection string: %w", err)
			}
			return fmt.Errorf("failed to store connection string in keyring: %w", err)
		}
		fmt.Println("✓ Connection string stored in OS keyring")
	}

	if c.Force {
		path := ctx.Store.GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing storage: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing storage: %w", err)
			}
			fmt.Printf("Deleted existing storage at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing storage: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized daybook storage at: %s\n", ctx.Store.GetConfigPath())
	fmt.Printf("Loaded %d questions\n", ctx.Catalog.Len())
	return nil
}
