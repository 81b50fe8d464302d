// Package notify carries the two halves of reminder delivery: a local
// notifier that persists registrations next to the journal, and the
// tray webhook used to actually show due reminders on screen.
package notify

import (
	"context"
	"fmt"

	"daybook/internal/models"
	"daybook/internal/reminder"
	"daybook/internal/storage"
)

// PromptFunc asks the user whether notifications may be shown. It runs
// at most once; the decision is persisted in settings afterwards.
type PromptFunc func() (bool, error)

// LocalNotifier registers reminders in the journal's own store and
// keeps the permission decision in settings. Delivery of due reminders
// is the tray's job; see Tray.
type LocalNotifier struct {
	provider storage.Provider
	prompt   PromptFunc
}

func NewLocalNotifier(provider storage.Provider, prompt PromptFunc) *LocalNotifier {
	return &LocalNotifier{
		provider: provider,
		prompt:   prompt,
	}
}

// RequestPermission resolves the stored permission state, asking the
// user once when it is still undetermined and a prompt is available.
// Without a prompt (non-interactive runs) an undetermined state stays
// pending and nothing is registered.
func (n *LocalNotifier) RequestPermission(ctx context.Context) (reminder.PermissionState, error) {
	settings, err := n.provider.GetSettings()
	if err != nil {
		return reminder.PermissionPending, fmt.Errorf("failed to read settings: %w", err)
	}

	switch settings.Permission {
	case "granted":
		return reminder.PermissionGranted, nil
	case "denied":
		return reminder.PermissionDenied, nil
	}

	if n.prompt == nil {
		return reminder.PermissionPending, nil
	}

	granted, err := n.prompt()
	if err != nil {
		return reminder.PermissionPending, fmt.Errorf("permission prompt failed: %w", err)
	}

	if granted {
		settings.Permission = "granted"
	} else {
		settings.Permission = "denied"
	}
	if err := n.provider.SaveSettings(settings); err != nil {
		return reminder.PermissionPending, fmt.Errorf("failed to persist permission: %w", err)
	}

	if granted {
		return reminder.PermissionGranted, nil
	}
	return reminder.PermissionDenied, nil
}

func (n *LocalNotifier) Register(r models.Reminder) error {
	return n.provider.SaveReminder(r)
}

func (n *LocalNotifier) Cancel(id string) error {
	return n.provider.DeleteReminder(id)
}

func (n *LocalNotifier) Pending() ([]models.Reminder, error) {
	return n.provider.GetReminders()
}
