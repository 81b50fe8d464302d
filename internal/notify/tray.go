package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"
)

const (
	trayAppIdentifier      = "daybook-tray"
	trayLockfileName       = "daybook-tray.lock"
	notificationDurationMs = 8000
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// Tray delivers a notification through the daybook tray helper, found
// via its lockfile and validated against the live process table.
type Tray struct{}

type webhookPayload struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func NewTray() *Tray {
	return &Tray{}
}

// Notify shows a notification. It fails when the tray helper is not
// running; callers treat that as best-effort.
func (t *Tray) Notify(title, text string) error {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return fmt.Errorf("failed to get user config dir: %w", err)
	}

	lockfilePath := filepath.Join(configDir, trayAppIdentifier, trayLockfileName)
	port, secret, err := findAndValidateTrayProcess(lockfilePath)
	if err != nil {
		return err
	}

	payload := webhookPayload{
		Title:      title,
		Text:       text,
		DurationMs: notificationDurationMs,
	}

	return sendNotification(port, secret, payload)
}

// Available reports whether the tray helper can receive notifications
// right now, without sending one.
func (t *Tray) Available() error {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return fmt.Errorf("failed to get user config dir: %w", err)
	}

	lockfilePath := filepath.Join(configDir, trayAppIdentifier, trayLockfileName)
	_, _, err = findAndValidateTrayProcess(lockfilePath)
	return err
}

func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", errors.New("daybook-tray is not running")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := parts[0]
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", errors.New("daybook-tray process not running")
	}
	if !strings.HasPrefix(process.Executable(), trayAppIdentifier) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, trayAppIdentifier, process.Executable())
	}

	return port, secret, nil
}

func sendNotification(port string, secret string, payload webhookPayload) error {
	url := fmt.Sprintf("http://127.0.0.1:%s", port)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Daybook-Secret", secret)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}
