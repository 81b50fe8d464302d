package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-ps"
)

type fakeProcess struct {
	pid        int
	executable string
}

func (p *fakeProcess) Pid() int           { return p.pid }
func (p *fakeProcess) PPid() int          { return 0 }
func (p *fakeProcess) Executable() string { return p.executable }

func writeLockfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), trayLockfileName)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func withFindProcess(t *testing.T, fn func(pid int) (ps.Process, error)) {
	t.Helper()
	orig := findProcessFunc
	findProcessFunc = fn
	t.Cleanup(func() { findProcessFunc = orig })
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	withFindProcess(t, func(pid int) (ps.Process, error) {
		return &fakeProcess{pid: pid, executable: trayAppIdentifier}, nil
	})

	path := writeLockfile(t, "8432|1234|s3cret")
	port, secret, err := findAndValidateTrayProcess(path)
	if err != nil {
		t.Fatalf("findAndValidateTrayProcess: %v", err)
	}
	if port != "8432" || secret != "s3cret" {
		t.Errorf("got port=%s secret=%s", port, secret)
	}
}

func TestFindAndValidateTrayProcessMissingLockfile(t *testing.T) {
	_, _, err := findAndValidateTrayProcess(filepath.Join(t.TempDir(), "nope.lock"))
	if err == nil {
		t.Error("missing lockfile should fail")
	}
}

func TestFindAndValidateTrayProcessMalformed(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"too few fields", "8432|1234"},
		{"bad port", "notaport|1234|s3cret"},
		{"port out of range", "70000|1234|s3cret"},
		{"bad pid", "8432|nan|s3cret"},
		{"empty secret", "8432|1234| "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeLockfile(t, tc.content)
			if _, _, err := findAndValidateTrayProcess(path); err == nil {
				t.Errorf("content %q should be rejected", tc.content)
			}
		})
	}
}

func TestFindAndValidateTrayProcessDeadProcess(t *testing.T) {
	withFindProcess(t, func(pid int) (ps.Process, error) {
		return nil, nil
	})

	path := writeLockfile(t, "8432|1234|s3cret")
	if _, _, err := findAndValidateTrayProcess(path); err == nil {
		t.Error("dead process should fail validation")
	}
}

func TestFindAndValidateTrayProcessWrongExecutable(t *testing.T) {
	withFindProcess(t, func(pid int) (ps.Process, error) {
		return &fakeProcess{pid: pid, executable: "impostor"}, nil
	})

	path := writeLockfile(t, "8432|1234|s3cret")
	_, _, err := findAndValidateTrayProcess(path)
	if err == nil {
		t.Fatal("foreign executable should fail validation")
	}
	want := fmt.Sprintf("not %s", trayAppIdentifier)
	if got := err.Error(); !strings.Contains(got, want) {
		t.Errorf("error %q should mention %q", got, want)
	}
}
