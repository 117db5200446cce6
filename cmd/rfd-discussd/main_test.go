package main

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/config"
)

func captureOutputWithExitCode(t *testing.T, run func() int) (int, string, string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe stdout failed: %v", err)
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe stderr failed: %v", err)
	}

	os.Stdout = stdoutW
	os.Stderr = stderrW

	code := run()

	_ = stdoutW.Close()
	_ = stderrW.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	stdoutBytes, _ := io.ReadAll(stdoutR)
	stderrBytes, _ := io.ReadAll(stderrR)

	_ = stdoutR.Close()
	_ = stderrR.Close()

	return code, string(stdoutBytes), string(stderrBytes)
}

func writeTestConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	configYAML := `
state:
  path: ` + filepath.Join(dir, "state.db") + `
webhook:
  listen: "127.0.0.1:0"
  secret: a-long-enough-test-secret
chat:
  base_url: https://chat.example.com
  user_id: bot
  auth_token: token
rfd:
  parent_channel: rfd
`
	if err := os.WriteFile(configPath, []byte(configYAML), 0600); err != nil {
		t.Fatal(err)
	}
	return configPath
}

func TestRunConfigLock(t *testing.T) {
	configPath := writeTestConfig(t)

	code, stdout, stderr := captureOutputWithExitCode(t, func() int {
		return runConfigLock([]string{"--config", configPath})
	})
	if code != 0 {
		t.Fatalf("runConfigLock() code = %d, stderr: %s", code, stderr)
	}

	if !strings.Contains(stdout, "Locked "+configPath) {
		t.Fatalf("stdout missing lock confirmation: %s", stdout)
	}
	hashPattern := regexp.MustCompile(`hash: [a-f0-9]{64}`)
	if !hashPattern.MatchString(stdout) {
		t.Fatalf("stdout missing valid hash output: %s", stdout)
	}

	if _, err := os.Stat(configPath + ".lock"); err != nil {
		t.Fatalf("expected manifest to be written: %v", err)
	}
}

func TestRunConfigLockMissingFile(t *testing.T) {
	code, _, stderr := captureOutputWithExitCode(t, func() int {
		return runConfigLock([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")})
	})
	if code != 1 {
		t.Fatalf("runConfigLock() code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "Failed to lock config") {
		t.Fatalf("stderr missing failure message: %s", stderr)
	}
}

func TestRunDoctorMissingConfig(t *testing.T) {
	code, _, stderr := captureOutputWithExitCode(t, func() int {
		return runDoctor([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")})
	})
	if code != 1 {
		t.Fatalf("runDoctor() code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "Config load error") {
		t.Fatalf("stderr missing load error: %s", stderr)
	}
}

func TestRunConfigNounUnknownAction(t *testing.T) {
	code, _, stderr := captureOutputWithExitCode(t, func() int {
		return runConfigNoun([]string{"frobnicate"})
	})
	if code != 1 {
		t.Fatalf("runConfigNoun() code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "Unknown config action") {
		t.Fatalf("stderr missing unknown action message: %s", stderr)
	}
}

func TestPrintUsageListsCommands(t *testing.T) {
	_, stdout, _ := captureOutputWithExitCode(t, func() int {
		printUsage()
		return 0
	})
	for _, want := range []string{"start", "watch", "doctor", "config lock", "config check"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("usage missing %q: %s", want, stdout)
		}
	}
}

func TestGetPIDLockPath(t *testing.T) {
	cfg := config.Defaults()
	cfg.State.Path = "/var/lib/rfd/state.db"

	got := getPIDLockPath(cfg)
	if got != "/var/lib/rfd/state.pid" {
		t.Fatalf("getPIDLockPath() = %q, want /var/lib/rfd/state.pid", got)
	}
}
