package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/config"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func validTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Webhook.Secret = "a-long-enough-test-secret"
	cfg.Chat.BaseURL = "https://chat.example.com"
	cfg.Chat.UserID = "bot"
	cfg.Chat.AuthToken = "token"
	cfg.RFD.ParentChannel = "rfd"
	cfg.State.Path = filepath.Join(t.TempDir(), "state.db")
	return cfg
}

func TestValidateHealthy(t *testing.T) {
	d := New(validTestConfig(t), "", stubPinger{})
	r := d.Validate(context.Background())

	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
}

func TestValidateInvalidConfig(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.Chat.BaseURL = ""

	r := New(cfg, "", nil).Validate(context.Background())
	assert.False(t, r.Valid)
	require.NotEmpty(t, r.Errors)
	assert.Equal(t, "config", r.Errors[0].Category)
}

func TestValidateShortSecretWarns(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.Webhook.Secret = "short"

	r := New(cfg, "", nil).Validate(context.Background())
	assert.True(t, r.Valid)
	require.NotEmpty(t, r.Warnings)
	assert.Equal(t, "secrets", r.Warnings[0].Category)
}

func TestValidateChatUnreachableWarns(t *testing.T) {
	d := New(validTestConfig(t), "", stubPinger{err: errors.New("connection refused")})
	r := d.Validate(context.Background())

	assert.True(t, r.Valid, "unreachable chat must not fail validation")
	found := false
	for _, w := range r.Warnings {
		if w.Category == "chat" {
			found = true
		}
	}
	assert.True(t, found, "expected a chat warning")
}

func TestValidateMissingStateDirWarns(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.State.Path = filepath.Join(t.TempDir(), "nested", "deeper", "state.db")

	r := New(cfg, "", nil).Validate(context.Background())
	assert.True(t, r.Valid)
	found := false
	for _, w := range r.Warnings {
		if w.Category == "state" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateTamperedManifest(t *testing.T) {
	cfg := validTestConfig(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0600))
	_, err := config.Lock(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("a: 2\n"), 0600))

	r := New(cfg, path, nil).Validate(context.Background())
	assert.False(t, r.Valid)
	found := false
	for _, e := range r.Errors {
		if e.Category == "integrity" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFormatHuman(t *testing.T) {
	r := &Result{Valid: true}
	assert.Contains(t, FormatHuman(r), "Configuration valid.")

	r = &Result{
		Errors:   []Issue{{Category: "config", Message: "boom"}},
		Warnings: []Issue{{Category: "chat", Field: "chat.base_url", Message: "unreachable"}},
	}
	out := FormatHuman(r)
	assert.Contains(t, out, "Configuration invalid (1 error(s), 1 warning(s))")
	assert.Contains(t, out, "ERROR [config] boom")
	assert.Contains(t, out, "WARN  [chat] chat.base_url: unreachable")
}
