// Package doctor validates rfd-discussd configuration and connectivity.
package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/config"
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Issue describes a single validation error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// Pinger is the slice of the chat client the doctor needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Doctor validates a loaded configuration and probes the chat server.
type Doctor struct {
	cfg        *config.Config
	configPath string
	chat       Pinger
}

// New creates a Doctor. chat may be nil to skip connectivity checks.
func New(cfg *config.Config, configPath string, chat Pinger) *Doctor {
	return &Doctor{cfg: cfg, configPath: configPath, chat: chat}
}

// Validate runs all checks and returns a result.
func (d *Doctor) Validate(ctx context.Context) *Result {
	r := &Result{Valid: true}

	d.checkConfig(r)
	d.checkIntegrity(r)
	d.checkStateDir(r)
	d.checkSecrets(r)
	d.checkChat(ctx, r)

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

// checkConfig re-runs structural validation so a doctor run reports every
// problem instead of stopping at load time.
func (d *Doctor) checkConfig(r *Result) {
	if err := d.cfg.Validate(); err != nil {
		d.addError(r, "config", "", err.Error())
	}
}

// checkIntegrity verifies the checksum manifest when one exists.
func (d *Doctor) checkIntegrity(r *Result) {
	if d.configPath == "" {
		return
	}
	ok, err := config.Verify(d.configPath)
	if err != nil {
		d.addError(r, "integrity", "", err.Error())
		return
	}
	if !ok {
		d.addWarning(r, "integrity", "",
			"no checksum manifest found; run 'rfd-discussd config lock' to enable integrity verification")
	}
}

// checkStateDir verifies the state database directory exists and is writable.
func (d *Doctor) checkStateDir(r *Result) {
	if d.cfg.State.Path == "" {
		return // checkConfig already reported it
	}
	dir := filepath.Dir(d.cfg.State.Path)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			d.addWarning(r, "state", "state.path",
				fmt.Sprintf("state directory %s does not exist; it will be created on start", dir))
			return
		}
		d.addError(r, "state", "state.path", fmt.Sprintf("stat state directory: %v", err))
		return
	}
	if !info.IsDir() {
		d.addError(r, "state", "state.path", fmt.Sprintf("%s is not a directory", dir))
		return
	}

	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		d.addError(r, "state", "state.path", fmt.Sprintf("state directory %s is not writable: %v", dir, err))
		return
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
}

// checkSecrets warns about weak or env-sourced-but-empty credentials.
func (d *Doctor) checkSecrets(r *Result) {
	if d.cfg.Webhook.Secret != "" && len(d.cfg.Webhook.Secret) < 16 {
		d.addWarning(r, "secrets", "webhook.secret",
			fmt.Sprintf("webhook secret is only %d bytes; use at least 16", len(d.cfg.Webhook.Secret)))
	}
	if d.cfg.Webhook.Secret == "" && d.cfg.Webhook.SecretEnv != "" {
		if os.Getenv(d.cfg.Webhook.SecretEnv) == "" {
			d.addError(r, "secrets", "webhook.secret_env",
				fmt.Sprintf("environment variable %s is not set", d.cfg.Webhook.SecretEnv))
		}
	}
}

// checkChat probes the chat server. Unreachable is a warning, not an error:
// the server may simply be down right now.
func (d *Doctor) checkChat(ctx context.Context, r *Result) {
	if d.chat == nil {
		return
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := d.chat.Ping(pingCtx); err != nil {
		d.addWarning(r, "chat", "chat.base_url",
			fmt.Sprintf("chat server unreachable: %v", err))
	}
}

// FormatHuman returns a human-readable validation report.
func FormatHuman(r *Result) string {
	var b strings.Builder

	if r.Valid && len(r.Warnings) == 0 {
		b.WriteString("Configuration valid.\n")
		return b.String()
	}

	if r.Valid && len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "Configuration valid (%d warning(s))\n", len(r.Warnings))
	}
	if !r.Valid {
		fmt.Fprintf(&b, "Configuration invalid (%d error(s), %d warning(s))\n", len(r.Errors), len(r.Warnings))
	}

	for _, e := range r.Errors {
		if e.Field != "" {
			fmt.Fprintf(&b, "  ERROR [%s] %s: %s\n", e.Category, e.Field, e.Message)
		} else {
			fmt.Fprintf(&b, "  ERROR [%s] %s\n", e.Category, e.Message)
		}
	}
	for _, w := range r.Warnings {
		if w.Field != "" {
			fmt.Fprintf(&b, "  WARN  [%s] %s: %s\n", w.Category, w.Field, w.Message)
		} else {
			fmt.Fprintf(&b, "  WARN  [%s] %s\n", w.Category, w.Message)
		}
	}

	return b.String()
}

// FormatJSON returns the result as indented JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
