package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/chat"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/config"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/doctor"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/lock"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/log"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/reconcile"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/storage"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/store"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/tui/watch"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/webhook"
)

const version = "0.1.0"

const defaultConfigPath = "config.yaml"

func main() {
	// Local overrides for secrets during development; missing file is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "start":
		os.Exit(runStart(args))
	case "watch":
		os.Exit(runWatch(args))
	case "doctor":
		os.Exit(runDoctor(args))
	case "config":
		os.Exit(runConfigNoun(args))
	case "version":
		fmt.Printf("rfd-discussd version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`rfd-discussd - RFD webhook to Rocket.Chat discussion bridge

Usage:
  rfd-discussd <command> [flags]

Commands:
  start             Run the webhook service in the foreground
  watch             Live TUI over recorded deliveries and discussions
  doctor            Validate configuration and probe connectivity
  config lock       Authorize current config state (write checksum manifest)
  config check      Validate configuration and integrity
  version           Show version information
  help              Show this help message

All commands accept --config PATH (default config.yaml).
`)
}

func runConfigNoun(args []string) int {
	if len(args) < 1 || isHelpToken(args[0]) {
		fmt.Fprintln(os.Stderr, "Usage: rfd-discussd config <lock|check> [flags]")
		if len(args) > 0 {
			return 0
		}
		return 1
	}

	action := args[0]
	actionArgs := args[1:]

	switch action {
	case "lock":
		return runConfigLock(actionArgs)
	case "check":
		return runDoctor(actionArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", action)
		return 1
	}
}

func isHelpToken(token string) bool {
	return token == "help" || token == "--help" || token == "-h"
}

// --- ACTION IMPLEMENTATIONS ---

func runStart(args []string) int {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log.Setup(cfg.Service.LogLevel)
	logger := log.WithComponent("main")
	logger.Info("rfd-discussd starting", "version", version, "config", *configPath)

	// Refuse to start on a tampered config when a manifest exists.
	if _, err := config.Verify(*configPath); err != nil {
		logger.Error("config integrity check failed", "error", err)
		return 1
	}

	pidLockPath := getPIDLockPath(cfg)
	pidLock, err := lock.AcquirePIDLock(pidLockPath)
	if err != nil {
		logger.Error("failed to acquire PID lock (another instance may be running)", "path", pidLockPath, "error", err)
		return 1
	}
	defer pidLock.Release()
	logger.Info("acquired PID lock", "path", pidLockPath)

	ctx := context.Background()
	db, err := storage.OpenSQLite(ctx, cfg.State.Path)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.State.Path, "error", err)
		return 1
	}
	defer db.Close()
	logger.Info("database opened", "path", cfg.State.Path)

	discussions := store.NewDiscussionStore(db)
	deliveries := store.NewDeliveryLog(db)

	chatClient := chat.NewRocket(cfg.Chat.BaseURL, cfg.Chat.UserID, cfg.Chat.AuthToken)
	if cfg.Chat.Alias != "" {
		chatClient.SetAlias(cfg.Chat.Alias)
	}
	if err := chatClient.Ping(ctx); err != nil {
		// Not fatal: the chat server may come up after us.
		logger.Warn("chat server unreachable at startup", "base_url", cfg.Chat.BaseURL, "error", err)
	}

	reconciler := reconcile.New(chatClient, discussions, reconcile.Config{
		ParentChannel:       cfg.RFD.ParentChannel,
		Prefix:              cfg.RFD.Prefix,
		SiteURL:             cfg.DiscussionSiteURL(),
		UseDeepLinks:        cfg.RFD.UseDeepLinks,
		OverwriteInvalidURL: cfg.RFD.OverwriteInvalidDiscussion,
	}, log.WithComponent("reconcile"))

	maxBody, err := cfg.Webhook.MaxBodySizeBytes()
	if err != nil {
		logger.Error("invalid max_body_size", "error", err)
		return 1
	}
	server := webhook.New(webhook.Config{
		Listen:      cfg.Webhook.Listen,
		Path:        cfg.Webhook.Path,
		Secret:      cfg.Webhook.Secret,
		MaxBodySize: maxBody,
	}, reconciler, discussions, deliveries, log.WithComponent("webhook"))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && err != context.Canceled {
			errCh <- err
		}
	}()

	logger.Info("rfd-discussd running (press Ctrl+C to stop)",
		"listen", cfg.Webhook.Listen, "path", cfg.Webhook.Path)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	case err := <-errCh:
		logger.Error("webhook server failed", "error", err)
		cancel()
		return 1
	}

	logger.Info("rfd-discussd stopped")
	return 0
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	db, err := storage.OpenSQLite(context.Background(), cfg.State.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	model := watch.New(store.NewDiscussionStore(db), store.NewDeliveryLog(db))
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Watch failed: %v\n", err)
		return 1
	}
	return 0
}

func runDoctor(args []string) int {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Path to configuration file")
	jsonOut := fs.Bool("json", false, "Output in JSON")
	strict := fs.Bool("strict", false, "Treat warnings as errors")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config load error: %v\n", err)
		return 1
	}

	chatClient := chat.NewRocket(cfg.Chat.BaseURL, cfg.Chat.UserID, cfg.Chat.AuthToken)
	result := doctor.New(cfg, *configPath, chatClient).Validate(context.Background())

	if *jsonOut {
		out, err := doctor.FormatJSON(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "JSON format error: %v\n", err)
			return 1
		}
		fmt.Println(out)
	} else {
		fmt.Print(doctor.FormatHuman(result))
	}

	if !result.Valid {
		return 1
	}
	if *strict && len(result.Warnings) > 0 {
		return 2
	}
	return 0
}

func runConfigLock(args []string) int {
	fs := flag.NewFlagSet("lock", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	manifest, err := config.Lock(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to lock config: %v\n", err)
		return 1
	}

	fmt.Printf("Locked %s\n", *configPath)
	fmt.Printf("  hash: %s\n", manifest.Hash)
	fmt.Printf("  manifest: %s\n", config.LockPath(*configPath))
	return 0
}

func getPIDLockPath(cfg *config.Config) string {
	dbPath := cfg.State.Path
	dbDir := filepath.Dir(dbPath)
	dbBase := filepath.Base(dbPath)
	ext := filepath.Ext(dbBase)
	nameWithoutExt := dbBase[:len(dbBase)-len(ext)]
	return filepath.Join(dbDir, nameWithoutExt+".pid")
}
